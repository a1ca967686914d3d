package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
	"github.com/oksasatya/adhd-helper/pkg/response"
	"github.com/oksasatya/adhd-helper/pkg/validation"
)

const detailInternal = "internal server error"

// writeServiceError maps application errors to HTTP responses. notFound is the
// detail used for ErrNotFound so each resource keeps its own wording.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, notFound, nil)
	case errors.Is(err, application.ErrEmailAlreadyRegistered):
		response.Error(c, http.StatusBadRequest, "Email already registered", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Unauthorized(c, "Incorrect email or password")
	case errors.Is(err, application.ErrInvalidRefreshToken):
		response.Unauthorized(c, "Invalid refresh token")
	case errors.Is(err, application.ErrSessionAlreadyEnded):
		response.Error(c, http.StatusBadRequest, "Session already ended", nil)
	case errors.Is(err, application.ErrAIKeyMissing):
		response.Error(c, http.StatusBadRequest, "OpenAI API key is not configured. Add it in settings first.", nil)
	case errors.Is(err, application.ErrAIKeyInvalid):
		response.Error(c, http.StatusBadRequest, "OpenAI API key was rejected", nil)
	case errors.Is(err, application.ErrAIRateLimited):
		response.Error(c, http.StatusTooManyRequests, "AI provider rate limit exceeded", nil)
	case errors.Is(err, application.ErrAIUnavailable):
		helpers.LogWarn(logger, "ai provider unavailable", err, logrus.Fields{"request_id": c.GetString(response.CtxRequestIDKey)})
		response.Error(c, http.StatusServiceUnavailable, "AI provider is unavailable", nil)
	case errors.Is(err, application.ErrExportUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "Export storage is not configured", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString(response.CtxRequestIDKey),
			"path":       c.FullPath(),
		})
		response.Error(c, http.StatusInternalServerError, detailInternal, nil)
	}
}

func badPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// currentUser is set by middleware.RequireUser; a missing user means the route
// was registered without it.
func currentUser(c *gin.Context) *entity.User {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Could not validate credentials")
		return nil
	}
	return u
}

// currentUserID is the id RequireActiveUser stored on the context.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

type pageQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=1,max=100"`
}

// bindPage reads skip (default 0) and limit (default 100, at most 100).
func bindPage(c *gin.Context) (repository.Page, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return repository.Page{}, false
	}
	return repository.Page{Skip: q.Skip, Limit: q.Limit}, true
}

// bindDays reads the stats window; values outside 1..90 are rejected.
func bindDays(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("days", strconv.Itoa(application.DefaultStatsDays))
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > application.MaxStatsDays {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"days": "must be between 1 and 90"})
		return 0, false
	}
	return days, true
}

type messageResponse struct {
	Message string `json:"message"`
}

// bindRange reads optional RFC 3339 start_date and end_date bounds.
func bindRange(c *gin.Context) (repository.TimeRange, bool) {
	var tr repository.TimeRange
	for key, dst := range map[string]**time.Time{"start_date": &tr.From, "end_date": &tr.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{key: "must be an RFC 3339 timestamp"})
			return tr, false
		}
		*dst = &t
	}
	return tr, true
}
