package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
	"github.com/oksasatya/adhd-helper/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
	CtxRealIPKey = "real_ip"

	detailBadCredentials = "Could not validate credentials"
	detailInactiveUser   = "Inactive user"
)

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireUser resolves the bearer token to a user without checking the active flag.
// It sets userID and user in the Gin context on success.
func RequireUser(resolver *application.IdentityResolver) gin.HandlerFunc {
	return authenticate(resolver, false)
}

// RequireActiveUser is RequireUser plus a 400 for deactivated accounts.
func RequireActiveUser(resolver *application.IdentityResolver) gin.HandlerFunc {
	return authenticate(resolver, true)
}

func authenticate(resolver *application.IdentityResolver, requireActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, detailBadCredentials)
			return
		}
		u, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrInvalidToken) || errors.Is(err, application.ErrUserNotFound) {
				response.Unauthorized(c, detailBadCredentials)
				return
			}
			helpers.LogError(resolver.Logger, "identity lookup failed", err, logrus.Fields{"request_id": c.GetString(response.CtxRequestIDKey)})
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		if requireActive {
			if err := application.Authorize(u); err != nil {
				response.Error(c, http.StatusBadRequest, detailInactiveUser, nil)
				return
			}
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser or RequireActiveUser.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
