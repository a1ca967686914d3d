package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/pkg/response"
)

const detailEmotionNotFound = "Emotion record not found"

type EmotionHandler struct {
	Svc    *application.EmotionService
	Logger *logrus.Logger
}

func NewEmotionHandler(svc *application.EmotionService, logger *logrus.Logger) *EmotionHandler {
	return &EmotionHandler{Svc: svc, Logger: logger}
}

type createEmotionRequest struct {
	EmotionLevel int        `json:"emotion_level" binding:"required,emotion_level"`
	EmotionType  string     `json:"emotion_type" binding:"required,max=50"`
	Note         *string    `json:"note" binding:"omitempty,max=1000"`
	RecordedAt   *time.Time `json:"recorded_at"`
}

type updateEmotionRequest struct {
	EmotionLevel *int    `json:"emotion_level" binding:"omitempty,emotion_level"`
	EmotionType  *string `json:"emotion_type" binding:"omitempty,min=1,max=50"`
	Note         *string `json:"note" binding:"omitempty,max=1000"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,max=200"`
	Size int    `form:"size,default=10" binding:"min=1,max=50"`
}

// Create POST /api/v1/emotions/
func (h *EmotionHandler) Create(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}
	var req createEmotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	e, err := h.Svc.Create(c.Request.Context(), u, application.EmotionInput{
		EmotionLevel: req.EmotionLevel,
		EmotionType:  req.EmotionType,
		Note:         req.Note,
		RecordedAt:   req.RecordedAt,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err, detailEmotionNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewEmotionView(e))
}

// List GET /api/v1/emotions/?skip=&limit=&start_date=&end_date=
func (h *EmotionHandler) List(c *gin.Context) {
	uid := currentUserID(c)
	p, ok := bindPage(c)
	if !ok {
		return
	}
	tr, ok := bindRange(c)
	if !ok {
		return
	}
	items, err := h.Svc.List(c.Request.Context(), uid, tr, p)
	if err != nil {
		writeServiceError(c, h.Logger, err, detailEmotionNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.EmotionViews(items))
}

// Get GET /api/v1/emotions/:id
func (h *EmotionHandler) Get(c *gin.Context) {
	e, err := h.Svc.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err, detailEmotionNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewEmotionView(e))
}

// Update PUT /api/v1/emotions/:id
func (h *EmotionHandler) Update(c *gin.Context) {
	var req updateEmotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	e, err := h.Svc.Update(c.Request.Context(), currentUserID(c), c.Param("id"), application.EmotionPatch{
		EmotionLevel: req.EmotionLevel,
		EmotionType:  req.EmotionType,
		Note:         req.Note,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err, detailEmotionNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewEmotionView(e))
}

// Delete DELETE /api/v1/emotions/:id
func (h *EmotionHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err, detailEmotionNotFound)
		return
	}
	response.Success(c, http.StatusOK, messageResponse{Message: "Emotion record deleted successfully"})
}

// Stats GET /api/v1/emotions/stats/summary?days=7
func (h *EmotionHandler) Stats(c *gin.Context) {
	days, ok := bindDays(c)
	if !ok {
		return
	}
	st, err := h.Svc.Stats(c.Request.Context(), currentUserID(c), days)
	if err != nil {
		writeServiceError(c, h.Logger, err, detailEmotionNotFound)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Search GET /api/v1/emotions/search?q=&size=
func (h *EmotionHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), currentUserID(c), q.Q, q.Size)
	if err != nil {
		writeServiceError(c, h.Logger, err, detailEmotionNotFound)
		return
	}
	response.Success(c, http.StatusOK, hits)
}
