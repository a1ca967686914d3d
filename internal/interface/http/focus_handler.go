package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/pkg/response"
)

const detailSessionNotFound = "Session not found"

type FocusHandler struct {
	Svc    *application.FocusService
	Logger *logrus.Logger
}

func NewFocusHandler(svc *application.FocusService, logger *logrus.Logger) *FocusHandler {
	return &FocusHandler{Svc: svc, Logger: logger}
}

type startFocusRequest struct {
	SessionType     string     `json:"session_type" binding:"omitempty,session_type"`
	PlannedDuration *int       `json:"planned_duration" binding:"omitempty,min=1,max=480"`
	StartTime       *time.Time `json:"start_time"`
}

type endFocusRequest struct {
	ProductivityRating *int    `json:"productivity_rating" binding:"omitempty,rating"`
	Notes              *string `json:"notes" binding:"omitempty,max=500"`
}

// Start POST /api/v1/focus/
func (h *FocusHandler) Start(c *gin.Context) {
	var req startFocusRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badPayload(c, err)
		return
	}
	fs, err := h.Svc.Start(c.Request.Context(), currentUserID(c), application.FocusInput{
		DurationMinutes: req.PlannedDuration,
		SessionType:     req.SessionType,
		StartTime:       req.StartTime,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err, detailSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewFocusView(fs))
}

// Current GET /api/v1/focus/current. The body is null when nothing is running.
func (h *FocusHandler) Current(c *gin.Context) {
	fs, err := h.Svc.Current(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err, detailSessionNotFound)
		return
	}
	if fs == nil {
		response.Success[any](c, http.StatusOK, nil)
		return
	}
	response.Success(c, http.StatusOK, application.NewFocusView(fs))
}

// End PUT /api/v1/focus/:id/end
func (h *FocusHandler) End(c *gin.Context) {
	var req endFocusRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badPayload(c, err)
		return
	}
	fs, err := h.Svc.End(c.Request.Context(), currentUserID(c), c.Param("id"), req.ProductivityRating, req.Notes)
	if err != nil {
		writeServiceError(c, h.Logger, err, detailSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewFocusView(fs))
}

// List GET /api/v1/focus/?skip=&limit=&start_date=&end_date=
func (h *FocusHandler) List(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	tr, ok := bindRange(c)
	if !ok {
		return
	}
	items, err := h.Svc.List(c.Request.Context(), currentUserID(c), tr, p)
	if err != nil {
		writeServiceError(c, h.Logger, err, detailSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.FocusViews(items))
}

// Stats GET /api/v1/focus/stats/summary?days=7
func (h *FocusHandler) Stats(c *gin.Context) {
	days, ok := bindDays(c)
	if !ok {
		return
	}
	st, err := h.Svc.Stats(c.Request.Context(), currentUserID(c), days)
	if err != nil {
		writeServiceError(c, h.Logger, err, detailSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// bindOptionalJSON treats an empty body as an empty object.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
