package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type exportResponse struct {
	URL string `json:"url"`
}

// Export POST /api/v1/users/me/export
func (h *UserHandler) Export(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}
	url, err := h.Svc.Export(c.Request.Context(), u)
	if err != nil {
		writeServiceError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, exportResponse{URL: url})
}
