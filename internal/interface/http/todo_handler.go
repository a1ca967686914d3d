package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/pkg/response"
)

const detailTodoNotFound = "Todo not found"

type TodoHandler struct {
	Svc    *application.TodoService
	Logger *logrus.Logger
}

func NewTodoHandler(svc *application.TodoService, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{Svc: svc, Logger: logger}
}

type createTodoRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255"`
	Description *string    `json:"description"`
	Priority    *int       `json:"priority" binding:"omitempty,rating"`
	DueDate     *time.Time `json:"due_date"`
}

type updateTodoRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *int       `json:"priority" binding:"omitempty,rating"`
	DueDate     *time.Time `json:"due_date"`
}

// Create POST /api/v1/todos/
func (h *TodoHandler) Create(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), currentUserID(c), application.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err, detailTodoNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewTodoView(t))
}

// List GET /api/v1/todos/?skip=&limit=&completed=
func (h *TodoHandler) List(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	var completed *bool
	if raw := c.Query("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"completed": "must be a boolean"})
			return
		}
		completed = &v
	}
	items, err := h.Svc.List(c.Request.Context(), currentUserID(c), completed, p)
	if err != nil {
		writeServiceError(c, h.Logger, err, detailTodoNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.TodoViews(items))
}

// Update PUT /api/v1/todos/:id
func (h *TodoHandler) Update(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), currentUserID(c), c.Param("id"), application.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err, detailTodoNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewTodoView(t))
}

// Delete DELETE /api/v1/todos/:id
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err, detailTodoNotFound)
		return
	}
	response.Success(c, http.StatusOK, messageResponse{Message: "Todo deleted successfully"})
}

// Stats GET /api/v1/todos/stats/summary
func (h *TodoHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err, detailTodoNotFound)
		return
	}
	response.Success(c, http.StatusOK, st)
}
