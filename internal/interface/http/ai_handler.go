package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/pkg/response"
)

type AIHandler struct {
	Svc    *application.AIService
	Logger *logrus.Logger
}

func NewAIHandler(svc *application.AIService, logger *logrus.Logger) *AIHandler {
	return &AIHandler{Svc: svc, Logger: logger}
}

type settingsRequest struct {
	OpenAIAPIKey        *string `json:"openai_api_key" binding:"omitempty,max=200"`
	EnableAIAnalysis    *bool   `json:"enable_ai_analysis"`
	AIFeedbackFrequency *string `json:"ai_feedback_frequency" binding:"omitempty,oneof=daily weekly never"`
}

type generateFeedbackRequest struct {
	FeedbackType string `json:"feedback_type" form:"feedback_type" binding:"omitempty,feedback_type"`
}

type textRequest struct {
	Text string `json:"text" form:"text" binding:"required,max=2000"`
}

type apiKeyRequest struct {
	APIKey string `json:"api_key" form:"api_key" binding:"required"`
}

type feedbacksQuery struct {
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// bindQueryOrJSON reads a JSON body when the request declares one, otherwise
// the query parameters. ContentLength is -1 for chunked bodies.
func bindQueryOrJSON(c *gin.Context, dst any) error {
	if c.ContentType() == binding.MIMEJSON && c.Request.ContentLength != 0 {
		return c.ShouldBindJSON(dst)
	}
	return c.ShouldBindQuery(dst)
}

// GetSettings GET /api/v1/ai/settings
func (h *AIHandler) GetSettings(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}
	response.Success(c, http.StatusOK, h.Svc.GetSettings(u))
}

// UpdateSettings POST /api/v1/ai/settings
func (h *AIHandler) UpdateSettings(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	err := h.Svc.UpdateSettings(c.Request.Context(), u, application.SettingsPatch{
		OpenAIAPIKey:        req.OpenAIAPIKey,
		EnableAIAnalysis:    req.EnableAIAnalysis,
		AIFeedbackFrequency: req.AIFeedbackFrequency,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err, "User not found")
		return
	}
	response.Success(c, http.StatusOK, messageResponse{Message: "AI settings updated"})
}

// AnalyzeEmotion POST /api/v1/ai/analyze-emotion?text=
func (h *AIHandler) AnalyzeEmotion(c *gin.Context) {
	var req textRequest
	if err := bindQueryOrJSON(c, &req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Svc.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		writeServiceError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// GenerateFeedback POST /api/v1/ai/generate-feedback
func (h *AIHandler) GenerateFeedback(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}
	var req generateFeedbackRequest
	if err := bindQueryOrJSON(c, &req); err != nil {
		badPayload(c, err)
		return
	}
	out, err := h.Svc.GenerateFeedback(c.Request.Context(), u, req.FeedbackType)
	if err != nil {
		writeServiceError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, out)
}

// Feedbacks GET /api/v1/ai/feedbacks?limit=10
func (h *AIHandler) Feedbacks(c *gin.Context) {
	var q feedbacksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	items, err := h.Svc.Feedbacks(c.Request.Context(), currentUserID(c), q.Limit)
	if err != nil {
		writeServiceError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, application.FeedbackViews(items))
}

// TestAPIKey POST /api/v1/ai/test-api-key?api_key=
func (h *AIHandler) TestAPIKey(c *gin.Context) {
	var req apiKeyRequest
	if err := bindQueryOrJSON(c, &req); err != nil {
		badPayload(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.TestAPIKey(c.Request.Context(), req.APIKey))
}
