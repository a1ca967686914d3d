package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/adhd-helper/internal/application"
	handlers "github.com/oksasatya/adhd-helper/internal/interface/http"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
)

// AIModule serves /ai. Routes that call a paid provider share a per-user limit.
type AIModule struct {
	Handler   *handlers.AIHandler
	Resolver  *application.IdentityResolver
	RDB       *redis.Client
	PerMinute int
}

func NewAIModule(h *handlers.AIHandler, resolver *application.IdentityResolver, rdb *redis.Client, perMinute int) *AIModule {
	return &AIModule{Handler: h, Resolver: resolver, RDB: rdb, PerMinute: perMinute}
}

func (m *AIModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/ai", middleware.RequireActiveUser(m.Resolver))
	g.GET("/settings", m.Handler.GetSettings)
	g.POST("/settings", m.Handler.UpdateSettings)
	g.GET("/feedbacks", m.Handler.Feedbacks)

	limited := g.Group("/", middleware.RateLimit(m.RDB, m.PerMinute, time.Minute, middleware.KeyByUserID(), nil))
	limited.POST("/analyze-emotion", m.Handler.AnalyzeEmotion)
	limited.POST("/generate-feedback", m.Handler.GenerateFeedback)
	limited.POST("/test-api-key", m.Handler.TestAPIKey)
}
