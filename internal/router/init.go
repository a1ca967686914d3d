package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/adhd-helper/internal/container"
	"github.com/oksasatya/adhd-helper/internal/router/modules"
)

// InitModules registers every feature module. Call once during startup.
func InitModules(r *Registry, app *container.App) {
	r.Add(modules.NewAuthModule(app.Auth, app.Resolver))
	r.Add(modules.NewEmotionModule(app.Emotion, app.Resolver))
	r.Add(modules.NewFocusModule(app.Focus, app.Resolver))
	r.Add(modules.NewTodoModule(app.Todo, app.Resolver))
	r.Add(modules.NewAIModule(app.AI, app.Resolver, app.Redis, app.Config.AIRateLimitPerMinute))
	r.Add(modules.NewUserModule(app.User, app.Resolver))
	if app.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(app.Redis))
	}
}

// RegisterHealth mounts the unauthenticated liveness check at /health.
func RegisterHealth(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}
