package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/adhd-helper/internal/application"
	handlers "github.com/oksasatya/adhd-helper/internal/interface/http"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
)

type EmotionModule struct {
	Handler  *handlers.EmotionHandler
	Resolver *application.IdentityResolver
}

func NewEmotionModule(h *handlers.EmotionHandler, resolver *application.IdentityResolver) *EmotionModule {
	return &EmotionModule{Handler: h, Resolver: resolver}
}

func (m *EmotionModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/emotions", middleware.RequireActiveUser(m.Resolver))
	g.POST("/", m.Handler.Create)
	g.GET("/", m.Handler.List)
	g.GET("/stats/summary", m.Handler.Stats)
	g.GET("/search", m.Handler.Search)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
