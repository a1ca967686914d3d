package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/adhd-helper/internal/application"
	handlers "github.com/oksasatya/adhd-helper/internal/interface/http"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
)

type FocusModule struct {
	Handler  *handlers.FocusHandler
	Resolver *application.IdentityResolver
}

func NewFocusModule(h *handlers.FocusHandler, resolver *application.IdentityResolver) *FocusModule {
	return &FocusModule{Handler: h, Resolver: resolver}
}

func (m *FocusModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/focus", middleware.RequireActiveUser(m.Resolver))
	g.POST("/", m.Handler.Start)
	g.GET("/", m.Handler.List)
	g.GET("/current", m.Handler.Current)
	g.GET("/stats/summary", m.Handler.Stats)
	g.PUT("/:id/end", m.Handler.End)
}
