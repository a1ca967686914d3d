package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/adhd-helper/internal/application"
	handlers "github.com/oksasatya/adhd-helper/internal/interface/http"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
)

type TodoModule struct {
	Handler  *handlers.TodoHandler
	Resolver *application.IdentityResolver
}

func NewTodoModule(h *handlers.TodoHandler, resolver *application.IdentityResolver) *TodoModule {
	return &TodoModule{Handler: h, Resolver: resolver}
}

func (m *TodoModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/todos", middleware.RequireActiveUser(m.Resolver))
	g.POST("/", m.Handler.Create)
	g.GET("/", m.Handler.List)
	g.GET("/stats/summary", m.Handler.Stats)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
