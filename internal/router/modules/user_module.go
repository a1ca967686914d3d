package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/adhd-helper/internal/application"
	handlers "github.com/oksasatya/adhd-helper/internal/interface/http"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
)

type UserModule struct {
	Handler  *handlers.UserHandler
	Resolver *application.IdentityResolver
}

func NewUserModule(h *handlers.UserHandler, resolver *application.IdentityResolver) *UserModule {
	return &UserModule{Handler: h, Resolver: resolver}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users/me", middleware.RequireActiveUser(m.Resolver))
	g.POST("/export", m.Handler.Export)
}
