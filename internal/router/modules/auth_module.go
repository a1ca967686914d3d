package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/adhd-helper/internal/application"
	handlers "github.com/oksasatya/adhd-helper/internal/interface/http"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
)

// AuthModule serves /auth. Only /auth/me needs a token, and it does not
// require the account to be active.
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Resolver *application.IdentityResolver
}

func NewAuthModule(h *handlers.AuthHandler, resolver *application.IdentityResolver) *AuthModule {
	return &AuthModule{Handler: h, Resolver: resolver}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/register", m.Handler.Register)
	g.POST("/login", m.Handler.Login)
	g.POST("/refresh", m.Handler.Refresh)
	g.GET("/me", middleware.RequireUser(m.Resolver), m.Handler.Me)
}
