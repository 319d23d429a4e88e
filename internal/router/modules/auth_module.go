package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/holocard-api/internal/interface/http"
)

// AuthModule serves Google sign-in and session lifecycle routes.
// Public: POST /auth/google, POST /auth/logout
// Protected: GET /auth/me, POST /auth/refresh
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
}

func NewAuthModule(h *handlers.AuthHandler, g Guard) *AuthModule {
	return &AuthModule{Handler: h, Guard: g}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/google", m.Guard.PerIP(20), m.Handler.GoogleLogin)
	rg.POST("/auth/logout", m.Handler.Logout)

	auth := rg.Group("/auth")
	auth.Use(m.Guard.Required(), m.Guard.PerUser(120))
	{
		auth.GET("/me", m.Handler.Me)
		auth.POST("/refresh", m.Handler.Refresh)
	}
}
