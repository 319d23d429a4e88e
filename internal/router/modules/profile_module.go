package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/holocard-api/internal/interface/http"
)

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Guard   Guard
}

func NewProfileModule(h *handlers.ProfileHandler, g Guard) *ProfileModule {
	return &ProfileModule{Handler: h, Guard: g}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	p := rg.Group("/profile")
	p.Use(m.Guard.Required(), m.Guard.PerUser(60))
	{
		p.GET("", m.Handler.Get)
		p.PUT("", m.Handler.Update)
	}
}
