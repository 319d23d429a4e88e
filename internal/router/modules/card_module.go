package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/holocard-api/internal/interface/http"
)

// CardModule serves public card reads plus the signed-in search.
type CardModule struct {
	Handler *handlers.CardHandler
	Guard   Guard
}

func NewCardModule(h *handlers.CardHandler, g Guard) *CardModule {
	return &CardModule{Handler: h, Guard: g}
}

func (m *CardModule) Register(rg *gin.RouterGroup) {
	rg.GET("/card/:publicId", m.Guard.PerIP(300), m.Guard.Optional(), m.Handler.GetPublic)
	rg.GET("/card/:publicId/share", m.Guard.PerIP(300), m.Handler.Share)
	rg.GET("/cards/search", m.Guard.Required(), m.Guard.PerUser(60), m.Handler.Search)
}
