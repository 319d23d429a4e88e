package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/holocard-api/internal/interface/http"
)

type UploadModule struct {
	Handler *handlers.UploadHandler
	Guard   Guard
}

func NewUploadModule(h *handlers.UploadHandler, g Guard) *UploadModule {
	return &UploadModule{Handler: h, Guard: g}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	up := rg.Group("/upload")
	up.Use(m.Guard.Required(), m.Guard.PerUser(20))
	{
		up.POST("/card-image", m.Handler.ReplaceCardImage)
		up.DELETE("/card-image", m.Handler.DeleteCardImage)
	}
}
