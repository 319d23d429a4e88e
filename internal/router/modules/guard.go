package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/holocard-api/internal/interface/middleware"
)

// Guard bundles session checks and rate limits shared by the modules.
type Guard struct {
	Sessions   middleware.SessionResolver
	CookieName string
	Redis      redis.Cmdable
	Production bool
}

func (g Guard) Required() gin.HandlerFunc {
	return middleware.RequireSession(g.Sessions, g.CookieName)
}

func (g Guard) Optional() gin.HandlerFunc {
	return middleware.OptionalSession(g.Sessions, g.CookieName)
}

// PerUser limits authenticated callers per route. Must run after Required.
func (g Guard) PerUser(max int) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, time.Minute, middleware.KeyByUserID(), nil)
}

// PerIP limits anonymous callers per route. Private addresses bypass it
// outside production so local clients are never throttled.
func (g Guard) PerIP(max int) gin.HandlerFunc {
	var allow middleware.AllowFunc
	if !g.Production {
		allow = middleware.AllowPrivateIP()
	}
	return middleware.RateLimit(g.Redis, max, time.Minute, middleware.KeyByIPAndPath(), allow)
}
