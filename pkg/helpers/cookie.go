package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Manager writes the session cookie. Production deployments serve the
// frontend from another origin, so the cookie goes out as SameSite=None.
type Manager struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookie(name, domain string, secure, production bool) *Manager {
	if name == "" {
		name = "token"
	}
	sameSite := http.SameSiteLaxMode
	if production {
		sameSite = http.SameSiteNoneMode
		secure = true
	}
	return &Manager{Name: name, Domain: domain, Secure: secure, SameSite: sameSite}
}

// SetSession stores the session token until exp.
func (m *Manager) SetSession(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// Clear expires the session cookie with the same attributes it was set with.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

// maxAgeFrom never returns 0: gin would omit Max-Age and the browser would
// keep the cookie for the whole session. Past expiries delete it.
func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 1 {
		return -1
	}
	return sec
}
