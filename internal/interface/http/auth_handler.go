package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/holocard-api/internal/application"
	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/interface/middleware"
	"github.com/oksasatya/holocard-api/pkg/helpers"
	"github.com/oksasatya/holocard-api/pkg/response"
	"github.com/oksasatya/holocard-api/pkg/validation"
)

type AuthHandler struct {
	Auth     *application.AuthService
	Profiles *application.ProfileService
	Cookies  *helpers.Manager
	Errors   *ErrorResponder
}

func NewAuthHandler(auth *application.AuthService, profiles *application.ProfileService, cookies *helpers.Manager, errs *ErrorResponder) *AuthHandler {
	return &AuthHandler{Auth: auth, Profiles: profiles, Cookies: cookies, Errors: errs}
}

type googleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// GoogleLogin exchanges a Google ID token for a session cookie.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, sess, err := h.Auth.LoginWithGoogle(c.Request.Context(), req.Credential)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.OK(c, http.StatusOK, gin.H{"user": toUserDTO(u)}, "authentication successful", gin.H{"expires_at": sess.ExpiresAt})
}

// Me returns the signed-in user with their card, or a null card.
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.Errors.Respond(c, apperr.ErrUnauthenticated)
		return
	}
	p, err := h.Profiles.Get(c.Request.Context(), u.ID)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"user": toProfileDTO(p.User, p.Card)}, "current user", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.Errors.Respond(c, apperr.ErrUnauthenticated)
		return
	}
	sess, err := h.Auth.Refresh(c.Request.Context(), u.ID)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.OK(c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{"expires_at": sess.ExpiresAt})
}

// Logout only clears the cookie. Issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.OK(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
