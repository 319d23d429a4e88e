package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/holocard-api/internal/application"
	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/interface/middleware"
	"github.com/oksasatya/holocard-api/pkg/response"
	"github.com/oksasatya/holocard-api/pkg/validation"
)

type ProfileHandler struct {
	Profiles *application.ProfileService
	Errors   *ErrorResponder
}

func NewProfileHandler(profiles *application.ProfileService, errs *ErrorResponder) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Errors: errs}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserIDKey)
	p, err := h.Profiles.Get(c.Request.Context(), uid)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"profile": toProfileDTO(p.User, p.Card)}, "profile", nil)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserIDKey)
	var in application.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Errors.Respond(c, &apperr.ValidationError{Fields: validation.ToDetails(err)})
		return
	}
	p, err := h.Profiles.Upsert(c.Request.Context(), uid, in)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"profile": toProfileDTO(p.User, p.Card)}, "profile updated", nil)
}
