package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/holocard-api/internal/application"
	"github.com/oksasatya/holocard-api/internal/interface/middleware"
	"github.com/oksasatya/holocard-api/pkg/response"
)

type CardHandler struct {
	Cards       *application.CardService
	FrontendURL string
	Errors      *ErrorResponder
}

func NewCardHandler(cards *application.CardService, frontendURL string, errs *ErrorResponder) *CardHandler {
	return &CardHandler{Cards: cards, FrontendURL: frontendURL, Errors: errs}
}

// GetPublic serves a card to anyone holding its public id.
func (h *CardHandler) GetPublic(c *gin.Context) {
	pc, err := h.Cards.PublicView(c.Request.Context(), c.Param("publicId"))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	isOwner := false
	if u, ok := middleware.CurrentUser(c); ok {
		isOwner = u.ID == pc.OwnerID
	}
	response.OK(c, http.StatusOK, gin.H{"card": pc, "is_owner": isOwner}, "card", nil)
}

// Share returns what a client needs to share a card link.
func (h *CardHandler) Share(c *gin.Context) {
	publicID := c.Param("publicId")
	pc, err := h.Cards.PublicView(c.Request.Context(), publicID)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"card_url":    h.FrontendURL + "/card/" + pc.PublicID,
		"title":       pc.Owner.Name + "'s HoloCard",
		"description": "Check out " + pc.Owner.Name + "'s interactive AR business card",
		"image":       pc.ImageURL,
	}, "share info", nil)
}

func (h *CardHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Cards.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.OK(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
