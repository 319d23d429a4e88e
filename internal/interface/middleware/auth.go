package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
	"github.com/oksasatya/holocard-api/pkg/helpers"
	"github.com/oksasatya/holocard-api/pkg/response"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "userID"
)

// SessionResolver maps a session token to its live user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.User, error)
}

// TokenFromRequest reads the session token from the cookie, falling back to
// an Authorization: Bearer header.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if tok, err := c.Cookie(cookieName); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireSession rejects requests without a valid session whose user still exists.
func RequireSession(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := resolver.ResolveSession(c.Request.Context(), TokenFromRequest(c, cookieName))
		if err != nil {
			status, msg := http.StatusUnauthorized, "not authenticated"
			switch {
			case errors.Is(err, helpers.ErrTokenExpired):
				msg = "session expired"
			case !errors.Is(err, apperr.ErrUnauthenticated):
				status, msg = http.StatusInternalServerError, "internal server error"
			}
			resp := response.Error[any](c, status, msg, nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		setUser(c, u)
		c.Next()
	}
}

// OptionalSession attaches the user when the request carries a valid session
// and otherwise lets the request through anonymously.
func OptionalSession(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := TokenFromRequest(c, cookieName); tok != "" {
			if u, err := resolver.ResolveSession(c.Request.Context(), tok); err == nil {
				setUser(c, u)
			}
		}
		c.Next()
	}
}

func setUser(c *gin.Context, u *entity.User) {
	c.Set(ContextUserKey, u)
	c.Set(ContextUserIDKey, u.ID)
}

// CurrentUser returns the user attached by the session middleware.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
