package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/pkg/helpers"
	"github.com/oksasatya/holocard-api/pkg/response"
)

// ErrorResponder turns application errors into API responses. It is the
// only place where error kinds become status codes.
type ErrorResponder struct {
	Logger     logrus.FieldLogger
	Production bool
}

func NewErrorResponder(logger logrus.FieldLogger, production bool) *ErrorResponder {
	return &ErrorResponder{Logger: logger, Production: production}
}

func (r *ErrorResponder) Respond(c *gin.Context, err error) {
	if ve, ok := apperr.IsValidation(err); ok {
		response.Fail(c, http.StatusBadRequest, "validation failed", ve.Fields)
		return
	}

	status, msg := classify(err)
	if status < http.StatusInternalServerError {
		response.Fail(c, status, msg, nil)
		return
	}

	helpers.LogError(r.Logger, "request failed", err, logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
		"status":     status,
	})
	var detail interface{}
	if !r.Production {
		detail = err.Error()
	}
	response.Fail(c, status, msg, detail)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredential):
		return http.StatusUnauthorized, "authentication failed"
	case errors.Is(err, helpers.ErrTokenExpired):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, helpers.ErrTokenInvalid):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, apperr.ErrEmailNotVerified):
		return http.StatusBadRequest, "email not verified"
	case errors.Is(err, apperr.ErrNoImage):
		return http.StatusBadRequest, "no image to delete"
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, "already exists or in use"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "file too large"
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
