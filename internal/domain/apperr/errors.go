// Package apperr holds the failure kinds shared by the application layer.
// Errors are wrapped with %w where they occur and translated to HTTP
// responses once, in the interface layer.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmailNotVerified  = errors.New("email not verified")
	ErrConflict          = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrNoImage           = errors.New("no image")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrUpstream          = errors.New("upstream service unavailable")
)

// ValidationError carries field-level messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
