package google

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
)

// ValidateFunc matches idtoken.Validate.
type ValidateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// Verifier checks Google ID tokens against Google's public keys and the
// configured OAuth client id.
type Verifier struct {
	clientID string
	validate ValidateFunc
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID, validate: idtoken.Validate}
}

// NewVerifierWithValidator swaps the token validation call, mostly for tests.
func NewVerifierWithValidator(clientID string, fn ValidateFunc) *Verifier {
	return &Verifier{clientID: clientID, validate: fn}
}

// Verify returns the identity carried by credential. Every failure, network
// errors included, is reported as apperr.ErrInvalidCredential.
func (v *Verifier) Verify(ctx context.Context, credential string) (*entity.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: empty credential", apperr.ErrInvalidCredential)
	}
	// an empty audience would make idtoken skip the aud check
	if v.clientID == "" {
		return nil, fmt.Errorf("%w: google client id not configured", apperr.ErrInvalidCredential)
	}
	p, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidCredential, err)
	}
	if p == nil || p.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", apperr.ErrInvalidCredential)
	}
	email := claimString(p.Claims, "email")
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", apperr.ErrInvalidCredential)
	}
	return &entity.Identity{
		ProviderID:    p.Subject,
		Email:         strings.ToLower(email),
		EmailVerified: claimBool(p.Claims, "email_verified"),
		Name:          claimString(p.Claims, "name"),
		Picture:       claimString(p.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}

// Google has sent email_verified both as a bool and as a string.
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}
