package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
	"github.com/oksasatya/holocard-api/internal/infrastructure/memory"
	"github.com/oksasatya/holocard-api/pkg/helpers"
)

func googleIdentity(email string, verified bool) *entity.Identity {
	return &entity.Identity{
		ProviderID:    "sub-" + email,
		Email:         email,
		EmailVerified: verified,
		Name:          "Ada Lovelace",
		Picture:       "https://lh3.example/ada.png",
	}
}

func newAuthService(store *memory.Store, v IdentityVerifier) *AuthService {
	logger, _ := nullLogger()
	return NewAuthService(store.Users(), v, helpers.NewSessionCodec("test-secret", helpers.DefaultSessionTTL), logger)
}

func TestLoginWithGoogle_CreatesThenUpdatesUser(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	svc := newAuthService(store, fakeVerifier{identity: googleIdentity("ada@example.com", true)})
	u, sess, err := svc.LoginWithGoogle(ctx, "cred")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEmpty(t, sess.Token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), sess.ExpiresAt, time.Minute)

	renamed := googleIdentity("ada@example.com", true)
	renamed.Name = "Ada King"
	svc.Verifier = fakeVerifier{identity: renamed}
	again, _, err := svc.LoginWithGoogle(ctx, "cred")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", stored.Name)
	assert.Equal(t, "sub-ada@example.com", stored.ProviderID)
}

func TestLoginWithGoogle_RejectsUnverifiedEmail(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(store, fakeVerifier{identity: googleIdentity("bob@example.com", false)})

	_, _, err := svc.LoginWithGoogle(context.Background(), "cred")
	assert.ErrorIs(t, err, apperr.ErrEmailNotVerified)
	_, err = store.Users().GetByEmail(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLoginWithGoogle_InvalidCredential(t *testing.T) {
	store := memory.NewStore()
	verr := fmt.Errorf("%w: bad audience", apperr.ErrInvalidCredential)
	svc := newAuthService(store, fakeVerifier{err: verr})

	_, _, err := svc.LoginWithGoogle(context.Background(), "cred")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredential)
}

func TestResolveSession(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(store, nil)
	seedUser(t, store, "u1", "u1@example.com")
	ctx := context.Background()

	sess, err := svc.Refresh(ctx, "u1")
	require.NoError(t, err)

	u, err := svc.ResolveSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = svc.ResolveSession(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.ResolveSession(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.ErrorIs(t, err, helpers.ErrTokenInvalid)

	store.DeleteUser("u1")
	_, err = svc.ResolveSession(ctx, sess.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestResolveSession_Expired(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store, "u1", "u1@example.com")
	svc := newAuthService(store, nil)

	past := time.Now().Add(-8 * 24 * time.Hour)
	old := helpers.NewSessionCodec("test-secret", helpers.DefaultSessionTTL).WithClock(func() time.Time { return past })
	tok, _, err := old.Issue("u1")
	require.NoError(t, err)

	_, err = svc.ResolveSession(context.Background(), tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.ErrorIs(t, err, helpers.ErrTokenExpired)
}
