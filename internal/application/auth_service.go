package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
	repo "github.com/oksasatya/holocard-api/internal/domain/repository"
	"github.com/oksasatya/holocard-api/pkg/helpers"
)

// IdentityVerifier turns a Google credential into verified claims.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*entity.Identity, error)
}

type AuthService struct {
	Users    repo.UserRepository
	Verifier IdentityVerifier
	Sessions *helpers.SessionCodec
	Logger   logrus.FieldLogger
}

// Session is a freshly issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(users repo.UserRepository, verifier IdentityVerifier, sessions *helpers.SessionCodec, logger logrus.FieldLogger) *AuthService {
	return &AuthService{Users: users, Verifier: verifier, Sessions: sessions, Logger: logger}
}

// LoginWithGoogle verifies credential, creates or refreshes the user with
// that email and issues a session for it.
func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (*entity.User, Session, error) {
	id, err := s.Verifier.Verify(ctx, credential)
	if err != nil {
		return nil, Session{}, err
	}
	if !id.EmailVerified {
		return nil, Session{}, apperr.ErrEmailNotVerified
	}

	u, err := s.upsertUser(ctx, id)
	if err != nil {
		return nil, Session{}, err
	}

	sess, err := s.issue(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

func (s *AuthService) upsertUser(ctx context.Context, id *entity.Identity) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, id.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		u = &entity.User{
			ID:         uuid.NewString(),
			Email:      id.Email,
			Name:       id.Name,
			Picture:    id.Picture,
			ProviderID: id.ProviderID,
		}
		err = s.Users.Create(ctx, u)
		if err == nil {
			if s.Logger != nil {
				s.Logger.WithField("user_id", u.ID).Info("user created")
			}
			return u, nil
		}
		// a concurrent first login for the same email won the insert
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		u, err = s.Users.GetByEmail(ctx, id.Email)
	}
	if err != nil {
		return nil, err
	}

	u.Name = id.Name
	u.Picture = id.Picture
	u.ProviderID = id.ProviderID
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Refresh issues a new session for an already authenticated user.
func (s *AuthService) Refresh(_ context.Context, userID string) (Session, error) {
	return s.issue(userID)
}

func (s *AuthService) issue(userID string) (Session, error) {
	tok, exp, err := s.Sessions.Issue(userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("issue session failed")
		}
		return Session{}, err
	}
	return Session{Token: tok, ExpiresAt: exp}, nil
}

// ResolveSession maps a session token to its live user row. A valid token
// whose user no longer exists is unauthenticated.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, apperr.ErrUnauthenticated
	}
	userID, err := s.Sessions.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnauthenticated, err)
	}
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s no longer exists", apperr.ErrUnauthenticated, userID)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
