package application

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
	repo "github.com/oksasatya/holocard-api/internal/domain/repository"
	"github.com/oksasatya/holocard-api/pkg/validation"
)

// ProfileInput is the editable public profile.
type ProfileInput struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Title     string `json:"title" validate:"max=100"`
	Bio       string `json:"bio" validate:"max=500"`
	Phone     string `json:"phone" validate:"max=20"`
	Website   string `json:"website" validate:"omitempty,url,max=200"`
	LinkedIn  string `json:"linkedin" validate:"max=200"`
	Twitter   string `json:"twitter" validate:"max=200"`
	Instagram string `json:"instagram" validate:"max=200"`
	Facebook  string `json:"facebook" validate:"max=200"`
}

func (in *ProfileInput) trim() {
	for _, f := range []*string{&in.Name, &in.Email, &in.Title, &in.Bio, &in.Phone, &in.Website,
		&in.LinkedIn, &in.Twitter, &in.Instagram, &in.Facebook} {
		*f = strings.TrimSpace(*f)
	}
	in.Email = strings.ToLower(in.Email)
}

func (in ProfileInput) metadata() entity.CardMetadata {
	return entity.CardMetadata{
		Title:   in.Title,
		Bio:     in.Bio,
		Phone:   in.Phone,
		Website: in.Website,
		Social: map[string]string{
			"linkedin":  in.LinkedIn,
			"twitter":   in.Twitter,
			"instagram": in.Instagram,
			"facebook":  in.Facebook,
		},
	}
}

// Profile is a user together with their card, if any.
type Profile struct {
	User *entity.User
	Card *entity.Card
}

// CardIndexer receives card summaries after every profile change.
type CardIndexer interface {
	Index(ctx context.Context, s entity.CardSummary) error
}

type ProfileService struct {
	Users    repo.UserRepository
	Cards    *CardService
	Indexer  CardIndexer
	Validate *validator.Validate
	Logger   logrus.FieldLogger
}

func NewProfileService(users repo.UserRepository, cards *CardService, logger logrus.FieldLogger) *ProfileService {
	return &ProfileService{Users: users, Cards: cards, Validate: validation.New(), Logger: logger}
}

// Get returns the user and their card. Card is nil when none exists yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.Cards.GetByUserID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &Profile{User: u}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Card: c}, nil
}

// Upsert validates in, writes name and email to the user row and replaces
// the card metadata, creating the card if needed. Taking an email that
// belongs to another user fails with apperr.ErrConflict.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*Profile, error) {
	in.trim()
	if err := s.Validate.Struct(in); err != nil {
		return nil, &apperr.ValidationError{Fields: validation.ToDetails(err)}
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Name = in.Name
	u.Email = in.Email
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}

	meta := in.metadata()
	c, err := s.Cards.Upsert(ctx, userID, CardFields{Metadata: &meta})
	if err != nil {
		return nil, err
	}

	s.index(ctx, u, c)
	return &Profile{User: u, Card: c}, nil
}

func (s *ProfileService) index(ctx context.Context, u *entity.User, c *entity.Card) {
	if s.Indexer == nil {
		return
	}
	doc := entity.CardSummary{
		PublicID: c.PublicID,
		Name:     u.Name,
		Title:    c.Metadata.Title,
		Bio:      c.Metadata.Bio,
		ImageURL: c.ImageURL,
	}
	if err := s.Indexer.Index(ctx, doc); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("public_id", c.PublicID).Warn("card index failed")
	}
}
