package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
	repo "github.com/oksasatya/holocard-api/internal/domain/repository"
	"github.com/oksasatya/holocard-api/pkg/helpers"
)

// CardFields lists the card attributes an upsert may change. Nil fields are
// left as they are. A non-nil empty ImageURL clears the image.
type CardFields struct {
	Metadata *entity.CardMetadata
	ImageURL *string
}

// PublicCardCache stores rendered public cards. Implementations swallow their own errors.
//
// Generation is read before loading a card and handed to Set, which drops
// the write when Invalidate ran in between.
type PublicCardCache interface {
	Get(ctx context.Context, publicID string) (*entity.PublicCard, bool)
	Generation(ctx context.Context, publicID string) int64
	Set(ctx context.Context, card *entity.PublicCard, gen int64)
	Invalidate(ctx context.Context, publicID string)
}

// CardSearcher looks up indexed card summaries.
type CardSearcher interface {
	Search(ctx context.Context, q string, size int) ([]entity.CardSummary, error)
}

type CardService struct {
	Cards    repo.CardRepository
	Users    repo.UserRepository
	Cache    PublicCardCache
	Searcher CardSearcher
	Logger   logrus.FieldLogger

	now func() time.Time
}

func NewCardService(cards repo.CardRepository, users repo.UserRepository, logger logrus.FieldLogger) *CardService {
	return &CardService{Cards: cards, Users: users, Logger: logger, now: time.Now}
}

// Upsert creates the user's card on first call and applies f in place
// afterwards, writing only the fields f carries. id and public id are fixed
// at creation.
//
// Creation is a plain insert. When two first-time upserts race, the loser
// gets apperr.ErrConflict from the user_id unique index.
func (s *CardService) Upsert(ctx context.Context, userID string, f CardFields) (*entity.Card, error) {
	c, err := s.Cards.GetByUserID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		c = &entity.Card{
			ID:       uuid.NewString(),
			UserID:   userID,
			PublicID: helpers.NewPublicID(s.clock()),
			Metadata: entity.NewCardMetadata(),
		}
		applyFields(c, f)
		if err := s.Cards.Create(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	// fields are written column by column, never from the row read above
	if f.Metadata != nil {
		if c, err = s.Cards.UpdateMetadata(ctx, userID, *f.Metadata); err != nil {
			return nil, err
		}
	}
	if f.ImageURL != nil {
		var url *string
		if *f.ImageURL != "" {
			u := *f.ImageURL
			url = &u
		}
		if c, err = s.Cards.UpdateImage(ctx, userID, url); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx, c.PublicID)
	return c, nil
}

func applyFields(c *entity.Card, f CardFields) {
	if f.Metadata != nil {
		c.Metadata = f.Metadata.Normalized()
	}
	if f.ImageURL != nil {
		if *f.ImageURL == "" {
			c.ImageURL = nil
		} else {
			u := *f.ImageURL
			c.ImageURL = &u
		}
	}
}

func (s *CardService) GetByUserID(ctx context.Context, userID string) (*entity.Card, error) {
	return s.Cards.GetByUserID(ctx, userID)
}

func (s *CardService) GetByPublicID(ctx context.Context, publicID string) (*entity.Card, error) {
	return s.Cards.GetByPublicID(ctx, publicID)
}

// PublicView renders the card behind publicID for anonymous viewers,
// going through the cache when one is configured.
func (s *CardService) PublicView(ctx context.Context, publicID string) (*entity.PublicCard, error) {
	gen := int64(-1)
	if s.Cache != nil {
		if pc, ok := s.Cache.Get(ctx, publicID); ok {
			return pc, nil
		}
		gen = s.Cache.Generation(ctx, publicID)
	}
	c, err := s.Cards.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("card owner: %w", err)
	}
	pc := &entity.PublicCard{
		PublicID:  c.PublicID,
		ImageURL:  c.ImageURL,
		CreatedAt: c.CreatedAt,
		Owner:     entity.PublicOwner{Name: u.Name, Email: u.Email, Picture: u.Picture},
		Profile:   c.Metadata.Normalized(),
		OwnerID:   u.ID,
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, pc, gen)
	}
	return pc, nil
}

// Search queries the card index. An empty query is a validation error.
func (s *CardService) Search(ctx context.Context, q string, size int) ([]entity.CardSummary, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperr.Invalid("q", "is required")
	}
	if len(q) > 100 {
		return nil, apperr.Invalid("q", "must be at most 100 characters long")
	}
	if s.Searcher == nil {
		return []entity.CardSummary{}, nil
	}
	return s.Searcher.Search(ctx, q, size)
}

func (s *CardService) invalidate(ctx context.Context, publicID string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, publicID)
	}
}

func (s *CardService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
