package repository

import (
	"context"

	"github.com/oksasatya/holocard-api/internal/domain/entity"
)

// CardRepository persists the 1:1 user to card relation.
//
// Create is a plain insert: a second card for the same user, or a
// colliding public id, fails with apperr.ErrConflict. UpdateImage and
// UpdateMetadata each write a single column of the row owned by userID and
// return the row as stored afterwards.
type CardRepository interface {
	Create(ctx context.Context, c *entity.Card) error
	GetByUserID(ctx context.Context, userID string) (*entity.Card, error)
	GetByPublicID(ctx context.Context, publicID string) (*entity.Card, error)
	UpdateImage(ctx context.Context, userID string, imageURL *string) (*entity.Card, error)
	UpdateMetadata(ctx context.Context, userID string, md entity.CardMetadata) (*entity.Card, error)
}
