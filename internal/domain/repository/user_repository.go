package repository

import (
	"context"

	"github.com/oksasatya/holocard-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups return apperr.ErrNotFound when no row matches; writes that violate
// the email unique index return apperr.ErrConflict.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
