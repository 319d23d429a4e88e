package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
	"github.com/oksasatya/holocard-api/internal/domain/repository"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, name, picture, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Name, u.Picture, u.ProviderID)

	return mapError("create user", row.Scan(&u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u := &entity.User{}

	row := r.db.QueryRow(ctx, `
		SELECT id, email, name, picture, provider_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.ProviderID,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError("get user by id", err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}

	row := r.db.QueryRow(ctx, `
		SELECT id, email, name, picture, provider_id, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.ProviderID,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError("get user by email", err)
	}

	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, picture = $3, provider_id = $4, updated_at = $5
		WHERE id = $6
	`, u.Email, u.Name, u.Picture, u.ProviderID, u.UpdatedAt, u.ID)
	if err != nil {
		return mapError("update user", err)
	}

	if res.RowsAffected() == 0 {
		return mapError("update user", apperr.ErrNotFound)
	}

	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
