package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/holocard-api/internal/domain/entity"
	"github.com/oksasatya/holocard-api/internal/domain/repository"
)

const cardColumns = `id, user_id, public_id, image_url, metadata, created_at, updated_at`

type CardRepository struct {
	db DB
}

func NewCardRepository(db DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts without ON CONFLICT so a racing second insert for the same
// user surfaces as a unique violation instead of turning into an update.
func (r *CardRepository) Create(ctx context.Context, c *entity.Card) error {
	md, err := json.Marshal(c.Metadata.Normalized())
	if err != nil {
		return fmt.Errorf("create card: encode metadata: %w", err)
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO cards (id, user_id, public_id, image_url, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, c.ID, c.UserID, c.PublicID, c.ImageURL, md)

	return mapError("create card", row.Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *CardRepository) GetByUserID(ctx context.Context, userID string) (*entity.Card, error) {
	row := r.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE user_id = $1`, userID)
	c, err := scanCard(row)
	if err != nil {
		return nil, mapError("get card by user", err)
	}
	return c, nil
}

func (r *CardRepository) GetByPublicID(ctx context.Context, publicID string) (*entity.Card, error) {
	row := r.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE public_id = $1`, publicID)
	c, err := scanCard(row)
	if err != nil {
		return nil, mapError("get card by public id", err)
	}
	return c, nil
}

// UpdateImage writes image_url only and returns the row as stored.
func (r *CardRepository) UpdateImage(ctx context.Context, userID string, imageURL *string) (*entity.Card, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE cards
		SET image_url = $1, updated_at = $2
		WHERE user_id = $3
		RETURNING `+cardColumns, imageURL, time.Now().UTC(), userID)
	c, err := scanCard(row)
	if err != nil {
		return nil, mapError("update card image", err)
	}
	return c, nil
}

func (r *CardRepository) UpdateMetadata(ctx context.Context, userID string, md entity.CardMetadata) (*entity.Card, error) {
	b, err := json.Marshal(md.Normalized())
	if err != nil {
		return nil, fmt.Errorf("update card metadata: encode: %w", err)
	}
	row := r.db.QueryRow(ctx, `
		UPDATE cards
		SET metadata = $1, updated_at = $2
		WHERE user_id = $3
		RETURNING `+cardColumns, b, time.Now().UTC(), userID)
	c, err := scanCard(row)
	if err != nil {
		return nil, mapError("update card metadata", err)
	}
	return c, nil
}

func scanCard(row pgx.Row) (*entity.Card, error) {
	c := &entity.Card{}
	var md []byte
	if err := row.Scan(&c.ID, &c.UserID, &c.PublicID, &c.ImageURL, &md, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Metadata = entity.NewCardMetadata()
	if len(md) > 0 {
		if err := json.Unmarshal(md, &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode card metadata: %w", err)
		}
	}
	c.Metadata = c.Metadata.Normalized()
	return c, nil
}

var _ repository.CardRepository = (*CardRepository)(nil)
