// Package memory provides map-backed repositories with the same unique
// constraints as the postgres schema. It backs unit tests of the
// application and interface layers.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
	"github.com/oksasatya/holocard-api/internal/domain/repository"
)

// Store holds users and cards behind one mutex so both unique indexes
// (users.email, cards.user_id, cards.public_id) are checked atomically.
type Store struct {
	mu    sync.Mutex
	users map[string]entity.User
	cards map[string]entity.Card // keyed by card id

	reads int
}

func NewStore() *Store {
	return &Store{users: map[string]entity.User{}, cards: map[string]entity.Card{}}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Cards() *CardRepository { return &CardRepository{s: s} }

// DeleteUser removes a user and its card, like ON DELETE CASCADE.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for k, c := range s.cards {
		if c.UserID == id {
			delete(s.cards, k)
		}
	}
}

// ReadCount returns how many lookups have been served.
func (s *Store) ReadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// CardCount returns how many cards the user owns.
func (s *Store) CardCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.cards {
		if c.UserID == userID {
			n++
		}
	}
	return n
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: users_email_key: %w", apperr.ErrConflict)
		}
	}
	if _, ok := r.s.users[u.ID]; ok {
		return fmt.Errorf("create user: users_pkey: %w", apperr.ErrConflict)
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reads++
	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("get user by id: %w", apperr.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reads++
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", apperr.ErrNotFound)
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return fmt.Errorf("update user: %w", apperr.ErrNotFound)
	}
	for id, existing := range r.s.users {
		if id != u.ID && existing.Email == u.Email {
			return fmt.Errorf("update user: users_email_key: %w", apperr.ErrConflict)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	r.s.users[u.ID] = *u
	return nil
}

type CardRepository struct{ s *Store }

func (r *CardRepository) Create(_ context.Context, c *entity.Card) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.cards {
		if existing.UserID == c.UserID {
			return fmt.Errorf("create card: cards_user_id_key: %w", apperr.ErrConflict)
		}
		if existing.PublicID == c.PublicID {
			return fmt.Errorf("create card: cards_public_id_key: %w", apperr.ErrConflict)
		}
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	c.Metadata = c.Metadata.Normalized()
	r.s.cards[c.ID] = cloneCard(*c)
	return nil
}

func (r *CardRepository) GetByUserID(_ context.Context, userID string) (*entity.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reads++
	for _, c := range r.s.cards {
		if c.UserID == userID {
			out := cloneCard(c)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("get card by user: %w", apperr.ErrNotFound)
}

func (r *CardRepository) GetByPublicID(_ context.Context, publicID string) (*entity.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reads++
	for _, c := range r.s.cards {
		if c.PublicID == publicID {
			out := cloneCard(c)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("get card by public id: %w", apperr.ErrNotFound)
}

func (r *CardRepository) UpdateImage(_ context.Context, userID string, imageURL *string) (*entity.Card, error) {
	return r.update("update card image", userID, func(c *entity.Card) { c.ImageURL = imageURL })
}

func (r *CardRepository) UpdateMetadata(_ context.Context, userID string, md entity.CardMetadata) (*entity.Card, error) {
	return r.update("update card metadata", userID, func(c *entity.Card) { c.Metadata = md.Normalized() })
}

func (r *CardRepository) update(op, userID string, set func(*entity.Card)) (*entity.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.cards {
		if existing.UserID != userID {
			continue
		}
		set(&existing)
		existing.UpdatedAt = time.Now().UTC()
		r.s.cards[id] = cloneCard(existing)
		out := cloneCard(existing)
		return &out, nil
	}
	return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
}

func cloneCard(c entity.Card) entity.Card {
	if c.ImageURL != nil {
		u := *c.ImageURL
		c.ImageURL = &u
	}
	social := make(map[string]string, len(c.Metadata.Social))
	for k, v := range c.Metadata.Social {
		social[k] = v
	}
	c.Metadata.Social = social
	return c
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.CardRepository = (*CardRepository)(nil)
)
