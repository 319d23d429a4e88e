package entity

import "time"

// Card is the single business card owned by a user.
// PublicID is assigned once at creation and is the only identifier
// exposed to anonymous viewers.
type Card struct {
	ID        string
	UserID    string
	PublicID  string
	ImageURL  *string
	Metadata  CardMetadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasImage reports whether the card currently references a stored image.
func (c *Card) HasImage() bool {
	return c != nil && c.ImageURL != nil && *c.ImageURL != ""
}

// CardMetadata is persisted as a JSON document next to the card row.
type CardMetadata struct {
	Title   string            `json:"title"`
	Bio     string            `json:"bio"`
	Phone   string            `json:"phone"`
	Website string            `json:"website"`
	Social  map[string]string `json:"social"`
}

// NewCardMetadata returns the metadata of a freshly created card.
func NewCardMetadata() CardMetadata {
	return CardMetadata{Social: map[string]string{}}
}

// Normalized fills nil collections so the stored and rendered form is stable.
func (m CardMetadata) Normalized() CardMetadata {
	if m.Social == nil {
		m.Social = map[string]string{}
	}
	return m
}

// PublicCard is the owner-safe view served to anonymous callers.
type PublicCard struct {
	PublicID  string       `json:"public_id"`
	ImageURL  *string      `json:"image_url"`
	CreatedAt time.Time    `json:"created_at"`
	Owner     PublicOwner  `json:"user"`
	Profile   CardMetadata `json:"profile"`
	OwnerID   string       `json:"-"`
}

type PublicOwner struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// CardSummary is the searchable projection of a card.
type CardSummary struct {
	PublicID string  `json:"public_id"`
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Bio      string  `json:"bio"`
	ImageURL *string `json:"image_url"`
}
