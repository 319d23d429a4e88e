package handlers

import (
	"time"

	"github.com/oksasatya/holocard-api/internal/domain/entity"
)

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
}

type cardDTO struct {
	ID        string              `json:"id"`
	PublicID  string              `json:"public_id"`
	ImageURL  *string             `json:"image_url"`
	Metadata  entity.CardMetadata `json:"metadata"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type profileDTO struct {
	userDTO
	Card *cardDTO `json:"card"`
}

func toUserDTO(u *entity.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Name: u.Name, Picture: u.Picture, CreatedAt: u.CreatedAt}
}

func toCardDTO(c *entity.Card) *cardDTO {
	if c == nil {
		return nil
	}
	return &cardDTO{
		ID:        c.ID,
		PublicID:  c.PublicID,
		ImageURL:  c.ImageURL,
		Metadata:  c.Metadata.Normalized(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toProfileDTO(u *entity.User, c *entity.Card) profileDTO {
	return profileDTO{userDTO: toUserDTO(u), Card: toCardDTO(c)}
}
