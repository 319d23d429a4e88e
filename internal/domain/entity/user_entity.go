package entity

import (
	"time"
)

// User is the account created on first Google sign-in.
// ProviderID holds the identity provider subject ("sub").
type User struct {
	ID         string
	Email      string
	Name       string
	Picture    string
	ProviderID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
