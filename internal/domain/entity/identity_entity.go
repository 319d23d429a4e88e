package entity

// Identity holds the claims of a verified Google ID token.
type Identity struct {
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}
