package entity

import "time"

// AuthenticatedIdentity is the outcome of a successful authentication.
// It is built per request and never persisted.
type AuthenticatedIdentity struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Role        string
	SignedAt    time.Time
	AccessToken string
	Expiration  time.Time
}

// NewAuthenticatedIdentity builds an unsigned identity from a user and its role.
func NewAuthenticatedIdentity(u *User, r *Role, signedAt time.Time) AuthenticatedIdentity {
	return AuthenticatedIdentity{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      r.Name,
		SignedAt:  signedAt,
	}
}
