package entity

import "time"

// Role represents an authorization role.
// Users reference a role by ID; the name is what ends up in the token.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
