package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Email is unique across users and RoleID must always resolve to a Role.
// Password holds the stored credential as produced by the active credential policy.
type User struct {
	ID             string
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Active         bool
	EmailConfirmed bool
	RoleID         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Activate marks the user as active with a confirmed email.
func (u *User) Activate() {
	u.Active = true
	u.EmailConfirmed = true
}
