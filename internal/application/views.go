package application

import (
	"time"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
)

// UserView is the outward representation of a user. It never carries the
// stored credential.
type UserView struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Active         bool      `json:"active"`
	EmailConfirmed bool      `json:"emailConfirmed"`
	RoleID         string    `json:"roleId"`
	RoleName       string    `json:"roleName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newUserView(u *entity.User, roleName string) UserView {
	return UserView{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Active:         u.Active,
		EmailConfirmed: u.EmailConfirmed,
		RoleID:         u.RoleID,
		RoleName:       roleName,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type IdentityView struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	SignedAt  time.Time `json:"signedAt"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string       `json:"accessToken"`
	Expiration  time.Time    `json:"expiration"`
	User        IdentityView `json:"user"`
}

type RoleView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newRoleView(r *entity.Role) RoleView {
	return RoleView{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// PermissionView is a permission joined with its sub-module and module.
type PermissionView struct {
	ID            string `json:"id"`
	ModuleID      string `json:"moduleId"`
	ModuleName    string `json:"moduleName"`
	SubModuleID   string `json:"subModuleId"`
	SubModuleName string `json:"subModuleName"`
	CanCreate     bool   `json:"canCreate"`
	CanRead       bool   `json:"canRead"`
	CanUpdate     bool   `json:"canUpdate"`
	CanDelete     bool   `json:"canDelete"`
}
