package entity

import "time"

// Module groups sub-modules of the administrative platform.
type Module struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubModule belongs to exactly one Module.
type SubModule struct {
	ID        string
	ModuleID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Permission grants a role a set of operations on a sub-module.
type Permission struct {
	ID          string
	RoleID      string
	SubModuleID string
	CanCreate   bool
	CanRead     bool
	CanUpdate   bool
	CanDelete   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
