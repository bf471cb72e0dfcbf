package repository

import "context"

// UnitOfWork bundles the repository set behind one atomic commit.
//
// Mutations made through the accessors become visible to other units only
// after SaveChanges succeeds. Close must be called on every path; it rolls
// back anything not committed and releases the underlying resource.
type UnitOfWork interface {
	Modules() ModuleRepository
	Permissions() PermissionRepository
	Roles() RoleRepository
	SubModules() SubModuleRepository
	Users() UserRepository

	SaveChanges(ctx context.Context) error
	Close(ctx context.Context) error
}

// UnitOfWorkFactory opens one unit of work per logical operation.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
