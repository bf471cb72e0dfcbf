package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

// Store is an in-memory adapter implementing the unit of work contract.
// It is intended for tests and local development wiring.
//
// Each unit of work reads a snapshot taken at Begin and stages its writes.
// SaveChanges re-checks the unique email and foreign key constraints against
// the live data under the write lock and applies all staged writes or none.
type Store struct {
	mu sync.RWMutex

	users       map[string]entity.User
	roles       map[string]entity.Role
	modules     map[string]entity.Module
	subModules  map[string]entity.SubModule
	permissions map[string]entity.Permission
}

func NewStore() *Store {
	return &Store{
		users:       map[string]entity.User{},
		roles:       map[string]entity.Role{},
		modules:     map[string]entity.Module{},
		subModules:  map[string]entity.SubModule{},
		permissions: map[string]entity.Permission{},
	}
}

var _ repo.UnitOfWorkFactory = (*Store)(nil)

func (s *Store) Begin(ctx context.Context) (repo.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &unitOfWork{
		store:       s,
		users:       &userRepository{table: newTable(userSchema, s.users)},
		roles:       &roleRepository{table: newTable(roleSchema, s.roles)},
		modules:     &moduleRepository{table: newTable(moduleSchema, s.modules)},
		subModules:  &subModuleRepository{table: newTable(subModuleSchema, s.subModules)},
		permissions: &permissionRepository{table: newTable(permissionSchema, s.permissions)},
	}, nil
}

type unitOfWork struct {
	store  *Store
	closed bool

	users       *userRepository
	roles       *roleRepository
	modules     *moduleRepository
	subModules  *subModuleRepository
	permissions *permissionRepository
}

var _ repo.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Modules() repo.ModuleRepository         { return u.modules }
func (u *unitOfWork) Permissions() repo.PermissionRepository { return u.permissions }
func (u *unitOfWork) Roles() repo.RoleRepository             { return u.roles }
func (u *unitOfWork) SubModules() repo.SubModuleRepository   { return u.subModules }
func (u *unitOfWork) Users() repo.UserRepository             { return u.users }

func (u *unitOfWork) SaveChanges(ctx context.Context) error {
	if u.closed {
		return fmt.Errorf("memory: unit of work already closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	users := u.users.merged(s.users)
	roles := u.roles.merged(s.roles)
	modules := u.modules.merged(s.modules)
	subModules := u.subModules.merged(s.subModules)
	permissions := u.permissions.merged(s.permissions)

	if err := checkUsers(users, roles); err != nil {
		return err
	}
	for _, sm := range subModules {
		if _, ok := modules[sm.ModuleID]; !ok {
			return fmt.Errorf("sub_module %s -> module %s: %w", sm.ID, sm.ModuleID, repo.ErrReference)
		}
	}
	for _, p := range permissions {
		if _, ok := roles[p.RoleID]; !ok {
			return fmt.Errorf("permission %s -> role %s: %w", p.ID, p.RoleID, repo.ErrReference)
		}
		if _, ok := subModules[p.SubModuleID]; !ok {
			return fmt.Errorf("permission %s -> sub_module %s: %w", p.ID, p.SubModuleID, repo.ErrReference)
		}
	}

	s.users, s.roles, s.modules, s.subModules, s.permissions = users, roles, modules, subModules, permissions
	u.reset()
	return nil
}

// Close discards staged changes. It is safe to call more than once.
func (u *unitOfWork) Close(context.Context) error {
	u.closed = true
	u.reset()
	return nil
}

func (u *unitOfWork) reset() {
	u.users.changed = map[string]bool{}
	u.roles.changed = map[string]bool{}
	u.modules.changed = map[string]bool{}
	u.subModules.changed = map[string]bool{}
	u.permissions.changed = map[string]bool{}
}

func checkUsers(users map[string]entity.User, roles map[string]entity.Role) error {
	emails := make(map[string]string, len(users))
	for id, usr := range users {
		if other, ok := emails[usr.Email]; ok {
			return fmt.Errorf("users %s and %s share email: %w", other, id, repo.ErrDuplicate)
		}
		emails[usr.Email] = id
		if _, ok := roles[usr.RoleID]; !ok {
			return fmt.Errorf("user %s -> role %s: %w", id, usr.RoleID, repo.ErrReference)
		}
	}
	return nil
}
