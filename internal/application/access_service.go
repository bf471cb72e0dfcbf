package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/domainerr"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

// Grant is the set of operations a permission allows.
type Grant struct {
	Create bool
	Read   bool
	Update bool
	Delete bool
}

// AccessService manages roles and the module/sub-module permission catalog.
type AccessService struct {
	uow    repo.UnitOfWorkFactory
	logger *logrus.Logger
	now    func() time.Time
}

func NewAccessService(uow repo.UnitOfWorkFactory, logger *logrus.Logger) *AccessService {
	return &AccessService{uow: uow, logger: logger, now: time.Now}
}

func (s *AccessService) CreateRole(ctx context.Context, name string) (*RoleView, error) {
	name = strings.TrimSpace(name)
	var role *entity.Role
	err := s.write(ctx, func(uow repo.UnitOfWork) error {
		if _, err := uow.Roles().Get(ctx, repo.Where{"name": name}); err == nil {
			return domainerr.Conflict("role", name)
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		now := s.now().UTC()
		role = &entity.Role{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
		if err := uow.Roles().Add(ctx, role); err != nil {
			return conflictOr(err, "role", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"role_id": role.ID, "name": name}).Info("role created")
	v := newRoleView(role)
	return &v, nil
}

func (s *AccessService) ListRoles(ctx context.Context) ([]RoleView, error) {
	var out []RoleView
	err := s.read(ctx, func(uow repo.UnitOfWork) error {
		roles, err := uow.Roles().GetAll(ctx)
		if err != nil {
			return err
		}
		out = make([]RoleView, 0, len(roles))
		for i := range roles {
			out = append(out, newRoleView(&roles[i]))
		}
		return nil
	})
	return out, err
}

func (s *AccessService) GetRole(ctx context.Context, id string) (*RoleView, error) {
	var v RoleView
	err := s.read(ctx, func(uow repo.UnitOfWork) error {
		r, err := uow.Roles().GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return domainerr.RoleNotFound(id)
		}
		if err != nil {
			return err
		}
		v = newRoleView(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// RolePermissions lists what roleID may do, joined with module names.
func (s *AccessService) RolePermissions(ctx context.Context, roleID string) ([]PermissionView, error) {
	var out []PermissionView
	err := s.read(ctx, func(uow repo.UnitOfWork) error {
		if _, err := uow.Roles().GetByID(ctx, roleID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domainerr.RoleNotFound(roleID)
			}
			return err
		}
		perms, err := uow.Permissions().ListByRoleID(ctx, roleID)
		if err != nil {
			return err
		}
		out = make([]PermissionView, 0, len(perms))
		for _, p := range perms {
			sub, err := uow.SubModules().GetByID(ctx, p.SubModuleID)
			if err != nil {
				return fmt.Errorf("sub-module %s: %w", p.SubModuleID, err)
			}
			mod, err := uow.Modules().GetByID(ctx, sub.ModuleID)
			if err != nil {
				return fmt.Errorf("module %s: %w", sub.ModuleID, err)
			}
			out = append(out, PermissionView{
				ID:            p.ID,
				ModuleID:      mod.ID,
				ModuleName:    mod.Name,
				SubModuleID:   sub.ID,
				SubModuleName: sub.Name,
				CanCreate:     p.CanCreate,
				CanRead:       p.CanRead,
				CanUpdate:     p.CanUpdate,
				CanDelete:     p.CanDelete,
			})
		}
		return nil
	})
	return out, err
}

// GrantCatalog creates the given modules and sub-modules and grants role
// every listed sub-module in one commit. Existing modules are reused.
func (s *AccessService) GrantCatalog(ctx context.Context, roleID string, catalog map[string][]string, g Grant) error {
	return s.write(ctx, func(uow repo.UnitOfWork) error {
		if _, err := uow.Roles().GetByID(ctx, roleID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domainerr.RoleNotFound(roleID)
			}
			return err
		}
		now := s.now().UTC()
		for moduleName, subs := range catalog {
			mod, err := uow.Modules().Get(ctx, repo.Where{"name": moduleName})
			if errors.Is(err, repo.ErrNotFound) {
				mod = &entity.Module{ID: uuid.NewString(), Name: moduleName, CreatedAt: now, UpdatedAt: now}
				err = uow.Modules().Add(ctx, mod)
			}
			if err != nil {
				return conflictOr(err, "module", moduleName)
			}

			existing, err := uow.SubModules().ListByModuleID(ctx, mod.ID)
			if err != nil {
				return err
			}
			for _, subName := range subs {
				sub := findSubModule(existing, subName)
				if sub == nil {
					sub = &entity.SubModule{ID: uuid.NewString(), ModuleID: mod.ID, Name: subName, CreatedAt: now, UpdatedAt: now}
					if err := uow.SubModules().Add(ctx, sub); err != nil {
						return conflictOr(err, "sub-module", subName)
					}
				}
				perm := &entity.Permission{
					ID:          uuid.NewString(),
					RoleID:      roleID,
					SubModuleID: sub.ID,
					CanCreate:   g.Create,
					CanRead:     g.Read,
					CanUpdate:   g.Update,
					CanDelete:   g.Delete,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if _, err := uow.Permissions().Get(ctx, repo.Where{"role_id": roleID, "sub_module_id": sub.ID}); err == nil {
					continue
				}
				if err := uow.Permissions().Add(ctx, perm); err != nil {
					return conflictOr(err, "permission", subName)
				}
			}
		}
		return nil
	})
}

func findSubModule(subs []entity.SubModule, name string) *entity.SubModule {
	for i := range subs {
		if subs[i].Name == name {
			return &subs[i]
		}
	}
	return nil
}

func conflictOr(err error, what, name string) error {
	if errors.Is(err, repo.ErrDuplicate) {
		return domainerr.Conflict(what, name)
	}
	return err
}

func (s *AccessService) read(ctx context.Context, fn func(repo.UnitOfWork) error) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return domainerr.Internal(err)
	}
	defer func() { _ = uow.Close(context.WithoutCancel(ctx)) }()
	return domainerr.Internal(fn(uow))
}

func (s *AccessService) write(ctx context.Context, fn func(repo.UnitOfWork) error) error {
	return s.read(ctx, func(uow repo.UnitOfWork) error {
		if err := fn(uow); err != nil {
			return err
		}
		return conflictOr(uow.SaveChanges(ctx), "entry", "")
	})
}
