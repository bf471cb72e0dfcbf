package memory

import (
	"context"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

var userSchema = schema[entity.User]{
	name:    "users",
	id:      func(u entity.User) string { return u.ID },
	created: func(u entity.User) int64 { return u.CreatedAt.UnixNano() },
	field: func(u entity.User, col string) (any, bool) {
		switch col {
		case "id":
			return u.ID, true
		case "email":
			return u.Email, true
		case "password":
			return u.Password, true
		case "first_name":
			return u.FirstName, true
		case "last_name":
			return u.LastName, true
		case "active":
			return u.Active, true
		case "email_confirmed":
			return u.EmailConfirmed, true
		case "role_id":
			return u.RoleID, true
		}
		return nil, false
	},
}

var roleSchema = schema[entity.Role]{
	name:    "roles",
	id:      func(r entity.Role) string { return r.ID },
	created: func(r entity.Role) int64 { return r.CreatedAt.UnixNano() },
	field: func(r entity.Role, col string) (any, bool) {
		switch col {
		case "id":
			return r.ID, true
		case "name":
			return r.Name, true
		}
		return nil, false
	},
}

var moduleSchema = schema[entity.Module]{
	name:    "modules",
	id:      func(m entity.Module) string { return m.ID },
	created: func(m entity.Module) int64 { return m.CreatedAt.UnixNano() },
	field: func(m entity.Module, col string) (any, bool) {
		switch col {
		case "id":
			return m.ID, true
		case "name":
			return m.Name, true
		}
		return nil, false
	},
}

var subModuleSchema = schema[entity.SubModule]{
	name:    "sub_modules",
	id:      func(s entity.SubModule) string { return s.ID },
	created: func(s entity.SubModule) int64 { return s.CreatedAt.UnixNano() },
	field: func(s entity.SubModule, col string) (any, bool) {
		switch col {
		case "id":
			return s.ID, true
		case "module_id":
			return s.ModuleID, true
		case "name":
			return s.Name, true
		}
		return nil, false
	},
}

var permissionSchema = schema[entity.Permission]{
	name:    "permissions",
	id:      func(p entity.Permission) string { return p.ID },
	created: func(p entity.Permission) int64 { return p.CreatedAt.UnixNano() },
	field: func(p entity.Permission, col string) (any, bool) {
		switch col {
		case "id":
			return p.ID, true
		case "role_id":
			return p.RoleID, true
		case "sub_module_id":
			return p.SubModuleID, true
		}
		return nil, false
	},
}

type userRepository struct{ *table[entity.User] }

func (r *userRepository) GetByRoleID(ctx context.Context, roleID string) (*entity.User, error) {
	return r.Get(ctx, repo.Where{"role_id": roleID})
}

type roleRepository struct{ *table[entity.Role] }

type moduleRepository struct{ *table[entity.Module] }

type subModuleRepository struct{ *table[entity.SubModule] }

func (r *subModuleRepository) ListByModuleID(ctx context.Context, moduleID string) ([]entity.SubModule, error) {
	return r.filter(ctx, repo.Where{"module_id": moduleID})
}

type permissionRepository struct{ *table[entity.Permission] }

func (r *permissionRepository) ListByRoleID(ctx context.Context, roleID string) ([]entity.Permission, error) {
	return r.filter(ctx, repo.Where{"role_id": roleID})
}

var (
	_ repo.UserRepository       = (*userRepository)(nil)
	_ repo.RoleRepository       = (*roleRepository)(nil)
	_ repo.ModuleRepository     = (*moduleRepository)(nil)
	_ repo.SubModuleRepository  = (*subModuleRepository)(nil)
	_ repo.PermissionRepository = (*permissionRepository)(nil)
)
