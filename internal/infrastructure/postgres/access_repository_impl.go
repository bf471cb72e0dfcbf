package postgres

import (
	"context"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

type ModuleRepository struct {
	*table[entity.Module]
}

func NewModuleRepository(q querier) *ModuleRepository {
	return &ModuleRepository{table: &table[entity.Module]{
		q:       q,
		name:    "modules",
		columns: []string{"id", "name", "created_at", "updated_at"},
		scan: func(row scanner) (entity.Module, error) {
			var m entity.Module
			err := row.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
			return m, err
		},
		values: func(m *entity.Module) []any {
			return []any{m.ID, m.Name, m.CreatedAt, m.UpdatedAt}
		},
	}}
}

type SubModuleRepository struct {
	*table[entity.SubModule]
}

func NewSubModuleRepository(q querier) *SubModuleRepository {
	return &SubModuleRepository{table: &table[entity.SubModule]{
		q:       q,
		name:    "sub_modules",
		columns: []string{"id", "module_id", "name", "created_at", "updated_at"},
		scan: func(row scanner) (entity.SubModule, error) {
			var s entity.SubModule
			err := row.Scan(&s.ID, &s.ModuleID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
			return s, err
		},
		values: func(s *entity.SubModule) []any {
			return []any{s.ID, s.ModuleID, s.Name, s.CreatedAt, s.UpdatedAt}
		},
	}}
}

func (r *SubModuleRepository) ListByModuleID(ctx context.Context, moduleID string) ([]entity.SubModule, error) {
	return r.list(ctx, repo.Where{"module_id": moduleID})
}

type PermissionRepository struct {
	*table[entity.Permission]
}

func NewPermissionRepository(q querier) *PermissionRepository {
	return &PermissionRepository{table: &table[entity.Permission]{
		q:       q,
		name:    "permissions",
		columns: []string{"id", "role_id", "sub_module_id", "can_create", "can_read", "can_update", "can_delete", "created_at", "updated_at"},
		scan: func(row scanner) (entity.Permission, error) {
			var p entity.Permission
			err := row.Scan(&p.ID, &p.RoleID, &p.SubModuleID, &p.CanCreate, &p.CanRead,
				&p.CanUpdate, &p.CanDelete, &p.CreatedAt, &p.UpdatedAt)
			return p, err
		},
		values: func(p *entity.Permission) []any {
			return []any{p.ID, p.RoleID, p.SubModuleID, p.CanCreate, p.CanRead,
				p.CanUpdate, p.CanDelete, p.CreatedAt, p.UpdatedAt}
		},
	}}
}

func (r *PermissionRepository) ListByRoleID(ctx context.Context, roleID string) ([]entity.Permission, error) {
	return r.list(ctx, repo.Where{"role_id": roleID})
}

var (
	_ repo.ModuleRepository     = (*ModuleRepository)(nil)
	_ repo.SubModuleRepository  = (*SubModuleRepository)(nil)
	_ repo.PermissionRepository = (*PermissionRepository)(nil)
)
