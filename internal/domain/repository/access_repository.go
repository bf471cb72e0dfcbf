package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
)

type ModuleRepository interface {
	Repository[entity.Module]
}

type SubModuleRepository interface {
	Repository[entity.SubModule]
	ListByModuleID(ctx context.Context, moduleID string) ([]entity.SubModule, error)
}

type PermissionRepository interface {
	Repository[entity.Permission]
	ListByRoleID(ctx context.Context, roleID string) ([]entity.Permission, error)
}
