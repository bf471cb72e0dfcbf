package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	Repository[entity.User]
	GetByRoleID(ctx context.Context, roleID string) (*entity.User, error)
}

type RoleRepository interface {
	Repository[entity.Role]
}
