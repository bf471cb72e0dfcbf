package postgres

import (
	"context"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

type UserRepository struct {
	*table[entity.User]
}

func NewUserRepository(q querier) *UserRepository {
	return &UserRepository{table: &table[entity.User]{
		q:       q,
		name:    "users",
		columns: []string{"id", "email", "password", "first_name", "last_name", "active", "email_confirmed", "role_id", "created_at", "updated_at"},
		scan: func(row scanner) (entity.User, error) {
			var u entity.User
			err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
				&u.Active, &u.EmailConfirmed, &u.RoleID, &u.CreatedAt, &u.UpdatedAt)
			return u, err
		},
		values: func(u *entity.User) []any {
			return []any{u.ID, u.Email, u.Password, u.FirstName, u.LastName,
				u.Active, u.EmailConfirmed, u.RoleID, u.CreatedAt, u.UpdatedAt}
		},
	}}
}

func (r *UserRepository) GetByRoleID(ctx context.Context, roleID string) (*entity.User, error) {
	return r.Get(ctx, repo.Where{"role_id": roleID})
}

type RoleRepository struct {
	*table[entity.Role]
}

func NewRoleRepository(q querier) *RoleRepository {
	return &RoleRepository{table: &table[entity.Role]{
		q:       q,
		name:    "roles",
		columns: []string{"id", "name", "created_at", "updated_at"},
		scan: func(row scanner) (entity.Role, error) {
			var r entity.Role
			err := row.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
			return r, err
		},
		values: func(r *entity.Role) []any {
			return []any{r.ID, r.Name, r.CreatedAt, r.UpdatedAt}
		},
	}}
}

var (
	_ repo.UserRepository = (*UserRepository)(nil)
	_ repo.RoleRepository = (*RoleRepository)(nil)
)
