package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

// UnitOfWorkFactory opens one pgx transaction per unit of work.
type UnitOfWorkFactory struct {
	pool *pgxpool.Pool
}

func NewUnitOfWorkFactory(pool *pgxpool.Pool) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{pool: pool}
}

func (f *UnitOfWorkFactory) Begin(ctx context.Context) (repo.UnitOfWork, error) {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return newUnitOfWork(tx), nil
}

type unitOfWork struct {
	tx   pgx.Tx
	done bool

	users       *UserRepository
	roles       *RoleRepository
	modules     *ModuleRepository
	subModules  *SubModuleRepository
	permissions *PermissionRepository
}

func newUnitOfWork(tx pgx.Tx) *unitOfWork {
	return &unitOfWork{
		tx:          tx,
		users:       NewUserRepository(tx),
		roles:       NewRoleRepository(tx),
		modules:     NewModuleRepository(tx),
		subModules:  NewSubModuleRepository(tx),
		permissions: NewPermissionRepository(tx),
	}
}

func (u *unitOfWork) Modules() repo.ModuleRepository         { return u.modules }
func (u *unitOfWork) Permissions() repo.PermissionRepository { return u.permissions }
func (u *unitOfWork) Roles() repo.RoleRepository             { return u.roles }
func (u *unitOfWork) SubModules() repo.SubModuleRepository   { return u.subModules }
func (u *unitOfWork) Users() repo.UserRepository             { return u.users }

func (u *unitOfWork) SaveChanges(ctx context.Context) error {
	if u.done {
		return errors.New("postgres: unit of work already finished")
	}
	u.done = true
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", mapError(err))
	}
	return nil
}

// Close rolls back an uncommitted transaction and returns the connection.
func (u *unitOfWork) Close(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

var (
	_ repo.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
	_ repo.UnitOfWork        = (*unitOfWork)(nil)
)
