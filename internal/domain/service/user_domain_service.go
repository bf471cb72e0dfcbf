package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/domainerr"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

// UserDomainService is the only place where User aggregate invariants are
// enforced. Each write runs inside its own unit of work.
type UserDomainService struct {
	uow         repo.UnitOfWorkFactory
	tokens      TokenIssuer
	notifier    NotificationDispatcher
	credentials CredentialPolicy
	logger      *logrus.Logger
	now         func() time.Time
}

func NewUserDomainService(uow repo.UnitOfWorkFactory, tokens TokenIssuer, notifier NotificationDispatcher, credentials CredentialPolicy, logger *logrus.Logger) *UserDomainService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserDomainService{
		uow:         uow,
		tokens:      tokens,
		notifier:    notifier,
		credentials: credentials,
		logger:      logger,
		now:         time.Now,
	}
}

// Add creates u after checking that its email is free and its role exists.
// u is only updated (id, stored credential, timestamps) once the commit succeeds.
// The creation notice is dispatched after the commit and cannot fail the call.
func (s *UserDomainService) Add(ctx context.Context, u *entity.User) error {
	rec := *u
	err := s.withUnitOfWork(ctx, func(uow repo.UnitOfWork) error {
		if _, err := uow.Users().Get(ctx, repo.Where{"email": rec.Email}); err == nil {
			return domainerr.EmailAlreadyExists(rec.Email)
		} else if !errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("lookup user by email: %w", err)
		}

		if err := s.requireRole(ctx, uow, rec.RoleID); err != nil {
			return err
		}

		stored, err := s.credentials.Protect(rec.Password)
		if err != nil {
			return fmt.Errorf("protect credential: %w", err)
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		now := s.now().UTC()
		rec.Password = stored
		rec.CreatedAt = now
		rec.UpdatedAt = now

		if err := uow.Users().Add(ctx, &rec); err != nil {
			return s.translateWrite(&rec, err)
		}
		if err := uow.SaveChanges(ctx); err != nil {
			return s.translateWrite(&rec, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	*u = rec

	s.logger.WithField("user_id", u.ID).Info("user created")
	if s.notifier != nil {
		s.notifier.Send(entity.NewCreationNotice(u))
	}
	return nil
}

// Update persists u after checking that its role exists.
func (s *UserDomainService) Update(ctx context.Context, u *entity.User) error {
	return s.withUnitOfWork(ctx, func(uow repo.UnitOfWork) error {
		if err := s.requireRole(ctx, uow, u.RoleID); err != nil {
			return err
		}
		u.UpdatedAt = s.now().UTC()
		if err := uow.Users().Update(ctx, u); err != nil {
			return s.translateWrite(u, err)
		}
		if err := uow.SaveChanges(ctx); err != nil {
			return s.translateWrite(u, err)
		}
		return nil
	})
}

func (s *UserDomainService) Delete(ctx context.Context, u *entity.User) error {
	return s.withUnitOfWork(ctx, func(uow repo.UnitOfWork) error {
		if err := uow.Users().Delete(ctx, u); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domainerr.UserNotFound(u.ID)
			}
			return fmt.Errorf("delete user: %w", err)
		}
		return uow.SaveChanges(ctx)
	})
}

// Activate sets Active and EmailConfirmed on the user with the given id.
func (s *UserDomainService) Activate(ctx context.Context, id string) (*entity.User, error) {
	u, found, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerr.UserNotFound(id)
	}
	u.Activate()
	if err := s.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserDomainService) GetAll(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := s.withUnitOfWork(ctx, func(uow repo.UnitOfWork) error {
		var err error
		users, err = uow.Users().GetAll(ctx)
		return err
	})
	return users, err
}

func (s *UserDomainService) Get(ctx context.Context, id string) (*entity.User, bool, error) {
	return s.find(ctx, func(uow repo.UnitOfWork) (*entity.User, error) {
		return uow.Users().GetByID(ctx, id)
	})
}

func (s *UserDomainService) GetByEmail(ctx context.Context, email string) (*entity.User, bool, error) {
	return s.find(ctx, func(uow repo.UnitOfWork) (*entity.User, error) {
		return uow.Users().Get(ctx, repo.Where{"email": email})
	})
}

// GetByCredentials returns the user whose email and stored credential both
// match. The comparison goes through the credential policy.
func (s *UserDomainService) GetByCredentials(ctx context.Context, email, password string) (*entity.User, bool, error) {
	u, found, err := s.GetByEmail(ctx, email)
	if err != nil || !found {
		return nil, false, err
	}
	if !s.credentials.Matches(u.Password, password) {
		return nil, false, nil
	}
	return u, true, nil
}

func (s *UserDomainService) GetByRoleID(ctx context.Context, roleID string) (*entity.User, bool, error) {
	return s.find(ctx, func(uow repo.UnitOfWork) (*entity.User, error) {
		return uow.Users().GetByRoleID(ctx, roleID)
	})
}

// Authenticate verifies the credentials and returns a signed identity.
// Unknown email, wrong password and a dangling role all yield the same fault.
func (s *UserDomainService) Authenticate(ctx context.Context, email, password string) (entity.AuthenticatedIdentity, error) {
	u, found, err := s.GetByCredentials(ctx, email, password)
	if err != nil {
		return entity.AuthenticatedIdentity{}, err
	}
	if !found {
		return entity.AuthenticatedIdentity{}, domainerr.AccessDenied()
	}

	var role *entity.Role
	err = s.withUnitOfWork(ctx, func(uow repo.UnitOfWork) error {
		var err error
		role, err = uow.Roles().GetByID(ctx, u.RoleID)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		s.logger.WithField("user_id", u.ID).Warn("authenticated user has no resolvable role")
		return entity.AuthenticatedIdentity{}, domainerr.AccessDenied()
	}
	if err != nil {
		return entity.AuthenticatedIdentity{}, fmt.Errorf("lookup role: %w", err)
	}

	identity := entity.NewAuthenticatedIdentity(u, role, s.now())
	return s.tokens.CreateToken(identity)
}

func (s *UserDomainService) requireRole(ctx context.Context, uow repo.UnitOfWork, roleID string) error {
	if roleID == "" {
		return domainerr.RoleNotFound(roleID)
	}
	if _, err := uow.Roles().GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domainerr.RoleNotFound(roleID)
		}
		return fmt.Errorf("lookup role: %w", err)
	}
	return nil
}

// translateWrite maps store constraint violations that slipped past the
// pre-checks onto domain faults.
func (s *UserDomainService) translateWrite(u *entity.User, err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return domainerr.EmailAlreadyExists(u.Email)
	case errors.Is(err, repo.ErrReference):
		return domainerr.RoleNotFound(u.RoleID)
	case errors.Is(err, repo.ErrNotFound):
		return domainerr.UserNotFound(u.ID)
	default:
		return fmt.Errorf("persist user: %w", err)
	}
}

func (s *UserDomainService) find(ctx context.Context, get func(repo.UnitOfWork) (*entity.User, error)) (*entity.User, bool, error) {
	var u *entity.User
	err := s.withUnitOfWork(ctx, func(uow repo.UnitOfWork) error {
		var err error
		u, err = get(uow)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *UserDomainService) withUnitOfWork(ctx context.Context, fn func(repo.UnitOfWork) error) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() {
		if cerr := uow.Close(context.WithoutCancel(ctx)); cerr != nil {
			s.logger.WithError(cerr).Warn("release unit of work failed")
		}
	}()
	return fn(uow)
}
