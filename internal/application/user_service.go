package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/domainerr"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/service"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/search"
)

// UserIndex is the search projection kept next to the primary store.
type UserIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]search.UserDocument, error)
}

type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	RoleID    string
}

type UpdateUserInput struct {
	FirstName string
	LastName  string
	RoleID    string
	Active    *bool // nil keeps the current state
}

type UserService struct {
	users  *service.UserDomainService
	uow    repo.UnitOfWorkFactory
	index  UserIndex
	logger *logrus.Logger
}

// NewUserService wires the user use cases. index may be nil, in which case
// search falls back to scanning the store.
func NewUserService(users *service.UserDomainService, uow repo.UnitOfWorkFactory, index UserIndex, logger *logrus.Logger) *UserService {
	return &UserService{users: users, uow: uow, index: index, logger: logger}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserView, error) {
	u := &entity.User{
		Email:     strings.TrimSpace(in.Email),
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		RoleID:    in.RoleID,
		Active:    true,
	}
	if err := s.users.Add(ctx, u); err != nil {
		return nil, domainerr.Internal(err)
	}
	s.reindex(ctx, u)
	return s.view(ctx, u)
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*UserView, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.RoleID = in.RoleID
	if in.Active != nil {
		u.Active = *in.Active
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, domainerr.Internal(err)
	}
	s.reindex(ctx, u)
	return s.view(ctx, u)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u); err != nil {
		return domainerr.Internal(err)
	}
	if s.index != nil {
		if err := s.index.Remove(ctx, id); err != nil {
			s.logger.WithError(err).WithField("user_id", id).Warn("es remove failed")
		}
	}
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (*UserView, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, u)
}

func (s *UserService) List(ctx context.Context) ([]UserView, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, domainerr.Internal(err)
	}
	names, err := s.roleNames(ctx)
	if err != nil {
		return nil, domainerr.Internal(err)
	}
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, newUserView(&users[i], names[users[i].RoleID]))
	}
	return out, nil
}

// Search queries the search projection, or matches email and names in the
// store when no projection is configured.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]UserView, error) {
	if s.index == nil {
		return s.scan(ctx, q, size)
	}
	docs, err := s.index.Search(ctx, q, size)
	if err != nil {
		return nil, domainerr.Internal(err)
	}
	out := make([]UserView, 0, len(docs))
	for _, d := range docs {
		out = append(out, UserView{
			ID:        d.ID,
			Email:     d.Email,
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Active:    d.Active,
			RoleID:    d.RoleID,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return out, nil
}

func (s *UserService) scan(ctx context.Context, q string, size int) ([]UserView, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := []UserView{}
	for _, v := range all {
		if len(out) == size {
			break
		}
		hay := strings.ToLower(v.Email + " " + v.FirstName + " " + v.LastName)
		if strings.Contains(hay, needle) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *UserService) load(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, domainerr.MissingIdentifier()
	}
	u, found, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, domainerr.Internal(err)
	}
	if !found {
		return nil, domainerr.UserNotFound(id)
	}
	return u, nil
}

func (s *UserService) view(ctx context.Context, u *entity.User) (*UserView, error) {
	name, err := s.roleName(ctx, u.RoleID)
	if err != nil {
		return nil, domainerr.Internal(err)
	}
	v := newUserView(u, name)
	return &v, nil
}

func (s *UserService) reindex(ctx context.Context, u *entity.User) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, u); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

func (s *UserService) roleName(ctx context.Context, roleID string) (string, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = uow.Close(context.WithoutCancel(ctx)) }()

	r, err := uow.Roles().GetByID(ctx, roleID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return r.Name, nil
}

func (s *UserService) roleNames(ctx context.Context) (map[string]string, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Close(context.WithoutCancel(ctx)) }()

	roles, err := uow.Roles().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	return names, nil
}
