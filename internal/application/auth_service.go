package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/domainerr"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/service"
)

// AuthService orchestrates login and activation on top of the user domain
// service. Every error it returns is a *domainerr.Error.
type AuthService struct {
	users  *service.UserDomainService
	logger *logrus.Logger
}

func NewAuthService(users *service.UserDomainService, logger *logrus.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	id, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		if domainerr.KindOf(err) != domainerr.KindAccessDenied {
			s.logger.WithError(err).Error("authenticate failed")
		}
		return nil, domainerr.Internal(err)
	}
	return &LoginResult{
		AccessToken: id.AccessToken,
		Expiration:  id.Expiration,
		User: IdentityView{
			ID:        id.ID,
			FirstName: id.FirstName,
			LastName:  id.LastName,
			Email:     id.Email,
			Role:      id.Role,
			SignedAt:  id.SignedAt,
		},
	}, nil
}

// ActivateUser activates the user named by pathID, or by bodyID when the
// path carries none.
func (s *AuthService) ActivateUser(ctx context.Context, pathID, bodyID string) (*UserView, error) {
	id := pathID
	if id == "" {
		id = bodyID
	}
	if id == "" {
		return nil, domainerr.MissingIdentifier()
	}

	u, err := s.users.Activate(ctx, id)
	if err != nil {
		return nil, domainerr.Internal(err)
	}
	s.logger.WithField("user_id", u.ID).Info("user activated")
	v := newUserView(u, "")
	return &v, nil
}
