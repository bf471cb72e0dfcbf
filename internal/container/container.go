// Package container builds the application's object graph once, in main,
// and hands it to the router and commands explicitly.
package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/config"
	"github.com/oksasatya/go-ddd-users-api/internal/application"
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/service"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/messaging"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/token"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	JWT         *helpers.JWTManager
	Tokens      *token.Issuer
	Credentials helpers.CredentialPolicy
	UnitOfWork  repo.UnitOfWorkFactory
	Dispatcher  *messaging.Dispatcher
	UserIndex   application.UserIndex

	Users  *service.UserDomainService
	Auth   *application.AuthService
	People *application.UserService
	Access *application.AccessService

	closers []func(context.Context) error
}

// New wires storage, notification transport, search and services from cfg.
// Close must be called to release what New opened.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.build(ctx); err != nil {
		_ = c.Close(context.WithoutCancel(ctx))
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg := c.Config

	creds, err := helpers.NewCredentialPolicy(cfg.PasswordPolicy)
	if err != nil {
		return err
	}
	c.Credentials = creds
	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenLifetime())
	c.Tokens = token.NewIssuer(c.JWT)

	uow, err := c.openStorage(ctx)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	c.UnitOfWork = uow

	pub, err := c.openPublisher()
	if err != nil {
		return fmt.Errorf("notifications: %w", err)
	}
	c.Dispatcher = messaging.NewDispatcher(pub, cfg.NotifyQueueSize, cfg.NotifyPublishTimeout, c.Logger)
	// registered after the transport so it drains before the transport closes
	c.onClose(c.Dispatcher.Close)

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(ctx, addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			c.Logger.WithError(err).Warn("elasticsearch unavailable, search falls back to the store")
		} else {
			c.UserIndex = search.NewUserIndex(es, cfg.ESUsersIndex)
		}
	}

	c.Users = service.NewUserDomainService(c.UnitOfWork, c.Tokens, c.Dispatcher, c.Credentials, c.Logger)
	c.Auth = application.NewAuthService(c.Users, c.Logger)
	c.People = application.NewUserService(c.Users, c.UnitOfWork, c.UserIndex, c.Logger)
	c.Access = application.NewAccessService(c.UnitOfWork, c.Logger)
	return nil
}

func (c *Container) onClose(fn func(context.Context) error) {
	c.closers = append(c.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
