package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/config"
	"github.com/oksasatya/go-ddd-users-api/internal/application"
	"github.com/oksasatya/go-ddd-users-api/internal/container"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/domainerr"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
)

const (
	adminRole     = "admin"
	adminEmail    = "admin@example.com"
	adminPassword = "@Admin123"
)

// catalog is the module/sub-module tree granted to the admin role.
var catalog = map[string][]string{
	"users": {"accounts", "activation"},
	"roles": {"roles", "permissions"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	// no welcome mail for seeded accounts
	cfg.MailSendEnabled = false

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build application")
	}
	defer func() { _ = c.Close(ctx) }()

	role, err := ensureRole(ctx, c.Access, adminRole)
	if err != nil {
		logger.WithError(err).Fatal("failed to ensure admin role")
	}
	if err := c.Access.GrantCatalog(ctx, role.ID, catalog, application.Grant{Create: true, Read: true, Update: true, Delete: true}); err != nil {
		logger.WithError(err).Fatal("failed to grant admin permissions")
	}

	u, err := c.People.Create(ctx, application.CreateUserInput{
		Email:     adminEmail,
		Password:  adminPassword,
		FirstName: "Admin",
		RoleID:    role.ID,
	})
	switch {
	case errors.Is(err, domainerr.ErrEmailAlreadyExists):
		logger.WithField("email", adminEmail).Info("admin user already seeded")
	case err != nil:
		logger.WithError(err).Fatal("failed to seed admin user")
	default:
		logger.WithFields(logrus.Fields{"id": u.ID, "email": u.Email, "role": role.Name}).Info("seeded admin user")
	}
}

func ensureRole(ctx context.Context, access *application.AccessService, name string) (*application.RoleView, error) {
	role, err := access.CreateRole(ctx, name)
	if err == nil || !errors.Is(err, domainerr.ErrConflict) {
		return role, err
	}
	roles, err := access.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		if roles[i].Name == name {
			return &roles[i], nil
		}
	}
	return nil, domainerr.ErrRoleNotFound
}
