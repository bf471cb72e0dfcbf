package container

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-users-api/config"
	"github.com/oksasatya/go-ddd-users-api/internal/application"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/memory"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StorageDriver:        "memory",
		PasswordPolicy:       "plain",
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		JWTIssuer:            "users-api",
		JWTAudience:          "users-api-clients",
		JWTExpirationMinutes: 60,
		NotifyQueueSize:      8,
		NotifyPublishTimeout: time.Second,
		MailSendEnabled:      false,
	}
}

func TestNewWiresMemoryStack(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	c, err := New(ctx, memoryConfig(), logger)
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close(ctx)) }()

	assert.IsType(t, &memory.Store{}, c.UnitOfWork)
	assert.Nil(t, c.UserIndex)

	role, err := c.Access.CreateRole(ctx, "admin")
	require.NoError(t, err)
	_, err = c.People.Create(ctx, application.CreateUserInput{Email: "a@example.com", Password: "@Admin123", FirstName: "A", RoleID: role.ID})
	require.NoError(t, err)

	res, err := c.Auth.Login(ctx, "a@example.com", "@Admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	logger, _ := test.NewNullLogger()

	cfg := memoryConfig()
	cfg.StorageDriver = "sqlite"
	_, err := New(context.Background(), cfg, logger)
	assert.Error(t, err)

	cfg = memoryConfig()
	cfg.PasswordPolicy = "rot13"
	_, err = New(context.Background(), cfg, logger)
	assert.Error(t, err)

	cfg = memoryConfig()
	cfg.MailSendEnabled = true
	cfg.NotifyTransport = "carrier-pigeon"
	_, err = New(context.Background(), cfg, logger)
	assert.Error(t, err)
}
