package container

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/messaging"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
)

// openPublisher picks the transport creation notices are published on.
func (c *Container) openPublisher() (messaging.Publisher, error) {
	cfg := c.Config
	if !cfg.MailSendEnabled {
		c.Logger.Info("MAIL_SEND_ENABLED=false; creation notices are only logged")
		return messaging.LogPublisher{Logger: c.Logger}, nil
	}

	switch cfg.NotifyTransport {
	case "rabbitmq", "":
		q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		c.onClose(func(context.Context) error { q.Close(); return nil })
		return q, nil
	case "redis":
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		c.onClose(func(context.Context) error { return rdb.Close() })
		return helpers.NewRedisQueue(rdb, cfg.RedisEmailQueue), nil
	default:
		return nil, fmt.Errorf("unknown notify transport %q", cfg.NotifyTransport)
	}
}
