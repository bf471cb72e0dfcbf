package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/config"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-users-api/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := mailer.NewWorker(cfg, mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), logger)

	var err error
	switch cfg.NotifyTransport {
	case "rabbitmq":
		err = consumeRabbit(ctx, cfg, w, logger)
	case "redis":
		err = consumeRedis(ctx, cfg, w, logger)
	default:
		logger.Fatalf("unknown notify transport %q", cfg.NotifyTransport)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("email worker stopped")
	}
	logger.Info("email worker exited")
}

// Failed jobs are dropped rather than requeued: account notices are at most once.
func consumeRabbit(ctx context.Context, cfg *config.Config, w *mailer.Worker, logger *logrus.Logger) error {
	q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		return err
	}
	defer q.Close()

	msgs, err := q.Consume(16)
	if err != nil {
		return err
	}
	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := w.Handle(ctx, msg.Body); err != nil {
				helpers.LogError(logger, "email job failed", err, logrus.Fields{"message_id": msg.MessageId})
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

func consumeRedis(ctx context.Context, cfg *config.Config, w *mailer.Worker, logger *logrus.Logger) error {
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	q := helpers.NewRedisQueue(rdb, cfg.RedisEmailQueue)
	logger.Infof("email worker listening on redis list=%s", cfg.RedisEmailQueue)

	for {
		body, err := q.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			helpers.LogError(logger, "redis pop failed", err, nil)
			time.Sleep(time.Second)
			continue
		}
		if body == nil {
			continue
		}
		if err := w.Handle(ctx, body); err != nil {
			helpers.LogError(logger, "email job failed", err, logrus.Fields{"queue": q.Key})
		}
	}
}
