package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/mailer"
)

// mailworker drains the outbound mail queue and delivers each message
// through MAIL_DELIVERY (smtp, sendgrid or log).
func main() {
	cfg, envFile := config.Load()
	logger.Initialize(cfg.Log)
	if !envFile {
		logger.Warn("No .env file found, using environment variables", nil)
	}

	delivery, err := mailer.NewDelivery(cfg.Mail)
	if err != nil {
		logger.Fatal("Failed to configure mail delivery", map[string]interface{}{"error": err.Error(), "delivery": cfg.Mail.Delivery})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Mail worker started", map[string]interface{}{
		"queue":    cfg.Mail.Queue,
		"delivery": cfg.Mail.Delivery,
	})

	consumer := mailer.NewQueueConsumer(cfg.Mail.RabbitMQURL, cfg.Mail.Queue, delivery)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Mail worker stopped", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Mail worker exited", nil)
}
