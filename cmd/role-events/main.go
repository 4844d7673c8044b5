// Command role-events tails the job role event queue and logs each event.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"role-catalog/infrastructure"
)

func main() {
	cfg, err := infrastructure.LoadEventsConfig(".env")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	infrastructure.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	if err != nil {
		log.Fatalf("connect RabbitMQ: %v", err)
	}
	defer rmq.Close()

	err = rmq.Consume(ctx, func(event infrastructure.RoleEvent) {
		entry := log.WithFields(log.Fields{
			"type":        event.Type,
			"role_id":     event.RoleID,
			"occurred_at": event.OccurredAt,
		})
		if event.Role != nil {
			entry = entry.WithField("title", event.Role.Title)
		}
		entry.Info("role event")
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("consume: %v", err)
	}
	log.Info("consumer stopped")
}
