package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/homio-app/homio-backend/internal/notifications"
	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/config"
	"github.com/homio-app/homio-backend/pkg/db"
	"github.com/homio-app/homio-backend/pkg/email"
	"github.com/homio-app/homio-backend/pkg/instance"
	"github.com/homio-app/homio-backend/pkg/logger"
	"github.com/homio-app/homio-backend/pkg/outbox/idempotency"
	"github.com/homio-app/homio-backend/pkg/outbox/registry"
	"github.com/homio-app/homio-backend/pkg/pubsub"
	"github.com/homio-app/homio-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	idem, err := idempotency.NewManager(redisClient, cfg.Eventing.OutboxIdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	sender := emailSender(ctx, cfg, logg)

	consumer, err := notifications.NewConsumer(notifications.ConsumerParams{
		Subscription: pubsubClient.ConnectionSubscription(),
		Decoders:     registry.NewConnectionDecoders(),
		Idempotency:  idem,
		Users:        users.NewRepository(dbClient.DB()),
		Sender:       sender,
		AppURL:       cfg.Digest.AppURL,
		Logger:       logg,
	})
	requireResource(ctx, logg, "notification consumer", err)

	service, err := NewService(ServiceParams{
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		PubSub:     pubsubClient,
		Consumer:   consumer,
		InstanceID: instance.GetID(),
	})
	requireResource(ctx, logg, "worker service", err)

	logg.Info(ctx, "starting worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "worker shutting down gracefully")
}

// emailSender falls back to a no-op sender when SES has no from address, so
// local stacks can run the consumer without AWS.
func emailSender(ctx context.Context, cfg *config.Config, logg *logger.Logger) email.Sender {
	if !cfg.AWS.EmailEnabled() {
		logg.Warn(ctx, "ses from address not set, emails will not be delivered")
		return email.NoopSender{}
	}
	sender, err := email.NewSESSender(ctx, cfg.AWS)
	requireResource(ctx, logg, "ses", err)
	return sender
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
