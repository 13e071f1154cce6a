package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/homio-app/homio-backend/internal/connections"
	"github.com/homio-app/homio-backend/internal/cron"
	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/config"
	"github.com/homio-app/homio-backend/pkg/db"
	"github.com/homio-app/homio-backend/pkg/email"
	"github.com/homio-app/homio-backend/pkg/logger"
	"github.com/homio-app/homio-backend/pkg/metrics"
	"github.com/homio-app/homio-backend/pkg/migrate"
	"github.com/homio-app/homio-backend/pkg/outbox"
	"github.com/homio-app/homio-backend/pkg/redis"
)

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sender := email.Sender(email.NoopSender{})
	if cfg.AWS.EmailEnabled() {
		ses, err := email.NewSESSender(context.Background(), cfg.AWS)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap ses", err)
			os.Exit(1)
		}
		sender = ses
	} else {
		logg.Warn(context.Background(), "ses from address not set, digest emails will not be delivered")
	}

	digestJob, err := cron.NewPendingDigestJob(cron.PendingDigestJobParams{
		Logger:   logg,
		Requests: connections.NewRepository(dbClient.DB()),
		Users:    users.NewRepository(dbClient.DB()),
		Sender:   sender,
		Timezone: cfg.Digest.Timezone,
		AppURL:   cfg.Digest.AppURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create digest job", err)
		os.Exit(1)
	}

	retentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:        logg,
		DB:            dbClient,
		Repository:    outbox.NewRepository(dbClient.DB()),
		RetentionDays: cfg.Outbox.RetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	registry, err := cron.NewRegistry(digestJob, retentionJob)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockName(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Digest.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"lock":        lock.Key(),
	})

	if *once {
		logg.Info(ctx, "running cron jobs once")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron run failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockName(env string) string {
	if env == "" {
		env = "local"
	}
	return "cron-worker:" + env
}
