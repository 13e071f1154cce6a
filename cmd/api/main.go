package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/homio-app/homio-backend/api/routes"
	"github.com/homio-app/homio-backend/internal/auth"
	"github.com/homio-app/homio-backend/internal/connections"
	"github.com/homio-app/homio-backend/internal/feed"
	"github.com/homio-app/homio-backend/internal/notifications"
	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/auth/session"
	"github.com/homio-app/homio-backend/pkg/config"
	"github.com/homio-app/homio-backend/pkg/db"
	"github.com/homio-app/homio-backend/pkg/env"
	"github.com/homio-app/homio-backend/pkg/logger"
	"github.com/homio-app/homio-backend/pkg/metrics"
	"github.com/homio-app/homio-backend/pkg/migrate"
	"github.com/homio-app/homio-backend/pkg/outbox"
	"github.com/homio-app/homio-backend/pkg/pagination"
	"github.com/homio-app/homio-backend/pkg/redis"
	"github.com/homio-app/homio-backend/pkg/storage"
)

const defaultShutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	requestRepo := connections.NewRepository(dbClient.DB())

	var presigner *storage.S3Presigner
	if cfg.AWS.PhotoBucket != "" {
		presigner, err = storage.NewS3Presigner(ctx, cfg.AWS)
		if err != nil {
			return err
		}
	} else {
		logg.Warn(ctx, "photo bucket not configured; upload urls disabled")
	}

	userParams := users.ServiceParams{Repo: userRepo}
	if presigner != nil {
		userParams.Presigner = presigner
	}
	userService, err := users.NewService(userParams)
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	notifier, err := notifications.NewOutboxNotifier(outbox.NewService(outbox.NewRepository(dbClient.DB()), logg))
	if err != nil {
		return err
	}

	connectionService, err := connections.NewService(connections.ServiceParams{
		Store:     requestRepo,
		Directory: userRepo,
		Notifier:  notifier,
		Metrics:   metrics.NewConnectionMetrics(prometheus.DefaultRegisterer),
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	feedGenerator, err := feed.NewGenerator(feed.GeneratorParams{
		Requests:  requestRepo,
		Directory: userRepo,
		Limits: pagination.Limits{
			DefaultPageSize: cfg.Feed.DefaultPageSize,
			MaxPageSize:     cfg.Feed.MaxPageSize,
		},
	})
	if err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": env.Get("DYNO", "local"),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Idempotency: redisClient,
			Sessions:    sessionManager,
			Auth:        authService,
			Users:       userService,
			Connections: connectionService,
			Feed:        feedGenerator,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.Duration("HOMIO_SHUTDOWN_TIMEOUT", defaultShutdownTimeout))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
