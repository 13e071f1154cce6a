package migrate

import (
	"context"
	"fmt"

	"github.com/homio-app/homio-backend/pkg/config"
	"github.com/homio-app/homio-backend/pkg/db"
	"github.com/homio-app/homio-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on boot when running in dev with
// HOMIO_AUTO_MIGRATE enabled. Other environments run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.Migrations.AutoRunDev {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dir := cfg.Migrations.Dir
	if dir == "" {
		dir = DefaultDir
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": dir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, dir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
