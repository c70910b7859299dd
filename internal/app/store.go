package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/config"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	"github.com/rescuenet/rescuenet-api/internal/repository/memory"
	"github.com/rescuenet/rescuenet-api/internal/repository/postgres"
)

// OpenStore connects the configured storage driver. Postgres schemas are
// migrated first when AutoMigrate is set.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *zerolog.Logger) (*repository.Store, error) {
	if strings.EqualFold(cfg.Driver, "memory") {
		logger.Warn().Msg("Using in-memory store; data is lost on restart")
		return memory.New(), nil
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return postgres.New(db), nil
}
