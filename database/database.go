package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lshigami/placementai/config"
	"github.com/lshigami/placementai/internal/model"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the SQL store selected by STORE_DRIVER. It returns a nil
// *gorm.DB when the flat-file store is in use.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil || db == nil {
		return db, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			log.Info().Msg("Closing database connection")
			return sqlDB.Close()
		},
	})
	return db, nil
}

// Open connects and migrates without lifecycle wiring.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Store.Driver {
	case config.StoreDriverCSV:
		return nil, nil
	case config.StoreDriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.User, cfg.Database.Password,
			cfg.Database.Name, cfg.Database.Port, cfg.Database.SSLMode)
		dialector = postgres.Open(dsn)
	case config.StoreDriverSQLite:
		if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Store.Driver, err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("Database connected")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(&model.Account{}, &model.Submission{}); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
