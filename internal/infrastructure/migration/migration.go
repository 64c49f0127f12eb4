package migration

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"academos/internal/shared/constants"
	"academos/internal/shared/logger"
)

// Manager runs registry schema migrations with an environment-appropriate
// strategy: AutoMigrate for development, versioned goose scripts elsewhere.
type Manager struct {
	strategy Strategy
	logger   *slog.Logger
}

// NewManager creates a migration manager for the given environment and
// registry driver
func NewManager(environment, driver string) *Manager {
	var strategy Strategy

	switch strings.ToLower(environment) {
	case constants.EnvDevelopment, constants.EnvTest:
		strategy = NewGormAutoMigrateStrategy()
	case constants.EnvProduction:
		strategy = NewGooseStrategy(driver)
	default:
		strategy = NewGormAutoMigrateStrategy()
	}

	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

// NewManagerWithStrategy creates a migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB, models ...interface{}) error {
	m.logger.Info("starting database migration",
		slog.String("strategy", m.strategy.GetName()),
		slog.Int("models_count", len(models)))

	if err := m.strategy.Migrate(db, models...); err != nil {
		m.logger.Error("migration failed",
			slog.String("strategy", m.strategy.GetName()),
			slog.Any("error", err))
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Info("database migration completed successfully",
		slog.String("strategy", m.strategy.GetName()))
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
