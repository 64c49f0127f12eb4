package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"academos/internal/infrastructure/config"
	"academos/internal/infrastructure/database"
	"academos/internal/infrastructure/migration"
	"academos/internal/infrastructure/persistence/models"
	"academos/internal/shared/logger"
)

var env string

// NewCommand creates the migrate command group
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Registry database migration tools",
		Long:  `Manage registry database migrations: apply pending migrations, roll back, and inspect status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			manager := migration.NewManager(env, cfg.Database.Driver)
			return manager.Migrate(database.Get(), models.RegistryModels()...)
		},
	}
}

func newDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			return migration.NewGooseStrategy(cfg.Database.Driver).MigrateDown(database.Get())
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			version, err := migration.NewGooseStrategy(cfg.Database.Driver).GetVersion(database.Get())
			if err != nil {
				return fmt.Errorf("failed to get migration version: %w", err)
			}
			logger.Info("current migration version", "version", version)
			return nil
		},
	}
}

func setup() (*config.Config, func(), error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize registry database: %w", err)
	}
	return cfg, func() { database.Close() }, nil
}
