package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"academos/internal/application/establishment/usecases"
	"academos/internal/infrastructure/auth"
	rediscache "academos/internal/infrastructure/cache"
	"academos/internal/infrastructure/config"
	"academos/internal/infrastructure/database"
	"academos/internal/infrastructure/migration"
	"academos/internal/infrastructure/persistence/models"
	"academos/internal/infrastructure/repository"
	"academos/internal/infrastructure/tenantdb"
	httpRouter "academos/internal/interfaces/http"
	"academos/internal/interfaces/http/handlers"
	"academos/internal/shared/logger"
	"academos/internal/shared/services/markdown"
)

var (
	env         string
	autoMigrate bool
)

// NewCommand creates the server command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Academos establishment router with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run registry migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize registry database", "error", err)
	}
	defer database.Close()

	if autoMigrate {
		manager := migration.NewManager(env, cfg.Database.Driver)
		if err := manager.Migrate(database.Get(), models.RegistryModels()...); err != nil {
			logger.Fatal("registry migration failed", "error", err)
		}
	}

	log := logger.NewLogger()

	registryRepo := repository.NewEstablishmentRepository(database.Get(), log.With("component", "registry"))

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	slugResolver := rediscache.NewSlugResolver(redisClient, registryRepo, log.With("component", "slug_resolver"))

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	provisioner := tenantdb.NewTenantProvisioner(registryRepo, &cfg.Tenant, &cfg.Auth.Seed, hasher, log.With("component", "provisioner"))
	tenantCache := tenantdb.NewCache(provisioner, &cfg.Tenant, log.With("component", "tenant_cache"))
	router := tenantdb.NewRouter(database.Get(), tenantCache)

	markdownSvc := markdown.NewMarkdownService()

	establishmentHandler := handlers.NewEstablishmentHandler(
		usecases.NewCreateEstablishmentUseCase(registryRepo, router, log),
		usecases.NewGetEstablishmentUseCase(registryRepo, log),
		usecases.NewListEstablishmentsUseCase(registryRepo, log),
		usecases.NewUpdateEstablishmentUseCase(registryRepo, log),
		usecases.NewDeactivateEstablishmentUseCase(registryRepo, router, slugResolver, log),
		usecases.NewReactivateEstablishmentUseCase(registryRepo, slugResolver, log),
		usecases.NewGetEstablishmentStatsUseCase(router, log),
		usecases.NewGetPublicProfileUseCase(registryRepo, markdownSvc, log),
		log.With("component", "establishment_handler"),
	)

	engine := httpRouter.NewRouter(httpRouter.RouterConfig{
		Environment:   env,
		BaseDomain:    cfg.Server.BaseDomain,
		Establishment: establishmentHandler,
		SlugResolver:  slugResolver,
		Logger:        log.With("component", "http"),
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "address", cfg.Server.GetAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Drain the tenant handles after the HTTP server stops accepting
	// requests; borrowers from in-flight requests get to finish first.
	router.CloseAll(ctx)

	logger.Info("server exited gracefully")
	return nil
}
