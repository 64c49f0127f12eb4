package tenantdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"academos/internal/domain/establishment"
	"academos/internal/infrastructure/auth"
	"academos/internal/infrastructure/persistence/models"
	"academos/internal/shared/config"
	"academos/internal/shared/constants"
	"academos/internal/shared/logger"
)

// Provisioner produces a ready tenant handle for an establishment, creating
// and seeding the tenant database on first access.
type Provisioner interface {
	Provision(ctx context.Context, establishmentID uint) (*Handle, error)
}

// TenantProvisioner implements Provisioner against mysql or sqlite.
//
// Provisioning never calls back into the connection cache; it only talks to
// the registry and the tenant database server.
type TenantProvisioner struct {
	registry establishment.Repository
	cfg      *config.TenantConfig
	seed     *config.SeedConfig
	hasher   *auth.BcryptPasswordHasher
	logger   logger.Interface
}

// NewTenantProvisioner creates a new TenantProvisioner
func NewTenantProvisioner(
	registry establishment.Repository,
	cfg *config.TenantConfig,
	seed *config.SeedConfig,
	hasher *auth.BcryptPasswordHasher,
	logger logger.Interface,
) *TenantProvisioner {
	return &TenantProvisioner{
		registry: registry,
		cfg:      cfg,
		seed:     seed,
		hasher:   hasher,
		logger:   logger,
	}
}

// Provision looks the establishment up in the registry, opens or creates its
// dedicated database, migrates the tenant schema and seeds initial data
// exactly once. Any infrastructure failure closes the partially opened pool
// and returns a retryable provisioning error; the tenant is never left
// half-seeded because seeding runs in a single transaction.
func (p *TenantProvisioner) Provision(ctx context.Context, establishmentID uint) (*Handle, error) {
	est, err := p.registry.GetByID(ctx, establishmentID)
	if err != nil {
		return nil, establishment.NewProvisioningFailedError(establishmentID, err)
	}
	if est == nil {
		return nil, establishment.NewUnknownTenantError(establishmentID)
	}
	if !est.IsActive() {
		return nil, establishment.NewInactiveTenantError(establishmentID)
	}

	db, err := p.open(ctx, establishmentID)
	if err != nil {
		p.logger.Errorw("failed to open tenant database", "establishment_id", establishmentID, "error", err)
		return nil, establishment.NewProvisioningFailedError(establishmentID, err)
	}

	if err := p.migrate(db); err != nil {
		p.logger.Errorw("failed to migrate tenant schema", "establishment_id", establishmentID, "error", err)
		closePool(db)
		return nil, establishment.NewProvisioningFailedError(establishmentID, err)
	}

	seeded, err := p.seedOnce(ctx, db)
	if err != nil {
		p.logger.Errorw("failed to seed tenant database", "establishment_id", establishmentID, "error", err)
		closePool(db)
		return nil, establishment.NewProvisioningFailedError(establishmentID, err)
	}
	if seeded {
		p.logger.Infow("tenant database seeded", "establishment_id", establishmentID)
	}

	p.logger.Infow("tenant database ready",
		"establishment_id", establishmentID,
		"database", p.cfg.DatabaseName(establishmentID))
	return NewHandle(establishmentID, db), nil
}

// open opens the tenant database, creating it first if it does not exist.
// The database name derives from the immutable establishment ID, never the
// slug, so renames cannot orphan tenant data.
func (p *TenantProvisioner) open(ctx context.Context, establishmentID uint) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var dialector gorm.Dialector
	switch strings.ToLower(p.cfg.Driver) {
	case "sqlite":
		if err := os.MkdirAll(p.cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create tenant data dir: %w", err)
		}
		dialector = sqlite.Open(p.cfg.SQLitePath(establishmentID))
	case "mysql", "":
		if err := p.ensureMySQLDatabase(ctx, establishmentID); err != nil {
			return nil, err
		}
		dialector = mysql.New(mysql.Config{
			DSN:                       p.cfg.GetDSN(p.cfg.DatabaseName(establishmentID)),
			SkipInitializeWithVersion: true,
		})
	default:
		return nil, fmt.Errorf("unsupported tenant database driver: %s", p.cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open tenant database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Bounded per-tenant pool; an unbounded pool per tenant would exhaust
	// the database server under high tenant counts.
	maxOpen := p.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := p.cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		closePool(db)
		return nil, fmt.Errorf("failed to ping tenant database: %w", err)
	}

	return db, nil
}

// ensureMySQLDatabase creates the tenant database if absent
func (p *TenantProvisioner) ensureMySQLDatabase(ctx context.Context, establishmentID uint) error {
	serverDB, err := sql.Open("mysql", p.cfg.GetServerDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to tenant database server: %w", err)
	}
	defer serverDB.Close()

	dbName := p.cfg.DatabaseName(establishmentID)
	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci", dbName)
	if _, err := serverDB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create tenant database %s: %w", dbName, err)
	}
	return nil
}

// migrate runs idempotent schema creation for the tenant business tables
func (p *TenantProvisioner) migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.TenantModels()...); err != nil {
		return fmt.Errorf("tenant schema migration failed: %w", err)
	}
	return nil
}

// seedOnce inserts the default administrator and theme if the tenant has
// never been seeded. The admin user row doubles as the seeding marker, and
// both inserts share one transaction, so re-provisioning an already-seeded
// tenant skips silently and a failed seed leaves nothing behind.
func (p *TenantProvisioner) seedOnce(ctx context.Context, db *gorm.DB) (bool, error) {
	seeded := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TenantUserModel{}).
			Where("role = ?", constants.RoleAdmin).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check seeding marker: %w", err)
		}
		if count > 0 {
			return nil
		}

		passwordHash, err := p.hasher.Hash(p.seedPassword())
		if err != nil {
			return err
		}

		admin := models.TenantUserModel{
			Email:        p.seedValue(p.seed.AdminEmail, constants.DefaultAdminEmail),
			Name:         p.seedValue(p.seed.AdminName, constants.DefaultAdminName),
			Role:         constants.RoleAdmin,
			PasswordHash: passwordHash,
			IsActive:     true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed administrator: %w", err)
		}

		theme := models.TenantThemeModel{
			Name:      constants.DefaultThemeName,
			IsDefault: true,
		}
		if err := tx.Create(&theme).Error; err != nil {
			return fmt.Errorf("failed to seed default theme: %w", err)
		}

		seeded = true
		return nil
	})
	return seeded, err
}

func (p *TenantProvisioner) seedPassword() string {
	if p.seed != nil && p.seed.AdminPassword != "" {
		return p.seed.AdminPassword
	}
	return "change-me-on-first-login"
}

func (p *TenantProvisioner) seedValue(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func closePool(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
