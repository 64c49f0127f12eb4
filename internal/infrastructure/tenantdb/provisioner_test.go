package tenantdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academos/internal/domain/establishment"
	vo "academos/internal/domain/establishment/value_objects"
	"academos/internal/infrastructure/auth"
	"academos/internal/infrastructure/persistence/models"
	"academos/internal/shared/config"
	"academos/internal/shared/constants"
	"academos/internal/shared/logger"
)

// stubRegistry serves a fixed set of establishments by ID.
type stubRegistry struct {
	establishment.Repository
	byID map[uint]*establishment.Establishment
}

func (s *stubRegistry) GetByID(ctx context.Context, id uint) (*establishment.Establishment, error) {
	return s.byID[id], nil
}

func registryWith(t *testing.T, id uint, active bool) *stubRegistry {
	t.Helper()
	name, err := vo.NewName("Lycée Test")
	require.NoError(t, err)
	slug, err := vo.NewSlug("lycee-test")
	require.NoError(t, err)
	est, err := establishment.NewEstablishment(name, slug)
	require.NoError(t, err)
	require.NoError(t, est.SetID(id))
	if !active {
		require.NoError(t, est.Deactivate())
	}
	return &stubRegistry{byID: map[uint]*establishment.Establishment{id: est}}
}

func newTestProvisioner(t *testing.T, registry establishment.Repository) (*TenantProvisioner, *config.TenantConfig) {
	t.Helper()
	cfg := &config.TenantConfig{
		Driver:   "sqlite",
		DataDir:  t.TempDir(),
		DBPrefix: "tenant_",
	}
	seed := &config.SeedConfig{
		AdminEmail:    "director@lycee-test.example",
		AdminName:     "Directrice",
		AdminPassword: "s3cret-initial",
	}
	hasher := auth.NewBcryptPasswordHasher(4)
	return NewTenantProvisioner(registry, cfg, seed, hasher, logger.NewLogger()), cfg
}

func TestTenantProvisionerProvision(t *testing.T) {
	t.Run("creates migrates and seeds a new tenant database", func(t *testing.T) {
		p, cfg := newTestProvisioner(t, registryWith(t, 42, true))

		h, err := p.Provision(context.Background(), 42)
		require.NoError(t, err)
		defer h.closeWhenDrained(context.Background())

		assert.Equal(t, uint(42), h.EstablishmentID())
		_, statErr := os.Stat(filepath.Join(cfg.DataDir, "tenant_42.db"))
		assert.NoError(t, statErr)

		db := h.DB()
		var admin models.TenantUserModel
		require.NoError(t, db.Where("role = ?", constants.RoleAdmin).First(&admin).Error)
		assert.Equal(t, "director@lycee-test.example", admin.Email)
		assert.Equal(t, "Directrice", admin.Name)
		assert.True(t, admin.IsActive)
		assert.NotEmpty(t, admin.PasswordHash)
		assert.NotEqual(t, "s3cret-initial", admin.PasswordHash)

		var theme models.TenantThemeModel
		require.NoError(t, db.Where("is_default = ?", true).First(&theme).Error)
		assert.Equal(t, constants.DefaultThemeName, theme.Name)
	})

	t.Run("is idempotent on an already seeded database", func(t *testing.T) {
		p, _ := newTestProvisioner(t, registryWith(t, 42, true))

		h1, err := p.Provision(context.Background(), 42)
		require.NoError(t, err)
		h1.closeWhenDrained(context.Background())

		h2, err := p.Provision(context.Background(), 42)
		require.NoError(t, err)
		defer h2.closeWhenDrained(context.Background())

		var users int64
		require.NoError(t, h2.DB().Model(&models.TenantUserModel{}).Count(&users).Error)
		assert.Equal(t, int64(1), users)
		var themes int64
		require.NoError(t, h2.DB().Model(&models.TenantThemeModel{}).Count(&themes).Error)
		assert.Equal(t, int64(1), themes)
	})

	t.Run("rejects an unknown establishment", func(t *testing.T) {
		p, cfg := newTestProvisioner(t, registryWith(t, 42, true))

		_, err := p.Provision(context.Background(), 999)
		require.Error(t, err)
		assert.True(t, establishment.IsUnknownTenant(err))

		// No database file may appear for a rejected tenant.
		_, statErr := os.Stat(filepath.Join(cfg.DataDir, "tenant_999.db"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("rejects a deactivated establishment", func(t *testing.T) {
		p, _ := newTestProvisioner(t, registryWith(t, 42, false))

		_, err := p.Provision(context.Background(), 42)
		require.Error(t, err)
		assert.True(t, establishment.IsInactiveTenant(err))
	})

	t.Run("rejects an unsupported driver", func(t *testing.T) {
		p, cfg := newTestProvisioner(t, registryWith(t, 42, true))
		cfg.Driver = "oracle"

		_, err := p.Provision(context.Background(), 42)
		require.Error(t, err)
		assert.True(t, establishment.IsProvisioningFailed(err))
	})
}
