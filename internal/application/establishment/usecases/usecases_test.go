package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"academos/internal/application/establishment/dto"
	domainEst "academos/internal/domain/establishment"
	vo "academos/internal/domain/establishment/value_objects"
	"academos/internal/infrastructure/persistence/models"
	"academos/internal/infrastructure/tenantdb"
	"academos/internal/shared/logger"
	"academos/internal/shared/services/markdown"
)

// memoryRepository is an in-memory establishment registry for usecase tests.
type memoryRepository struct {
	nextID uint
	byID   map[uint]*domainEst.Establishment
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{nextID: 1, byID: make(map[uint]*domainEst.Establishment)}
}

func (r *memoryRepository) Create(ctx context.Context, est *domainEst.Establishment) error {
	for _, existing := range r.byID {
		if existing.IsActive() && existing.Slug().Equals(est.Slug()) {
			return domainEst.NewDuplicateSlugError(est.Slug().String())
		}
	}
	id := r.nextID
	r.nextID++
	if err := est.SetID(id); err != nil {
		return err
	}
	r.byID[id] = est
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uint) (*domainEst.Establishment, error) {
	return r.byID[id], nil
}

func (r *memoryRepository) GetBySlug(ctx context.Context, slug string) (*domainEst.Establishment, error) {
	var inactive *domainEst.Establishment
	for _, est := range r.byID {
		if est.Slug().String() != slug {
			continue
		}
		if est.IsActive() {
			return est, nil
		}
		inactive = est
	}
	return inactive, nil
}

func (r *memoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domainEst.Establishment, error) {
	var out []*domainEst.Establishment
	for _, est := range r.byID {
		if activeOnly && !est.IsActive() {
			continue
		}
		out = append(out, est)
	}
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, est *domainEst.Establishment) error {
	r.byID[est.ID()] = est
	return nil
}

func (r *memoryRepository) Deactivate(ctx context.Context, id uint) (*domainEst.Establishment, error) {
	est, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if est.IsActive() {
		if err := est.Deactivate(); err != nil {
			return nil, err
		}
	}
	return est, nil
}

func (r *memoryRepository) Reactivate(ctx context.Context, id uint) (*domainEst.Establishment, error) {
	est, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if !est.IsActive() {
		if err := est.Reactivate(); err != nil {
			return nil, err
		}
	}
	return est, nil
}

// fakeRouter hands out sqlite in-memory tenant handles and records evictions.
type fakeRouter struct {
	handleErr error
	handles   map[uint]*tenantdb.Handle
	evicted   []uint
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{handles: make(map[uint]*tenantdb.Handle)}
}

func (f *fakeRouter) TenantHandle(ctx context.Context, id uint) (*tenantdb.Handle, error) {
	if f.handleErr != nil {
		return nil, f.handleErr
	}
	h, ok := f.handles[id]
	if !ok {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(models.TenantModels()...); err != nil {
			return nil, err
		}
		h = tenantdb.NewHandle(id, db)
		f.handles[id] = h
	}
	return h, nil
}

func (f *fakeRouter) Evict(ctx context.Context, id uint) {
	f.evicted = append(f.evicted, id)
	delete(f.handles, id)
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, slug string) {
	f.invalidated = append(f.invalidated, slug)
}

func seedEstablishment(t *testing.T, repo *memoryRepository, nameValue, slugValue string) *domainEst.Establishment {
	t.Helper()
	name, err := vo.NewName(nameValue)
	require.NoError(t, err)
	slug, err := vo.NewSlug(slugValue)
	require.NoError(t, err)
	est, err := domainEst.NewEstablishment(name, slug)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), est))
	return est
}

func TestCreateEstablishmentUseCase(t *testing.T) {
	t.Run("creates and eagerly provisions", func(t *testing.T) {
		repo := newMemoryRepository()
		router := newFakeRouter()
		uc := NewCreateEstablishmentUseCase(repo, router, logger.NewLogger())

		resp, err := uc.Execute(context.Background(), dto.CreateEstablishmentRequest{
			Name: "Lycée Saint-Exupéry",
		})
		require.NoError(t, err)
		assert.True(t, resp.Provisioned)
		assert.Equal(t, "lycee-saint-exupery", resp.Establishment.Slug)
		assert.True(t, resp.Establishment.IsActive)
		assert.NotZero(t, resp.Establishment.ID)
	})

	t.Run("keeps the registration when provisioning fails", func(t *testing.T) {
		repo := newMemoryRepository()
		router := newFakeRouter()
		router.handleErr = errors.New("database server unreachable")
		uc := NewCreateEstablishmentUseCase(repo, router, logger.NewLogger())

		resp, err := uc.Execute(context.Background(), dto.CreateEstablishmentRequest{
			Name: "Collège Jean Moulin",
		})
		require.NoError(t, err)
		assert.False(t, resp.Provisioned)

		est, err := repo.GetByID(context.Background(), resp.Establishment.ID)
		require.NoError(t, err)
		require.NotNil(t, est)
	})

	t.Run("rejects a slug already used by an active establishment", func(t *testing.T) {
		repo := newMemoryRepository()
		seedEstablishment(t, repo, "Lycée Pasteur", "pasteur")
		uc := NewCreateEstablishmentUseCase(repo, newFakeRouter(), logger.NewLogger())

		_, err := uc.Execute(context.Background(), dto.CreateEstablishmentRequest{
			Name: "Institut Pasteur",
			Slug: "pasteur",
		})
		require.Error(t, err)
		assert.True(t, domainEst.IsDuplicateSlug(err))
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		uc := NewCreateEstablishmentUseCase(newMemoryRepository(), newFakeRouter(), logger.NewLogger())

		_, err := uc.Execute(context.Background(), dto.CreateEstablishmentRequest{Name: "x"})
		assert.Error(t, err)
	})
}

func TestUpdateEstablishmentUseCase(t *testing.T) {
	t.Run("applies only the provided fields", func(t *testing.T) {
		repo := newMemoryRepository()
		est := seedEstablishment(t, repo, "Lycée Pasteur", "pasteur")
		uc := NewUpdateEstablishmentUseCase(repo, logger.NewLogger())

		desc := "Un lycée centenaire."
		resp, err := uc.Execute(context.Background(), est.ID(), dto.UpdateEstablishmentRequest{
			Description: &desc,
		})
		require.NoError(t, err)
		assert.Equal(t, "Lycée Pasteur", resp.Name)
		assert.Equal(t, desc, resp.Description)
		assert.Equal(t, "pasteur", resp.Slug)
	})

	t.Run("fails on unknown establishment", func(t *testing.T) {
		uc := NewUpdateEstablishmentUseCase(newMemoryRepository(), logger.NewLogger())

		_, err := uc.Execute(context.Background(), 404, dto.UpdateEstablishmentRequest{})
		require.Error(t, err)
		assert.True(t, domainEst.IsUnknownTenant(err))
	})
}

func TestDeactivateEstablishmentUseCase(t *testing.T) {
	t.Run("deactivates evicts and invalidates", func(t *testing.T) {
		repo := newMemoryRepository()
		est := seedEstablishment(t, repo, "Lycée Pasteur", "pasteur")
		router := newFakeRouter()
		inv := &fakeInvalidator{}
		uc := NewDeactivateEstablishmentUseCase(repo, router, inv, logger.NewLogger())

		resp, err := uc.Execute(context.Background(), est.ID())
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
		assert.Equal(t, []uint{est.ID()}, router.evicted)
		assert.Equal(t, []string{"pasteur"}, inv.invalidated)
	})

	t.Run("fails on unknown establishment", func(t *testing.T) {
		uc := NewDeactivateEstablishmentUseCase(newMemoryRepository(), newFakeRouter(), &fakeInvalidator{}, logger.NewLogger())

		_, err := uc.Execute(context.Background(), 404)
		require.Error(t, err)
		assert.True(t, domainEst.IsUnknownTenant(err))
	})
}

func TestReactivateEstablishmentUseCase(t *testing.T) {
	repo := newMemoryRepository()
	est := seedEstablishment(t, repo, "Lycée Pasteur", "pasteur")
	_, err := repo.Deactivate(context.Background(), est.ID())
	require.NoError(t, err)

	inv := &fakeInvalidator{}
	uc := NewReactivateEstablishmentUseCase(repo, inv, logger.NewLogger())

	resp, err := uc.Execute(context.Background(), est.ID())
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.Equal(t, []string{"pasteur"}, inv.invalidated)
}

func TestGetEstablishmentStatsUseCase(t *testing.T) {
	router := newFakeRouter()
	uc := NewGetEstablishmentStatsUseCase(router, logger.NewLogger())

	h, err := router.TenantHandle(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, h.DB().Create(&models.TenantUserModel{
		Email: "a@b.example", Name: "A", Role: "student", IsActive: true,
	}).Error)
	require.NoError(t, h.DB().Create(&models.TenantCourseModel{Title: "Maths"}).Error)

	stats, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.Courses)
	assert.Equal(t, int64(0), stats.Themes)
}

func TestGetPublicProfileUseCase(t *testing.T) {
	t.Run("renders the description to sanitized html", func(t *testing.T) {
		repo := newMemoryRepository()
		est := seedEstablishment(t, repo, "Lycée Pasteur", "pasteur")
		desc := "# Bienvenue\n\n<script>alert(1)</script>"
		est.UpdateProfile(&desc, nil, nil)

		uc := NewGetPublicProfileUseCase(repo, markdown.NewMarkdownService(), logger.NewLogger())
		resp, err := uc.Execute(context.Background(), "pasteur")
		require.NoError(t, err)
		assert.Equal(t, "Lycée Pasteur", resp.Name)
		assert.Contains(t, resp.DescriptionHTML, "<h1")
		assert.NotContains(t, resp.DescriptionHTML, "<script>")
	})

	t.Run("hides deactivated establishments", func(t *testing.T) {
		repo := newMemoryRepository()
		est := seedEstablishment(t, repo, "Lycée Pasteur", "pasteur")
		_, err := repo.Deactivate(context.Background(), est.ID())
		require.NoError(t, err)

		uc := NewGetPublicProfileUseCase(repo, markdown.NewMarkdownService(), logger.NewLogger())
		_, err = uc.Execute(context.Background(), "pasteur")
		require.Error(t, err)
		assert.True(t, domainEst.IsUnknownTenant(err))
	})
}

func TestGetEstablishmentUseCase(t *testing.T) {
	repo := newMemoryRepository()
	est := seedEstablishment(t, repo, "Lycée Pasteur", "pasteur")
	uc := NewGetEstablishmentUseCase(repo, logger.NewLogger())

	t.Run("by id", func(t *testing.T) {
		resp, err := uc.ByID(context.Background(), est.ID())
		require.NoError(t, err)
		assert.Equal(t, "pasteur", resp.Slug)
	})

	t.Run("by slug", func(t *testing.T) {
		resp, err := uc.BySlug(context.Background(), "pasteur")
		require.NoError(t, err)
		assert.Equal(t, est.ID(), resp.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := uc.ByID(context.Background(), 404)
		require.Error(t, err)
		assert.True(t, domainEst.IsUnknownTenant(err))
	})
}

func TestListEstablishmentsUseCase(t *testing.T) {
	repo := newMemoryRepository()
	seedEstablishment(t, repo, "Lycée Pasteur", "pasteur")
	inactive := seedEstablishment(t, repo, "Collège Fermé", "college-ferme")
	_, err := repo.Deactivate(context.Background(), inactive.ID())
	require.NoError(t, err)

	uc := NewListEstablishmentsUseCase(repo, logger.NewLogger())

	all, err := uc.Execute(context.Background(), dto.ListEstablishmentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	active, err := uc.Execute(context.Background(), dto.ListEstablishmentsRequest{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, active.Total)
	assert.Equal(t, "pasteur", active.Establishments[0].Slug)
}
