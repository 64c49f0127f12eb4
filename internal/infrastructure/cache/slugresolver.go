package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"academos/internal/domain/establishment"
	"academos/internal/shared/logger"
)

const (
	slugKeyPrefix = "establishment:slug:"
	slugTTL       = 5 * time.Minute
)

// SlugResolver maps establishment slugs to their immutable IDs, fronting the
// registry with a Redis cache. Routing always happens by ID; the resolver
// only shortens the slug lookup on the hot request path.
//
// The Redis client may be nil, in which case every lookup goes to the
// registry. Cache errors degrade to registry lookups instead of failing the
// request.
type SlugResolver struct {
	client   *redis.Client
	registry establishment.Repository
	logger   logger.Interface
}

// NewSlugResolver creates a new SlugResolver
func NewSlugResolver(client *redis.Client, registry establishment.Repository, log logger.Interface) *SlugResolver {
	return &SlugResolver{
		client:   client,
		registry: registry,
		logger:   log,
	}
}

// Resolve returns the establishment ID for a slug. Unknown slugs and slugs
// whose establishment is deactivated both resolve to an unknown tenant
// error; deactivation details are only revealed when routing by ID.
func (r *SlugResolver) Resolve(ctx context.Context, slug string) (uint, error) {
	if id, ok := r.cached(ctx, slug); ok {
		return id, nil
	}

	est, err := r.registry.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	if est == nil || !est.IsActive() {
		return 0, establishment.NewUnknownTenantError(0)
	}

	r.store(ctx, slug, est.ID())
	return est.ID(), nil
}

// Invalidate drops the cached mapping for a slug. Called when an
// establishment is renamed, deactivated or reactivated.
func (r *SlugResolver) Invalidate(ctx context.Context, slug string) {
	if r.client == nil {
		return
	}
	if err := r.client.Del(ctx, slugKeyPrefix+slug).Err(); err != nil {
		r.logger.Warnw("failed to invalidate slug cache", "slug", slug, "error", err)
	}
}

func (r *SlugResolver) cached(ctx context.Context, slug string) (uint, bool) {
	if r.client == nil {
		return 0, false
	}
	val, err := r.client.Get(ctx, slugKeyPrefix+slug).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warnw("slug cache lookup failed", "slug", slug, "error", err)
		}
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (r *SlugResolver) store(ctx context.Context, slug string, id uint) {
	if r.client == nil {
		return
	}
	if err := r.client.Set(ctx, slugKeyPrefix+slug, strconv.FormatUint(uint64(id), 10), slugTTL).Err(); err != nil {
		r.logger.Warnw("failed to cache slug mapping", "slug", slug, "error", err)
	}
}
