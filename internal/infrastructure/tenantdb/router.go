package tenantdb

import (
	"context"

	"gorm.io/gorm"
)

// Router is the single entry point the rest of the application uses to reach
// a database. It routes registry reads to the shared main connection and
// tenant reads to the per-establishment handle, provisioning on demand.
type Router struct {
	main  *gorm.DB
	cache *Cache
}

// NewRouter creates a new Router
func NewRouter(main *gorm.DB, cache *Cache) *Router {
	return &Router{main: main, cache: cache}
}

// MainHandle returns the shared registry database connection
func (r *Router) MainHandle() *gorm.DB {
	return r.main
}

// TenantHandle returns a borrowed handle for the establishment's dedicated
// database. The caller must Release the handle when finished with it so
// eviction can drain cleanly.
func (r *Router) TenantHandle(ctx context.Context, establishmentID uint) (*Handle, error) {
	return r.cache.Get(ctx, establishmentID)
}

// ActiveTenantIDs lists establishments that currently hold a cached handle
func (r *Router) ActiveTenantIDs() []uint {
	return r.cache.ListActive()
}

// Evict drops the establishment's cached handle, closing it after borrowers
// drain. Used when an establishment is deactivated.
func (r *Router) Evict(ctx context.Context, establishmentID uint) {
	r.cache.Evict(ctx, establishmentID)
}

// CloseAll shuts the tenant cache down. Subsequent TenantHandle calls fail
// until the process restarts.
func (r *Router) CloseAll(ctx context.Context) {
	r.cache.CloseAll(ctx)
}
