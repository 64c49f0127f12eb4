package tenantdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"academos/internal/domain/establishment"
	"academos/internal/shared/config"
	"academos/internal/shared/logger"
)

// entry is the cache slot for one establishment. The done channel closes
// when provisioning finishes, successfully or not; waiters block on it
// instead of re-provisioning.
type entry struct {
	done    chan struct{}
	handle  *Handle
	err     error
	evicted bool
}

func (e *entry) ready() bool {
	select {
	case <-e.done:
		return e.err == nil
	default:
		return false
	}
}

// Cache holds at most one tenant handle per establishment and guarantees
// that concurrent first accesses provision the tenant database exactly once.
type Cache struct {
	provisioner Provisioner
	cfg         *config.TenantConfig
	logger      logger.Interface

	mu      sync.Mutex
	entries map[uint]*entry
	closed  bool

	janitorStop chan struct{}
	janitorDone chan struct{}
}

// NewCache creates the cache and starts the idle janitor when an idle TTL
// is configured.
func NewCache(provisioner Provisioner, cfg *config.TenantConfig, log logger.Interface) *Cache {
	c := &Cache{
		provisioner: provisioner,
		cfg:         cfg,
		logger:      log,
		entries:     make(map[uint]*entry),
		janitorStop: make(chan struct{}),
		janitorDone: make(chan struct{}),
	}
	if cfg.IdleTTL() > 0 {
		go c.janitor()
	} else {
		close(c.janitorDone)
	}
	return c
}

// Get returns a borrowed handle for the establishment, provisioning its
// database on first access. The caller must Release the handle when done.
//
// If another caller is already provisioning the same establishment, Get
// waits for that attempt instead of starting a second one. A waiter whose
// context expires gives up waiting, but the in-flight provisioning keeps
// running on its own timeout so slow first-time setup is not aborted by an
// impatient request.
func (c *Cache) Get(ctx context.Context, establishmentID uint) (*Handle, error) {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, establishment.NewShuttingDownError()
		}
		e, ok := c.entries[establishmentID]
		if !ok {
			e = &entry{done: make(chan struct{})}
			c.entries[establishmentID] = e
			c.mu.Unlock()
			go c.provision(e, establishmentID)
		} else {
			c.mu.Unlock()
		}

		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for tenant %d: %w", establishmentID, ctx.Err())
		}

		if e.err != nil {
			return nil, e.err
		}
		if err := e.handle.borrow(); err == nil {
			return e.handle, nil
		}

		// The handle was evicted between completion and borrow. Drop the
		// stale slot if it is still ours and retry with a fresh one.
		c.mu.Lock()
		if cur, ok := c.entries[establishmentID]; ok && cur == e {
			delete(c.entries, establishmentID)
		}
		c.mu.Unlock()
	}
}

// provision runs one provisioning attempt detached from any caller context,
// bounded only by the configured provisioning timeout. A failed attempt
// removes the slot so the next request retries instead of seeing a cached
// error forever.
func (c *Cache) provision(e *entry, establishmentID uint) {
	timeout := c.cfg.ProvisionTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	handle, err := c.provisioner.Provision(ctx, establishmentID)

	c.mu.Lock()
	if err != nil {
		if cur, ok := c.entries[establishmentID]; ok && cur == e {
			delete(c.entries, establishmentID)
		}
		e.err = err
		c.mu.Unlock()
		close(e.done)
		return
	}
	if c.closed || e.evicted {
		// Shutdown or eviction raced with provisioning; do not hand out
		// the handle.
		delete(c.entries, establishmentID)
		if c.closed {
			e.err = establishment.NewShuttingDownError()
		} else {
			e.err = establishment.NewInactiveTenantError(establishmentID)
		}
		c.mu.Unlock()
		close(e.done)
		go handle.closeWhenDrained(context.Background())
		return
	}
	e.handle = handle
	close(e.done)
	evict := c.overLimitLocked()
	c.mu.Unlock()

	for _, victim := range evict {
		c.evictHandle(victim)
	}
}

// ListActive returns the IDs of establishments with a ready cached handle
func (c *Cache) ListActive() []uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]uint, 0, len(c.entries))
	for id, e := range c.entries {
		if e.ready() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Evict removes the establishment's handle from the cache and closes it once
// every borrower has released it. An attempt still provisioning is marked so
// the handle it produces is closed instead of installed.
func (c *Cache) Evict(ctx context.Context, establishmentID uint) {
	c.mu.Lock()
	e, ok := c.entries[establishmentID]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.entries, establishmentID)
	if !e.ready() {
		e.evicted = true
		c.mu.Unlock()
		c.logger.Infow("evicting tenant mid-provisioning", "establishment_id", establishmentID)
		return
	}
	c.mu.Unlock()

	c.logger.Infow("evicting tenant handle", "establishment_id", establishmentID)
	e.handle.closeWhenDrained(ctx)
}

// CloseAll stops the janitor, rejects further Gets and closes every cached
// handle, waiting for borrowers to drain within the context deadline.
func (c *Cache) CloseAll(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	snapshot := c.entries
	c.entries = make(map[uint]*entry)
	c.mu.Unlock()

	close(c.janitorStop)
	<-c.janitorDone

	for id, e := range snapshot {
		select {
		case <-e.done:
		case <-ctx.Done():
			continue
		}
		if e.err != nil {
			continue
		}
		e.handle.closeWhenDrained(ctx)
		c.logger.Debugw("closed tenant handle", "establishment_id", id)
	}
}

// overLimitLocked picks least-recently-used ready handles to evict so the
// cache stays within the configured bound. Caller holds c.mu.
func (c *Cache) overLimitLocked() []*Handle {
	max := c.cfg.MaxCachedHandles
	if max <= 0 {
		return nil
	}
	ready := make([]*entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.ready() {
			ready = append(ready, e)
		}
	}
	if len(ready) <= max {
		return nil
	}

	var victims []*Handle
	for len(ready) > max {
		oldest := -1
		for i, e := range ready {
			if oldest == -1 || e.handle.LastUsedAt().Before(ready[oldest].handle.LastUsedAt()) {
				oldest = i
			}
		}
		victim := ready[oldest]
		ready = append(ready[:oldest], ready[oldest+1:]...)
		delete(c.entries, victim.handle.EstablishmentID())
		victims = append(victims, victim.handle)
	}
	return victims
}

func (c *Cache) evictHandle(h *Handle) {
	c.logger.Infow("evicting least recently used tenant handle", "establishment_id", h.EstablishmentID())
	go h.closeWhenDrained(context.Background())
}

// janitor closes handles that sat unused past the idle TTL
func (c *Cache) janitor() {
	defer close(c.janitorDone)

	ttl := c.cfg.IdleTTL()
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.janitorStop:
			return
		case now := <-ticker.C:
			c.sweep(now, ttl)
		}
	}
}

func (c *Cache) sweep(now time.Time, ttl time.Duration) {
	c.mu.Lock()
	var idle []*Handle
	for id, e := range c.entries {
		if e.ready() && e.handle.idleFor(now) >= ttl {
			delete(c.entries, id)
			idle = append(idle, e.handle)
		}
	}
	c.mu.Unlock()

	for _, h := range idle {
		c.logger.Debugw("closing idle tenant handle", "establishment_id", h.EstablishmentID())
		h.closeWhenDrained(context.Background())
	}
}
