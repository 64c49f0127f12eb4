// Package tenantdb routes database access for a multi-tenant deployment:
// one shared registry database plus one dedicated database per establishment.
// It provisions tenant databases on demand, caches live handles under
// concurrent load, and guarantees exactly-once seeding per tenant.
package tenantdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// HandleState describes the lifecycle state of a tenant handle
type HandleState int32

const (
	StateInitializing HandleState = iota
	StateReady
	StateBroken
)

// Handle wraps a live connection pool bound to one establishment's dedicated
// database. It is owned exclusively by the connection cache; business code
// borrows it and must call Release when done, never close it directly.
type Handle struct {
	establishmentID uint
	db              *gorm.DB
	createdAt       time.Time

	mu         sync.Mutex
	borrows    int
	lastUsedAt time.Time
	closing    bool
	drained    chan struct{} // closed once closing is set and borrows hits zero
}

// NewHandle wraps an open tenant connection. Provisioner implementations
// return handles built with this.
func NewHandle(establishmentID uint, db *gorm.DB) *Handle {
	now := time.Now()
	return &Handle{
		establishmentID: establishmentID,
		db:              db,
		createdAt:       now,
		lastUsedAt:      now,
		drained:         make(chan struct{}),
	}
}

// EstablishmentID returns the establishment this handle is bound to
func (h *Handle) EstablishmentID() uint {
	return h.establishmentID
}

// DB returns the underlying gorm handle for the tenant database
func (h *Handle) DB() *gorm.DB {
	h.mu.Lock()
	h.lastUsedAt = time.Now()
	h.mu.Unlock()
	return h.db
}

// CreatedAt returns when the handle was provisioned
func (h *Handle) CreatedAt() time.Time {
	return h.createdAt
}

// LastUsedAt returns the last borrow or query time
func (h *Handle) LastUsedAt() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastUsedAt
}

// State reports the handle lifecycle state
func (h *Handle) State() HandleState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return StateBroken
	}
	return StateReady
}

// borrow marks the handle as in use. Fails once the handle is draining.
func (h *Handle) borrow() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return fmt.Errorf("tenant handle for establishment %d is closing", h.establishmentID)
	}
	h.borrows++
	h.lastUsedAt = time.Now()
	return nil
}

// Release returns a borrowed handle. Every successful borrow must be paired
// with exactly one Release.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.borrows == 0 {
		return
	}
	h.borrows--
	h.lastUsedAt = time.Now()
	if h.borrows == 0 && h.closing {
		close(h.drained)
	}
}

// idleFor reports how long the handle has been unborrowed. A handle with
// active borrows is never idle.
func (h *Handle) idleFor(now time.Time) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.borrows > 0 {
		return 0
	}
	return now.Sub(h.lastUsedAt)
}

// closeWhenDrained stops new borrows, waits for in-flight borrows to drain,
// then closes the underlying pool. Safe to call once per handle.
func (h *Handle) closeWhenDrained(ctx context.Context) error {
	h.mu.Lock()
	if h.closing {
		h.mu.Unlock()
		return nil
	}
	h.closing = true
	if h.borrows == 0 {
		close(h.drained)
	}
	h.mu.Unlock()

	select {
	case <-h.drained:
	case <-ctx.Done():
		// Bounded wait only; the pool is closed regardless so shutdown can
		// finish. In-flight queries fail with a closed-connection error.
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close tenant pool: %w", err)
	}
	return nil
}
