package tenantdb

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"academos/internal/domain/establishment"
	"academos/internal/shared/config"
	"academos/internal/shared/logger"
)

// stubProvisioner counts attempts and hands out in-memory sqlite handles.
type stubProvisioner struct {
	mu       sync.Mutex
	calls    map[uint]int
	failNext map[uint]error
	block    chan struct{}
}

func newStubProvisioner() *stubProvisioner {
	return &stubProvisioner{
		calls:    make(map[uint]int),
		failNext: make(map[uint]error),
	}
}

func (s *stubProvisioner) Provision(ctx context.Context, establishmentID uint) (*Handle, error) {
	s.mu.Lock()
	s.calls[establishmentID]++
	block := s.block
	err := s.failNext[establishmentID]
	delete(s.failNext, establishmentID)
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, establishment.NewProvisioningFailedError(establishmentID, ctx.Err())
		}
	}
	if err != nil {
		return nil, err
	}

	db, openErr := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if openErr != nil {
		return nil, openErr
	}
	return NewHandle(establishmentID, db), nil
}

func (s *stubProvisioner) callCount(establishmentID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[establishmentID]
}

func newTestCache(t *testing.T, p Provisioner, cfg *config.TenantConfig) *Cache {
	t.Helper()
	if cfg == nil {
		cfg = &config.TenantConfig{ProvisionTimeoutSeconds: 10}
	}
	c := NewCache(p, cfg, logger.NewLogger())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.CloseAll(ctx)
	})
	return c
}

func TestCacheGet(t *testing.T) {
	t.Run("provisions exactly once under concurrent first access", func(t *testing.T) {
		stub := newStubProvisioner()
		cache := newTestCache(t, stub, nil)

		const goroutines = 50
		var wg sync.WaitGroup
		var failures int32
		handles := make([]*Handle, goroutines)
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				h, err := cache.Get(context.Background(), 7)
				if err != nil {
					atomic.AddInt32(&failures, 1)
					return
				}
				handles[i] = h
			}(i)
		}
		wg.Wait()

		assert.Zero(t, failures)
		assert.Equal(t, 1, stub.callCount(7))
		for i := 1; i < goroutines; i++ {
			assert.Same(t, handles[0], handles[i])
		}
		for _, h := range handles {
			h.Release()
		}
	})

	t.Run("returns cached handle on repeat access", func(t *testing.T) {
		stub := newStubProvisioner()
		cache := newTestCache(t, stub, nil)

		h1, err := cache.Get(context.Background(), 3)
		require.NoError(t, err)
		h1.Release()

		h2, err := cache.Get(context.Background(), 3)
		require.NoError(t, err)
		h2.Release()

		assert.Same(t, h1, h2)
		assert.Equal(t, 1, stub.callCount(3))
	})

	t.Run("keeps handles isolated per establishment", func(t *testing.T) {
		stub := newStubProvisioner()
		cache := newTestCache(t, stub, nil)

		hA, err := cache.Get(context.Background(), 1)
		require.NoError(t, err)
		defer hA.Release()
		hB, err := cache.Get(context.Background(), 2)
		require.NoError(t, err)
		defer hB.Release()

		assert.NotSame(t, hA, hB)
		assert.NotSame(t, hA.DB(), hB.DB())
		assert.Equal(t, uint(1), hA.EstablishmentID())
		assert.Equal(t, uint(2), hB.EstablishmentID())
	})

	t.Run("does not cache a failed attempt", func(t *testing.T) {
		stub := newStubProvisioner()
		cache := newTestCache(t, stub, nil)

		wantErr := establishment.NewProvisioningFailedError(9, errors.New("connection refused"))
		stub.mu.Lock()
		stub.failNext[9] = wantErr
		stub.mu.Unlock()

		_, err := cache.Get(context.Background(), 9)
		require.Error(t, err)
		assert.True(t, establishment.IsProvisioningFailed(err))

		h, err := cache.Get(context.Background(), 9)
		require.NoError(t, err)
		h.Release()
		assert.Equal(t, 2, stub.callCount(9))
	})

	t.Run("waiter timeout does not abort provisioning", func(t *testing.T) {
		stub := newStubProvisioner()
		stub.block = make(chan struct{})
		cache := newTestCache(t, stub, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := cache.Get(ctx, 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		// Unblock the in-flight attempt; a later caller gets its result
		// without a second provisioning run.
		close(stub.block)
		h, err := cache.Get(context.Background(), 5)
		require.NoError(t, err)
		h.Release()
		assert.Equal(t, 1, stub.callCount(5))
	})

	t.Run("fails with shutting down after CloseAll", func(t *testing.T) {
		stub := newStubProvisioner()
		cache := newTestCache(t, stub, nil)

		h, err := cache.Get(context.Background(), 4)
		require.NoError(t, err)
		h.Release()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		cache.CloseAll(ctx)

		_, err = cache.Get(context.Background(), 4)
		require.Error(t, err)
		assert.True(t, establishment.IsShuttingDown(err))
	})
}

func TestCacheEvict(t *testing.T) {
	t.Run("removes the handle and provisions fresh on next access", func(t *testing.T) {
		stub := newStubProvisioner()
		cache := newTestCache(t, stub, nil)

		h1, err := cache.Get(context.Background(), 11)
		require.NoError(t, err)
		h1.Release()

		cache.Evict(context.Background(), 11)
		assert.Empty(t, cache.ListActive())

		h2, err := cache.Get(context.Background(), 11)
		require.NoError(t, err)
		h2.Release()
		assert.NotSame(t, h1, h2)
		assert.Equal(t, 2, stub.callCount(11))
	})

	t.Run("waits for borrowers before closing", func(t *testing.T) {
		stub := newStubProvisioner()
		cache := newTestCache(t, stub, nil)

		h, err := cache.Get(context.Background(), 12)
		require.NoError(t, err)

		evicted := make(chan struct{})
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			cache.Evict(ctx, 12)
			close(evicted)
		}()

		// Eviction must not complete while the handle is still borrowed.
		select {
		case <-evicted:
			t.Fatal("eviction completed while handle was borrowed")
		case <-time.After(100 * time.Millisecond):
		}

		h.Release()
		select {
		case <-evicted:
		case <-time.After(5 * time.Second):
			t.Fatal("eviction did not complete after release")
		}
	})

	t.Run("discards a handle still being provisioned", func(t *testing.T) {
		stub := newStubProvisioner()
		stub.block = make(chan struct{})
		cache := newTestCache(t, stub, nil)

		got := make(chan error, 1)
		go func() {
			_, err := cache.Get(context.Background(), 13)
			got <- err
		}()

		require.Eventually(t, func() bool { return stub.callCount(13) == 1 },
			time.Second, 5*time.Millisecond)

		// Deactivation evicts while the first attempt is still running. The
		// attempt must not leave a routable handle behind once it finishes.
		cache.Evict(context.Background(), 13)
		close(stub.block)

		err := <-got
		require.Error(t, err)
		assert.True(t, establishment.IsInactiveTenant(err))
		assert.Empty(t, cache.ListActive())

		h, err := cache.Get(context.Background(), 13)
		require.NoError(t, err)
		h.Release()
		assert.Equal(t, 2, stub.callCount(13))
	})

	t.Run("ignores unknown establishments", func(t *testing.T) {
		stub := newStubProvisioner()
		cache := newTestCache(t, stub, nil)
		cache.Evict(context.Background(), 999)
	})
}

func TestCacheBounds(t *testing.T) {
	t.Run("evicts least recently used handle over the limit", func(t *testing.T) {
		stub := newStubProvisioner()
		cfg := &config.TenantConfig{ProvisionTimeoutSeconds: 10, MaxCachedHandles: 2}
		cache := newTestCache(t, stub, cfg)

		for _, id := range []uint{1, 2} {
			h, err := cache.Get(context.Background(), id)
			require.NoError(t, err)
			h.Release()
			time.Sleep(5 * time.Millisecond)
		}

		h3, err := cache.Get(context.Background(), 3)
		require.NoError(t, err)
		h3.Release()

		active := cache.ListActive()
		assert.Len(t, active, 2)
		assert.NotContains(t, active, uint(1))
		assert.Contains(t, active, uint(3))
	})
}

func TestCacheListActive(t *testing.T) {
	stub := newStubProvisioner()
	cache := newTestCache(t, stub, nil)

	assert.Empty(t, cache.ListActive())

	h, err := cache.Get(context.Background(), 21)
	require.NoError(t, err)
	h.Release()

	assert.Equal(t, []uint{21}, cache.ListActive())
}
