package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu      sync.Mutex
	carts   map[string]*cart.Cart
	loads   atomic.Int32
	loadErr error
	saveErr error
	delay   time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{carts: map[string]*cart.Cart{}}
}

func (m *mockStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	m.loads.Add(1)
	time.Sleep(m.delay)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[sessionID]; ok {
		return c.Clone(), nil
	}
	return cart.New(), nil
}

func (m *mockStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = c.Clone()
	return nil
}

func (m *mockStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type mockCache struct {
	mu      sync.Mutex
	carts   map[string]*cart.Cart
	getErr  error
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{carts: map[string]*cart.Cart{}}
}

func (m *mockCache) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.carts[sessionID]; ok {
		return c.Clone(), nil
	}
	return nil, ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, sessionID string, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = c.Clone()
	return nil
}

func (m *mockCache) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.carts, sessionID)
	return nil
}

func TestCachedStore_MissPopulatesCache(t *testing.T) {
	primary, cache := newMockStore(), newMockCache()
	primary.carts["sid"] = sampleCart(t)
	store := NewCachedStore(primary, cache)
	ctx := context.Background()

	first, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	second, err := store.Load(ctx, "sid")
	require.NoError(t, err)

	assert.Equal(t, int32(1), primary.loads.Load())
	assert.Equal(t, first.ProductIDs(), second.ProductIDs())
	assert.Contains(t, cache.carts, "sid")
}

func TestCachedStore_CacheErrorFallsBackToPrimary(t *testing.T) {
	primary, cache := newMockStore(), newMockCache()
	primary.carts["sid"] = sampleCart(t)
	cache.getErr = ErrCorruptSession
	store := NewCachedStore(primary, cache)

	c, err := store.Load(context.Background(), "sid")

	require.NoError(t, err)
	assert.Equal(t, 3, c.ItemCount())
}

func TestCachedStore_PrimaryError(t *testing.T) {
	primary, cache := newMockStore(), newMockCache()
	primary.loadErr = errors.New("mongo down")
	store := NewCachedStore(primary, cache)

	_, err := store.Load(context.Background(), "sid")

	assert.Error(t, err)
	assert.Empty(t, cache.carts)
}

func TestCachedStore_SaveInvalidates(t *testing.T) {
	primary, cache := newMockStore(), newMockCache()
	store := NewCachedStore(primary, cache)
	ctx := context.Background()
	_, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	require.Contains(t, cache.carts, "sid")

	require.NoError(t, store.Save(ctx, "sid", sampleCart(t)))

	assert.NotContains(t, cache.carts, "sid")
	loaded, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.ItemCount())
}

func TestCachedStore_SaveErrorKeepsCache(t *testing.T) {
	primary, cache := newMockStore(), newMockCache()
	primary.saveErr = errors.New("write failed")
	store := NewCachedStore(primary, cache)

	err := store.Save(context.Background(), "sid", cart.New())

	assert.Error(t, err)
	assert.Equal(t, 0, cache.deletes)
}

func TestCachedStore_Delete(t *testing.T) {
	primary, cache := newMockStore(), newMockCache()
	primary.carts["sid"] = sampleCart(t)
	cache.carts["sid"] = sampleCart(t)
	store := NewCachedStore(primary, cache)

	require.NoError(t, store.Delete(context.Background(), "sid"))

	assert.NotContains(t, primary.carts, "sid")
	assert.NotContains(t, cache.carts, "sid")
}

func TestCachedStore_ConcurrentMissesShareOneLoad(t *testing.T) {
	primary, cache := newMockStore(), newMockCache()
	primary.carts["sid"] = sampleCart(t)
	primary.delay = 50 * time.Millisecond
	store := NewCachedStore(primary, cache)

	var wg sync.WaitGroup
	results := make([]*cart.Cart, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := store.Load(context.Background(), "sid")
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}
	wg.Wait()

	assert.Less(t, primary.loads.Load(), int32(10))
	// each caller gets its own copy
	results[0].Clear()
	assert.Equal(t, 3, results[1].ItemCount())
}
