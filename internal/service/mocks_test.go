package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/fjod/watchhaven/internal/domain"
	"github.com/fjod/watchhaven/internal/payment"
	"github.com/fjod/watchhaven/internal/repository"
	"github.com/google/uuid"
)

// memStore keeps carts in memory and hands out copies, like a real session
// backend would.
type memStore struct {
	mu      sync.Mutex
	carts   map[string]*cart.Cart
	loadErr error
	saveErr error
	saves   int
	deletes int
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]*cart.Cart)}
}

func (m *memStore) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	c, ok := m.carts[sessionID]
	if !ok {
		return cart.New(), nil
	}
	return c.Clone(), nil
}

func (m *memStore) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[sessionID] = c.Clone()
	return nil
}

func (m *memStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.carts, sessionID)
	return nil
}

func (m *memStore) stored(sessionID string) *cart.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[sessionID]; ok {
		return c.Clone()
	}
	return cart.New()
}

type mockCatalog struct {
	products map[uuid.UUID]*domain.Product
}

func newMockCatalog(products ...*domain.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[uuid.UUID]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) GetProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockCatalog) FindProductsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	found := make(map[uuid.UUID]*domain.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

type mockCharger struct {
	result payment.ChargeResult
	err    error

	calls   int
	lastReq payment.ChargeRequest
}

func approvingCharger() *mockCharger {
	return &mockCharger{result: payment.ChargeResult{Status: payment.StatusCompleted, TransactionID: "TXN-test"}}
}

func (m *mockCharger) Charge(_ context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	m.calls++
	m.lastReq = req
	return m.result, m.err
}

// failingTx fails the last write of the checkout transaction.
type failingTx struct {
	repository.TxStore
}

func (failingTx) InsertOutboxEvent(context.Context, *repository.OutboxEvent) error {
	return errors.New("outbox unavailable")
}

type failingOrders struct {
	*repository.Repository
}

func (f failingOrders) InTx(ctx context.Context, fn func(tx repository.TxStore) error) error {
	return f.Repository.InTx(ctx, func(tx repository.TxStore) error {
		return fn(failingTx{tx})
	})
}

type mockOrders struct {
	order *domain.Order
	err   error
}

func (m *mockOrders) InTx(context.Context, func(tx repository.TxStore) error) error {
	return errors.New("not supported")
}

func (m *mockOrders) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.order == nil || m.order.ID != id {
		return nil, repository.ErrOrderNotFound
	}
	return m.order, nil
}
