package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/fjod/watchhaven/internal/domain"
	"github.com/fjod/watchhaven/internal/repository"
	"github.com/fjod/watchhaven/internal/session"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sid = "5f0c6a4e-8d55-4a86-9d0c-3f1c2b7a9e10"

func watch(name, price string) *domain.Product {
	return &domain.Product{
		ID:       uuid.New(),
		Name:     name,
		Slug:     domain.Slugify(name),
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
}

func TestCartService_GetCart_Empty(t *testing.T) {
	svc := NewCartService(newMemStore(), newMockCatalog())

	view, err := svc.GetCart(context.Background(), sid)

	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.ItemCount)
	assert.True(t, view.Subtotal.IsZero())
}

func TestCartService_AddItem_Accumulates(t *testing.T) {
	a := watch("Alpha", "1999.99")
	store := newMemStore()
	svc := NewCartService(store, newMockCatalog(a))
	ctx := context.Background()

	_, _, err := svc.AddItem(ctx, sid, a.ID, 1)
	require.NoError(t, err)
	product, summary, err := svc.AddItem(ctx, sid, a.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, a.ID, product.ID)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, "5999.97", domain.FormatMoney(summary.Subtotal))
	assert.Equal(t, 3, store.stored(sid).Quantity(a.ID))
	assert.Equal(t, 2, store.saves)
}

func TestCartService_AddItem_Rejections(t *testing.T) {
	inactive := watch("Retired", "100.00")
	inactive.IsActive = false

	tests := []struct {
		name      string
		productID uuid.UUID
		quantity  int
		wantErr   error
	}{
		{"unknown product", uuid.New(), 1, repository.ErrProductNotFound},
		{"inactive product", inactive.ID, 1, repository.ErrProductNotFound},
		{"zero quantity", inactive.ID, 0, cart.ErrInvalidQuantity},
		{"negative quantity", uuid.New(), -1, cart.ErrInvalidQuantity},
		{"quantity above ceiling", inactive.ID, cart.MaxQuantity + 1, cart.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := NewCartService(store, newMockCatalog(inactive))

			_, _, err := svc.AddItem(context.Background(), sid, tt.productID, tt.quantity)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, store.saves)
		})
	}
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	a := watch("Alpha", "1999.99")
	b := watch("Beta", "2499.99")
	store := newMemStore()
	svc := NewCartService(store, newMockCatalog(a, b))
	ctx := context.Background()

	_, _, err := svc.AddItem(ctx, sid, a.ID, 1)
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, sid, b.ID, 1)
	require.NoError(t, err)

	summary, err := svc.UpdateItem(ctx, sid, a.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, "6499.97", domain.FormatMoney(summary.Subtotal))

	_, err = svc.UpdateItem(ctx, sid, a.ID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	_, err = svc.UpdateItem(ctx, sid, a.ID, cart.MaxQuantity+1)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	summary, err = svc.UpdateItem(ctx, sid, uuid.New(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ItemCount)

	summary, err = svc.RemoveItem(ctx, sid, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, "3999.98", domain.FormatMoney(summary.Subtotal))
	assert.Equal(t, 1, store.stored(sid).Len())
}

func TestCartService_Clear(t *testing.T) {
	a := watch("Alpha", "10.00")
	store := newMemStore()
	svc := NewCartService(store, newMockCatalog(a))
	ctx := context.Background()
	_, _, err := svc.AddItem(ctx, sid, a.ID, 4)
	require.NoError(t, err)

	summary, err := svc.Clear(ctx, sid)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.ItemCount)
	assert.Equal(t, "0.00", domain.FormatMoney(summary.Subtotal))
	assert.Equal(t, 1, store.deletes)
	assert.Equal(t, 0, store.stored(sid).Len())
}

func TestCartService_GetCart_ResolvesItems(t *testing.T) {
	a := watch("Alpha", "1999.99")
	b := watch("Beta", "2499.99")
	gone := watch("Gone", "5.00")
	store := newMemStore()
	c := cart.New()
	require.NoError(t, c.Add(a, 2))
	require.NoError(t, c.Add(b, 1))
	require.NoError(t, c.Add(gone, 1))
	require.NoError(t, store.Save(context.Background(), sid, c))
	svc := NewCartService(store, newMockCatalog(a, b))

	view, err := svc.GetCart(context.Background(), sid)

	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Alpha", view.Items[0].Product.Name)
	assert.Equal(t, "3999.98", domain.FormatMoney(view.Items[0].LineTotal()))
	// subtotal and count still reflect every stored entry
	assert.Equal(t, "6504.97", domain.FormatMoney(view.Subtotal))
	assert.Equal(t, 4, view.ItemCount)
}

func TestCartService_CorruptSessionIsEmptyCart(t *testing.T) {
	store := newMemStore()
	store.loadErr = session.ErrCorruptSession
	svc := NewCartService(store, newMockCatalog())

	view, err := svc.GetCart(context.Background(), sid)

	require.NoError(t, err)
	assert.Equal(t, 0, view.ItemCount)
}

func TestCartService_StoreErrors(t *testing.T) {
	a := watch("Alpha", "10.00")
	ctx := context.Background()

	store := newMemStore()
	store.loadErr = errors.New("redis down")
	svc := NewCartService(store, newMockCatalog(a))
	_, err := svc.GetCart(ctx, sid)
	assert.ErrorContains(t, err, "load cart")

	store = newMemStore()
	store.saveErr = errors.New("redis down")
	svc = NewCartService(store, newMockCatalog(a))
	_, _, err = svc.AddItem(ctx, sid, a.ID, 1)
	assert.ErrorContains(t, err, "save cart")
}
