package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFinder struct {
	products map[uuid.UUID]*domain.Product
	err      error
	calls    int
}

func (m *mockFinder) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uuid.UUID]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func watch(name, price string) *domain.Product {
	return &domain.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
}

func TestAdd_Accumulates(t *testing.T) {
	c := New()
	p := watch("Omega Speedmaster", "6500.00")

	require.NoError(t, c.Add(p, 1))
	require.NoError(t, c.Add(p, 2))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.Quantity(p.ID))
	assert.Equal(t, 3, c.ItemCount())
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	p := watch("Casio F-91W", "19.99")

	assert.ErrorIs(t, c.Add(p, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(p, -2), ErrInvalidQuantity)
	assert.Equal(t, 0, c.Len())
}

func TestAdd_QuantityCeiling(t *testing.T) {
	c := New()
	p := watch("Casio F-91W", "18.95")

	assert.ErrorIs(t, c.Add(p, MaxQuantity+1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(p, math.MaxInt), ErrInvalidQuantity)
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Add(p, MaxQuantity-1))
	require.NoError(t, c.Add(p, 1))
	assert.Equal(t, MaxQuantity, c.ItemCount())

	assert.ErrorIs(t, c.Add(p, 1), ErrInvalidQuantity)
	assert.Equal(t, MaxQuantity, c.Quantity(p.ID))
	assert.True(t, c.Subtotal().IsPositive())
}

func TestUpdate_QuantityCeiling(t *testing.T) {
	c := New()
	p := watch("Casio F-91W", "18.95")
	require.NoError(t, c.Add(p, 2))

	assert.ErrorIs(t, c.Update(p.ID, MaxQuantity+1), ErrInvalidQuantity)
	assert.Equal(t, 2, c.Quantity(p.ID))

	require.NoError(t, c.Update(p.ID, MaxQuantity))
	assert.Equal(t, MaxQuantity, c.ItemCount())
}

func TestAdd_KeepsCapturedPrice(t *testing.T) {
	c := New()
	p := watch("Tudor Black Bay", "3900.00")
	require.NoError(t, c.Add(p, 1))

	p.Price = decimal.RequireFromString("4200.00")
	require.NoError(t, c.Add(p, 1))

	assert.Equal(t, "7800.00", domain.FormatMoney(c.Subtotal()))
}

func TestUpdate(t *testing.T) {
	c := New()
	p := watch("Seiko 5", "295.00")
	require.NoError(t, c.Add(p, 1))

	require.NoError(t, c.Update(p.ID, 4))
	assert.Equal(t, 4, c.Quantity(p.ID))

	require.NoError(t, c.Update(p.ID, 0))
	assert.Equal(t, 0, c.Len())
}

func TestUpdate_NegativeRemoves(t *testing.T) {
	c := New()
	p := watch("Seiko 5", "295.00")
	require.NoError(t, c.Add(p, 2))

	require.NoError(t, c.Update(p.ID, -1))

	assert.Equal(t, 0, c.Len())
}

func TestUpdate_MissingEntryIsNoop(t *testing.T) {
	c := New()
	p := watch("Seiko 5", "295.00")
	require.NoError(t, c.Add(p, 1))

	require.NoError(t, c.Update(uuid.New(), 7))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.ItemCount())
}

func TestRemove(t *testing.T) {
	c := New()
	a := watch("A", "10.00")
	b := watch("B", "20.00")
	require.NoError(t, c.Add(a, 1))
	require.NoError(t, c.Add(b, 1))

	c.Remove(uuid.New())
	assert.Equal(t, 2, c.Len())

	c.Remove(a.ID)
	assert.Equal(t, []uuid.UUID{b.ID}, c.ProductIDs())
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(watch("A", "10.00"), 3))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Subtotal().IsZero())
}

func TestSubtotal_TwoWatches(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(watch("A", "1999.99"), 2))
	require.NoError(t, c.Add(watch("B", "2499.99"), 1))

	assert.Equal(t, "6499.97", domain.FormatMoney(c.Subtotal()))
	assert.Equal(t, 3, c.ItemCount())
}

func TestItems_DropsUnresolvableProducts(t *testing.T) {
	kept := watch("Rolex Submariner Date", "14500.00")
	gone := watch("Discontinued", "100.00")

	c := New()
	require.NoError(t, c.Add(kept, 1))
	require.NoError(t, c.Add(gone, 2))

	finder := &mockFinder{products: map[uuid.UUID]*domain.Product{kept.ID: kept}}
	items, err := c.Items(context.Background(), finder)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].Product.ID)
	assert.Equal(t, "14500.00", domain.FormatMoney(items[0].LineTotal()))
	// the dropped entry still counts towards the stored subtotal
	assert.Equal(t, 2, c.Len())
}

func TestItems_UsesCartPriceNotCatalogPrice(t *testing.T) {
	p := watch("Nautilus", "35000.00")
	c := New()
	require.NoError(t, c.Add(p, 1))

	live := *p
	live.Price = decimal.RequireFromString("36000.00")
	finder := &mockFinder{products: map[uuid.UUID]*domain.Product{p.ID: &live}}

	items, err := c.Items(context.Background(), finder)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "35000.00", domain.FormatMoney(items[0].UnitPrice))
}

func TestItems_EmptyCartSkipsLookup(t *testing.T) {
	finder := &mockFinder{}

	items, err := New().Items(context.Background(), finder)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, finder.calls)
}

func TestItems_FinderError(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(watch("A", "1.00"), 1))
	finder := &mockFinder{err: errors.New("db down")}

	_, err := c.Items(context.Background(), finder)

	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	valid := uuid.New()
	c := &Cart{Entries: []Entry{
		{ProductID: valid, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: uuid.Nil, Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: uuid.New(), Quantity: 0, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("-1.00")},
		{ProductID: valid, Quantity: 5, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: uuid.New(), Quantity: MaxQuantity + 1, UnitPrice: decimal.RequireFromString("10.00")},
	}}

	dropped := c.Normalize()

	assert.Equal(t, 5, dropped)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Quantity(valid))
}

func TestNormalize_NilEntries(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0, c.Normalize())
	assert.NotNil(t, c.Entries)
}
