package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/fjod/watchhaven/internal/domain"
	"github.com/fjod/watchhaven/internal/logger"
	"github.com/fjod/watchhaven/internal/session"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Summary is what cart mutations report back.
type Summary struct {
	ItemCount int
	Subtotal  decimal.Decimal
}

func summarize(c *cart.Cart) Summary {
	return Summary{ItemCount: c.ItemCount(), Subtotal: c.Subtotal()}
}

type CartView struct {
	Items     []cart.Item
	Subtotal  decimal.Decimal
	ItemCount int
}

type CartService struct {
	store   session.Store
	catalog Catalog
}

func NewCartService(store session.Store, catalog Catalog) *CartService {
	return &CartService{store: store, catalog: catalog}
}

// load never fails on unreadable session data; the visitor just gets a fresh cart.
func (s *CartService) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return loadCart(ctx, s.store, sessionID)
}

func loadCart(ctx context.Context, store session.Store, sessionID string) (*cart.Cart, error) {
	c, err := store.Load(ctx, sessionID)
	if errors.Is(err, session.ErrCorruptSession) {
		logger.FromContext(ctx).Warn("discarding unreadable cart", zap.Error(err))
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

func (s *CartService) save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items, err := c.Items(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	return &CartView{
		Items:     items,
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
	}, nil
}

// AddItem puts quantity units of an active product into the cart. Inactive
// and unknown products both report repository.ErrProductNotFound.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*domain.Product, Summary, error) {
	if quantity < 1 || quantity > cart.MaxQuantity {
		return nil, Summary{}, cart.ErrInvalidQuantity
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, Summary{}, err
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, Summary{}, err
	}
	if err := c.Add(product, quantity); err != nil {
		return nil, Summary{}, err
	}
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, Summary{}, err
	}

	logger.FromContext(ctx).Info("cart item added",
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity),
		zap.Int("item_count", c.ItemCount()),
	)
	return product, summarize(c), nil
}

// UpdateItem sets the quantity of a product already in the cart. Products not
// in the cart are left out silently.
func (s *CartService) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (Summary, error) {
	if quantity < 1 || quantity > cart.MaxQuantity {
		return Summary{}, cart.ErrInvalidQuantity
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	if err := c.Update(productID, quantity); err != nil {
		return Summary{}, err
	}
	if err := s.save(ctx, sessionID, c); err != nil {
		return Summary{}, err
	}
	return summarize(c), nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (Summary, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	c.Remove(productID)
	if err := s.save(ctx, sessionID, c); err != nil {
		return Summary{}, err
	}
	return summarize(c), nil
}

// Clear drops the stored cart entirely.
func (s *CartService) Clear(ctx context.Context, sessionID string) (Summary, error) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return Summary{}, fmt.Errorf("clear cart: %w", err)
	}
	return summarize(cart.New()), nil
}
