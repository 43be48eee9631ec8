package http

import (
	"context"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/fjod/watchhaven/internal/service"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*service.CartView, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*domain.Product, service.Summary, error)
	UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (service.Summary, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (service.Summary, error)
	Clear(ctx context.Context, sessionID string) (service.Summary, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, in service.CheckoutInput) (*domain.Order, error)
}

type OrderService interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type Catalog interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
}
