package service

import (
	"context"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/fjod/watchhaven/internal/domain"
	"github.com/fjod/watchhaven/internal/repository"
	"github.com/google/uuid"
)

// Catalog is the read side of the product store used by cart and checkout.
type Catalog interface {
	cart.ProductFinder
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type OrderStore interface {
	InTx(ctx context.Context, fn func(tx repository.TxStore) error) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}
