package service

import (
	"context"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/google/uuid"
)

type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// GetOrder returns the order with its items in insertion order, or
// repository.ErrOrderNotFound.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrderByID(ctx, id)
}
