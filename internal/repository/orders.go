package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/google/uuid"
)

// TxStore is the set of writes checkout performs inside one transaction.
type TxStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	InsertOrderItems(ctx context.Context, order *domain.Order) error
	UpdateOrder(ctx context.Context, order *domain.Order) error
	InsertOutboxEvent(ctx context.Context, event *OutboxEvent) error
}

// CreateOrder inserts the order row only. Items go through InsertOrderItems.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	query := `INSERT INTO orders (
	              id, email, first_name, last_name, phone,
	              shipping_address_line1, shipping_address_line2, shipping_city, shipping_state,
	              shipping_postal_code, shipping_country,
	              subtotal, shipping_cost, tax, total, payment_status, order_status, notes,
	              created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.Customer.Email,
		order.Customer.FirstName,
		order.Customer.LastName,
		order.Customer.Phone,
		order.Shipping.Line1,
		order.Shipping.Line2,
		order.Shipping.City,
		order.Shipping.State,
		order.Shipping.PostalCode,
		order.Shipping.Country,
		domain.RoundCents(order.Subtotal),
		domain.RoundCents(order.ShippingCost),
		domain.RoundCents(order.Tax),
		domain.RoundCents(order.Total),
		order.PaymentStatus,
		order.OrderStatus,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertOrderItems persists order.Items in slice order, assigning ids and
// the order id.
func (r *Repository) InsertOrderItems(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO order_items (id, order_id, product_id, line_no, product_name, product_price, quantity, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now().UTC()
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		item.CreatedAt = now

		_, err := r.q.ExecContext(ctx, query,
			item.ID,
			item.OrderID,
			item.ProductID,
			i+1,
			item.ProductName,
			item.ProductPrice,
			item.Quantity,
			item.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("order item %s: %w", item.ProductID, ErrProductNotFound)
			}
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// UpdateOrder writes back totals and statuses.
func (r *Repository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now().UTC()

	query := `UPDATE orders
	          SET subtotal = $1, shipping_cost = $2, tax = $3, total = $4,
	              payment_status = $5, order_status = $6, updated_at = $7
	          WHERE id = $8`

	res, err := r.q.ExecContext(ctx, query,
		domain.RoundCents(order.Subtotal),
		domain.RoundCents(order.ShippingCost),
		domain.RoundCents(order.Tax),
		domain.RoundCents(order.Total),
		order.PaymentStatus,
		order.OrderStatus,
		order.UpdatedAt,
		order.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, email, first_name, last_name, phone,
	                 shipping_address_line1, shipping_address_line2, shipping_city, shipping_state,
	                 shipping_postal_code, shipping_country,
	                 subtotal, shipping_cost, tax, total, payment_status, order_status, notes,
	                 created_at, updated_at
	          FROM orders WHERE id = $1`

	var order domain.Order
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Customer.Email,
		&order.Customer.FirstName,
		&order.Customer.LastName,
		&order.Customer.Phone,
		&order.Shipping.Line1,
		&order.Shipping.Line2,
		&order.Shipping.City,
		&order.Shipping.State,
		&order.Shipping.PostalCode,
		&order.Shipping.Country,
		&order.Subtotal,
		&order.ShippingCost,
		&order.Tax,
		&order.Total,
		&order.PaymentStatus,
		&order.OrderStatus,
		&order.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	items, err := r.orderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *Repository) orderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, product_price, quantity, created_at
	          FROM order_items WHERE order_id = $1
	          ORDER BY created_at, line_no`

	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductPrice,
			&item.Quantity,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// CountOrders reports the number of persisted orders.
func (r *Repository) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
