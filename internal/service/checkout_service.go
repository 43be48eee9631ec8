package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/fjod/watchhaven/internal/domain"
	"github.com/fjod/watchhaven/internal/logger"
	"github.com/fjod/watchhaven/internal/payment"
	"github.com/fjod/watchhaven/internal/repository"
	"github.com/fjod/watchhaven/internal/session"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const paymentTimeout = 10 * time.Second

type CheckoutInput struct {
	Customer domain.Customer
	Shipping domain.ShippingAddress
	Notes    string
	Card     payment.Card
}

// Validate repeats the required field checks of the HTTP layer.
func (in CheckoutInput) Validate() error {
	fields := make(map[string]string)
	required := []struct {
		name  string
		value string
	}{
		{"customer_email", in.Customer.Email},
		{"customer_first_name", in.Customer.FirstName},
		{"customer_last_name", in.Customer.LastName},
		{"shipping_address_line1", in.Shipping.Line1},
		{"shipping_city", in.Shipping.City},
		{"shipping_state", in.Shipping.State},
		{"shipping_postal_code", in.Shipping.PostalCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			fields[f.name] = "This field is required."
		}
	}
	if !payment.ValidNumber(in.Card.Number) {
		fields["card_number"] = "Enter a valid card number."
	}
	if !payment.ValidExpiry(in.Card.Expiry) {
		fields["card_expiry"] = "Enter the expiry as MM/YY or MM/YYYY."
	}
	if !payment.ValidCVC(in.Card.CVC) {
		fields["card_cvc"] = "Enter a 3 or 4 digit CVC."
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// OrderConfirmed is the outbox payload written with every confirmed order.
type OrderConfirmed struct {
	OrderID       uuid.UUID `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	ItemCount     int       `json:"item_count"`
	Total         string    `json:"total"`
	TransactionID string    `json:"transaction_id"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

type CheckoutService struct {
	carts        session.Store
	catalog      Catalog
	orders       OrderStore
	charger      payment.Charger
	shippingCost decimal.Decimal
}

func NewCheckoutService(
	carts session.Store,
	catalog Catalog,
	orders OrderStore,
	charger payment.Charger,
	shippingCost decimal.Decimal) *CheckoutService {

	return &CheckoutService{
		carts:        carts,
		catalog:      catalog,
		orders:       orders,
		charger:      charger,
		shippingCost: shippingCost,
	}
}

// Checkout turns the session cart into a confirmed order. Nothing is written
// unless the charge succeeds, and the cart is only emptied after the order
// transaction commits.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, in CheckoutInput) (*domain.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	c, err := loadCart(ctx, s.carts, sessionID)
	if err != nil {
		return nil, err
	}
	if c.ItemCount() == 0 {
		return nil, ErrEmptyCart
	}
	items, err := c.Items(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := s.buildOrder(in, items)
	order.CalculateTotals()

	charge, err := s.charge(ctx, order, in.Card)
	if err != nil {
		return nil, err
	}

	err = s.orders.InTx(ctx, func(tx repository.TxStore) error {
		return persistOrder(ctx, tx, order, charge)
	})
	if err != nil {
		log.Error("order transaction failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	c.Clear()
	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		log.Error("failed to clear cart after checkout",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	log.Info("order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("total", domain.FormatMoney(order.Total)),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

func (s *CheckoutService) buildOrder(in CheckoutInput, items []cart.Item) *domain.Order {
	shipping := in.Shipping
	if strings.TrimSpace(shipping.Country) == "" {
		shipping.Country = domain.DefaultShippingCountry
	}

	order := &domain.Order{
		ID:            uuid.New(),
		Customer:      in.Customer,
		Shipping:      shipping,
		ShippingCost:  s.shippingCost,
		PaymentStatus: domain.PaymentStatusPending,
		OrderStatus:   domain.OrderStatusPending,
		Notes:         in.Notes,
		Items:         make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    item.Product.ID,
			ProductName:  item.Product.Name,
			ProductPrice: item.UnitPrice,
			Quantity:     item.Quantity,
		})
	}
	return order
}

func (s *CheckoutService) charge(ctx context.Context, order *domain.Order, card payment.Card) (payment.ChargeResult, error) {
	paymentCtx, cancel := context.WithTimeout(ctx, paymentTimeout)
	defer cancel()

	res, err := s.charger.Charge(paymentCtx, payment.ChargeRequest{
		Reference: order.ID.String(),
		Email:     order.Customer.Email,
		Amount:    order.Total,
		Card:      card,
	})
	if err != nil {
		if errors.Is(err, payment.ErrInvalidCard) {
			return payment.ChargeResult{}, err
		}
		return payment.ChargeResult{}, fmt.Errorf("charge order %s: %w", order.ID, err)
	}
	if !res.Approved() {
		logger.FromContext(ctx).Warn("payment declined",
			zap.String("order_id", order.ID.String()),
			zap.String("reason", string(res.Refusal)),
		)
		return payment.ChargeResult{}, fmt.Errorf("%w: %s", ErrPaymentDeclined, res.Refusal)
	}
	return res, nil
}

func persistOrder(ctx context.Context, tx repository.TxStore, order *domain.Order, charge payment.ChargeResult) error {
	if err := tx.CreateOrder(ctx, order); err != nil {
		return err
	}
	if err := tx.InsertOrderItems(ctx, order); err != nil {
		return err
	}

	order.CalculateTotals()
	order.PaymentStatus = domain.PaymentStatusCompleted
	order.OrderStatus = domain.OrderStatusConfirmed
	if err := tx.UpdateOrder(ctx, order); err != nil {
		return err
	}

	payload, err := json.Marshal(OrderConfirmed{
		OrderID:       order.ID,
		CustomerEmail: order.Customer.Email,
		ItemCount:     len(order.Items),
		Total:         domain.FormatMoney(order.Total),
		TransactionID: charge.TransactionID,
		ConfirmedAt:   order.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	return tx.InsertOutboxEvent(ctx, &repository.OutboxEvent{
		AggregateID: order.ID,
		EventType:   repository.EventOrderConfirmed,
		Payload:     payload,
	})
}
