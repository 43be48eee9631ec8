package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultShippingCountry = "United States"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type Customer struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type ShippingAddress struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Format joins the non-empty address lines with newlines.
func (a ShippingAddress) Format() string {
	lines := []string{
		a.Line1,
		a.Line2,
		fmt.Sprintf("%s, %s %s", a.City, a.State, a.PostalCode),
		a.Country,
	}
	kept := lines[:0]
	for _, l := range lines {
		if l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

type Order struct {
	ID            uuid.UUID
	Customer      Customer
	Shipping      ShippingAddress
	Subtotal      decimal.Decimal
	ShippingCost  decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentStatus PaymentStatus
	OrderStatus   OrderStatus
	Notes         string
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem snapshots product name and price at checkout time.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
	CreatedAt    time.Time
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.ProductPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o *Order) CustomerFullName() string {
	return o.Customer.FirstName + " " + o.Customer.LastName
}

// CalculateTotals recomputes subtotal, tax and total from the current items.
// Calling it again with unchanged items yields the same values.
func (o *Order) CalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.Subtotal = subtotal
	o.Tax = RoundCents(subtotal.Mul(TaxRate))
	o.Total = o.Subtotal.Add(o.ShippingCost).Add(o.Tax)
}
