package http

import (
	"time"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/fjod/watchhaven/internal/domain"
	"github.com/fjod/watchhaven/internal/payment"
	"github.com/fjod/watchhaven/internal/service"
)

type AddItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1,max=2147483647"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity" validate:"required,min=1,max=2147483647"`
}

type CheckoutRequestDTO struct {
	CustomerEmail     string `json:"customer_email" validate:"required,email,max=254"`
	CustomerFirstName string `json:"customer_first_name" validate:"required,max=100"`
	CustomerLastName  string `json:"customer_last_name" validate:"required,max=100"`
	CustomerPhone     string `json:"customer_phone" validate:"max=20"`

	ShippingAddressLine1 string `json:"shipping_address_line1" validate:"required,max=200"`
	ShippingAddressLine2 string `json:"shipping_address_line2" validate:"max=200"`
	ShippingCity         string `json:"shipping_city" validate:"required,max=100"`
	ShippingState        string `json:"shipping_state" validate:"required,max=100"`
	ShippingPostalCode   string `json:"shipping_postal_code" validate:"required,max=20"`
	ShippingCountry      string `json:"shipping_country" validate:"max=100"`

	Notes string `json:"notes"`

	CardNumber string `json:"card_number" validate:"required,max=19,card_number"`
	CardExpiry string `json:"card_expiry" validate:"required,max=7,card_expiry"`
	CardCVC    string `json:"card_cvc" validate:"required,max=4,card_cvc"`
}

func (d CheckoutRequestDTO) toInput() service.CheckoutInput {
	return service.CheckoutInput{
		Customer: domain.Customer{
			Email:     d.CustomerEmail,
			FirstName: d.CustomerFirstName,
			LastName:  d.CustomerLastName,
			Phone:     d.CustomerPhone,
		},
		Shipping: domain.ShippingAddress{
			Line1:      d.ShippingAddressLine1,
			Line2:      d.ShippingAddressLine2,
			City:       d.ShippingCity,
			State:      d.ShippingState,
			PostalCode: d.ShippingPostalCode,
			Country:    d.ShippingCountry,
		},
		Notes: d.Notes,
		Card: payment.Card{
			Number: d.CardNumber,
			Expiry: d.CardExpiry,
			CVC:    d.CardCVC,
		},
	}
}

type CategoryDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ProductCount int    `json:"product_count"`
}

type ProductListDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Price        string `json:"price"`
	Image        string `json:"image"`
	Brand        string `json:"brand"`
	CategoryName string `json:"category_name"`
	IsFeatured   bool   `json:"is_featured"`
}

type ProductDetailDTO struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Slug           string       `json:"slug"`
	Description    string       `json:"description"`
	Price          string       `json:"price"`
	FormattedPrice string       `json:"formatted_price"`
	Image          string       `json:"image"`
	Brand          string       `json:"brand"`
	SKU            *string      `json:"sku"`
	StockQuantity  int          `json:"stock_quantity"`
	IsInStock      bool         `json:"is_in_stock"`
	IsActive       bool         `json:"is_active"`
	IsFeatured     bool         `json:"is_featured"`
	Category       *CategoryDTO `json:"category"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type ProductPageDTO struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []ProductListDTO `json:"results"`
}

type CartItemDTO struct {
	ProductID string         `json:"product_id"`
	Product   ProductListDTO `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal string         `json:"line_total"`
}

type CartResponseDTO struct {
	Items     []CartItemDTO `json:"items"`
	Subtotal  string        `json:"subtotal"`
	ItemCount int           `json:"item_count"`
}

type CartSummaryDTO struct {
	Message   string `json:"message"`
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
}

type OrderItemDTO struct {
	ID           string `json:"id"`
	Product      string `json:"product"`
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	Quantity     int    `json:"quantity"`
	LineTotal    string `json:"line_total"`
}

type OrderDTO struct {
	ID                   string         `json:"id"`
	CustomerEmail        string         `json:"customer_email"`
	CustomerFirstName    string         `json:"customer_first_name"`
	CustomerLastName     string         `json:"customer_last_name"`
	CustomerPhone        string         `json:"customer_phone"`
	CustomerFullName     string         `json:"customer_full_name"`
	ShippingAddressLine1 string         `json:"shipping_address_line1"`
	ShippingAddressLine2 string         `json:"shipping_address_line2"`
	ShippingCity         string         `json:"shipping_city"`
	ShippingState        string         `json:"shipping_state"`
	ShippingPostalCode   string         `json:"shipping_postal_code"`
	ShippingCountry      string         `json:"shipping_country"`
	ShippingAddress      string         `json:"shipping_address"`
	Subtotal             string         `json:"subtotal"`
	ShippingCost         string         `json:"shipping_cost"`
	Tax                  string         `json:"tax"`
	Total                string         `json:"total"`
	PaymentStatus        string         `json:"payment_status"`
	OrderStatus          string         `json:"order_status"`
	Notes                string         `json:"notes"`
	Items                []OrderItemDTO `json:"items"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func toCategoryDTO(c *domain.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:           c.ID.String(),
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ProductCount: c.ProductCount,
	}
}

func toProductListDTO(p *domain.Product) ProductListDTO {
	return ProductListDTO{
		ID:           p.ID.String(),
		Name:         p.Name,
		Slug:         p.Slug,
		Price:        domain.FormatMoney(p.Price),
		Image:        p.ImageURL,
		Brand:        p.Brand,
		CategoryName: p.CategoryName(),
		IsFeatured:   p.IsFeatured,
	}
}

func toProductDetailDTO(p *domain.Product) ProductDetailDTO {
	return ProductDetailDTO{
		ID:             p.ID.String(),
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          domain.FormatMoney(p.Price),
		FormattedPrice: p.FormattedPrice(),
		Image:          p.ImageURL,
		Brand:          p.Brand,
		SKU:            p.SKU,
		StockQuantity:  p.StockQuantity,
		IsInStock:      p.IsInStock(),
		IsActive:       p.IsActive,
		IsFeatured:     p.IsFeatured,
		Category:       toCategoryDTO(p.Category),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toCartResponseDTO(view *service.CartView) CartResponseDTO {
	items := make([]CartItemDTO, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, toCartItemDTO(item))
	}
	return CartResponseDTO{
		Items:     items,
		Subtotal:  domain.FormatMoney(view.Subtotal),
		ItemCount: view.ItemCount,
	}
}

func toCartItemDTO(item cart.Item) CartItemDTO {
	return CartItemDTO{
		ProductID: item.Product.ID.String(),
		Product:   toProductListDTO(item.Product),
		Quantity:  item.Quantity,
		LineTotal: domain.FormatMoney(item.LineTotal()),
	}
}

func toCartSummaryDTO(message string, s service.Summary) CartSummaryDTO {
	return CartSummaryDTO{
		Message:   message,
		ItemCount: s.ItemCount,
		Subtotal:  domain.FormatMoney(s.Subtotal),
	}
}

func toOrderDTO(o *domain.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:           item.ID.String(),
			Product:      item.ProductID.String(),
			ProductName:  item.ProductName,
			ProductPrice: domain.FormatMoney(item.ProductPrice),
			Quantity:     item.Quantity,
			LineTotal:    domain.FormatMoney(item.LineTotal()),
		})
	}
	return OrderDTO{
		ID:                   o.ID.String(),
		CustomerEmail:        o.Customer.Email,
		CustomerFirstName:    o.Customer.FirstName,
		CustomerLastName:     o.Customer.LastName,
		CustomerPhone:        o.Customer.Phone,
		CustomerFullName:     o.CustomerFullName(),
		ShippingAddressLine1: o.Shipping.Line1,
		ShippingAddressLine2: o.Shipping.Line2,
		ShippingCity:         o.Shipping.City,
		ShippingState:        o.Shipping.State,
		ShippingPostalCode:   o.Shipping.PostalCode,
		ShippingCountry:      o.Shipping.Country,
		ShippingAddress:      o.Shipping.Format(),
		Subtotal:             domain.FormatMoney(o.Subtotal),
		ShippingCost:         domain.FormatMoney(o.ShippingCost),
		Tax:                  domain.FormatMoney(o.Tax),
		Total:                domain.FormatMoney(o.Total),
		PaymentStatus:        o.PaymentStatus.String(),
		OrderStatus:          o.OrderStatus.String(),
		Notes:                o.Notes,
		Items:                items,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
