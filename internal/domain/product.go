package domain

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	// ProductCount is the number of active products, filled by list queries only.
	ProductCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID            uuid.UUID
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	CategoryID    uuid.UUID
	Category      *Category
	ImageURL      string
	Brand         string
	SKU           *string
	StockQuantity int
	IsActive      bool
	IsFeatured    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsInStock is informational; checkout never decrements stock.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

func (p *Product) FormattedPrice() string {
	return FormatUSD(p.Price)
}

func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// Product list ordering keys accepted by the catalog.
const (
	OrderByPriceAsc      = "price"
	OrderByPriceDesc     = "-price"
	OrderByCreatedAtAsc  = "created_at"
	OrderByCreatedAtDesc = "-created_at"
	OrderByNameAsc       = "name"
	OrderByNameDesc      = "-name"
)

func IsSupportedOrdering(ordering string) bool {
	switch ordering {
	case OrderByPriceAsc, OrderByPriceDesc,
		OrderByCreatedAtAsc, OrderByCreatedAtDesc,
		OrderByNameAsc, OrderByNameDesc:
		return true
	default:
		return false
	}
}

type ProductFilter struct {
	CategorySlug string
	IsFeatured   *bool
	Search       string
	Ordering     string
	Page         int
	PageSize     int
}

// maxOffset bounds Offset so that huge page numbers cannot overflow.
const maxOffset = math.MaxInt32

// Offset returns the row offset of the requested page (pages start at 1).
// Offsets past maxOffset are clamped to it.
func (f ProductFilter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	if f.Page-1 > maxOffset/f.PageSize {
		return maxOffset
	}
	return (f.Page - 1) * f.PageSize
}

type ProductPage struct {
	Count    int
	Page     int
	PageSize int
	Products []*Product
}

func (p ProductPage) HasNext() bool {
	f := ProductFilter{Page: p.Page, PageSize: p.PageSize}
	return f.Offset()+p.PageSize < p.Count
}

func (p ProductPage) HasPrevious() bool {
	return p.Page > 1
}

// Slugify lowercases s, drops everything but letters, digits, spaces,
// underscores and hyphens, and collapses runs of spaces and hyphens into one hyphen.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return b.String()
}
