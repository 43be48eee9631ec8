package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a single entry may hold. Order items
// store quantities in a 32-bit column.
const MaxQuantity = math.MaxInt32

var ErrInvalidQuantity = errors.New("quantity must be between 1 and 2147483647")

// Entry is one product line of a session cart. UnitPrice is the product
// price captured when the entry was created.
type Entry struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	AddedAt   time.Time       `json:"added_at"`
}

func (e Entry) LineTotal() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart is the value stored in a session. It is loaded and saved by a
// session store; none of its methods persist anything.
type Cart struct {
	Entries   []Entry   `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New() *Cart {
	return &Cart{Entries: []Entry{}}
}

// ProductFinder resolves product ids against the live catalog. Ids that do
// not resolve are simply absent from the returned map.
type ProductFinder interface {
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error)
}

// Item is a cart entry joined with the current catalog product.
type Item struct {
	Product   *domain.Product
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (c *Cart) find(productID uuid.UUID) int {
	for i := range c.Entries {
		if c.Entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of product, creating the entry with the
// product's current price if it is not in the cart yet. The resulting
// quantity may not exceed MaxQuantity.
func (c *Cart) Add(product *domain.Product, quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	idx := c.find(product.ID)
	if idx >= 0 && c.Entries[idx].Quantity > MaxQuantity-quantity {
		return ErrInvalidQuantity
	}
	if idx < 0 {
		c.Entries = append(c.Entries, Entry{
			ProductID: product.ID,
			Quantity:  0,
			UnitPrice: product.Price,
			AddedAt:   time.Now().UTC(),
		})
		idx = len(c.Entries) - 1
	}
	c.Entries[idx].Quantity += quantity
	c.touch()
	return nil
}

func (c *Cart) Remove(productID uuid.UUID) {
	idx := c.find(productID)
	if idx < 0 {
		return
	}
	c.Entries = append(c.Entries[:idx], c.Entries[idx+1:]...)
	c.touch()
}

// Update sets an absolute quantity for an existing entry. A quantity of
// zero or less removes the entry; unknown products are ignored.
func (c *Cart) Update(productID uuid.UUID, quantity int) error {
	if quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if quantity <= 0 {
		c.Remove(productID)
		return nil
	}
	idx := c.find(productID)
	if idx < 0 {
		return nil
	}
	c.Entries[idx].Quantity = quantity
	c.touch()
	return nil
}

func (c *Cart) Clear() {
	c.Entries = []Entry{}
	c.touch()
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Entries {
		total = total.Add(e.LineTotal())
	}
	return total
}

// ItemCount is the number of units in the cart, not distinct products.
func (c *Cart) ItemCount() int {
	count := 0
	for _, e := range c.Entries {
		count += e.Quantity
	}
	return count
}

func (c *Cart) Len() int {
	return len(c.Entries)
}

func (c *Cart) Quantity(productID uuid.UUID) int {
	if idx := c.find(productID); idx >= 0 {
		return c.Entries[idx].Quantity
	}
	return 0
}

func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Entries))
	for _, e := range c.Entries {
		ids = append(ids, e.ProductID)
	}
	return ids
}

// Items joins every entry with its catalog product. Entries whose product
// no longer resolves are left out of the result.
func (c *Cart) Items(ctx context.Context, finder ProductFinder) ([]Item, error) {
	if len(c.Entries) == 0 {
		return []Item{}, nil
	}
	products, err := finder.FindProductsByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	items := make([]Item, 0, len(c.Entries))
	for _, e := range c.Entries {
		product, ok := products[e.ProductID]
		if !ok {
			continue
		}
		items = append(items, Item{
			Product:   product,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice,
		})
	}
	return items, nil
}

// Normalize drops entries that break the cart invariants (unset product,
// quantity out of range, negative price, duplicates) and returns how many
// were dropped. Session payloads are not trusted.
func (c *Cart) Normalize() int {
	if c.Entries == nil {
		c.Entries = []Entry{}
		return 0
	}
	seen := make(map[uuid.UUID]struct{}, len(c.Entries))
	kept := c.Entries[:0]
	for _, e := range c.Entries {
		if e.ProductID == uuid.Nil || e.Quantity <= 0 || e.Quantity > MaxQuantity || e.UnitPrice.IsNegative() {
			continue
		}
		if _, dup := seen[e.ProductID]; dup {
			continue
		}
		seen[e.ProductID] = struct{}{}
		kept = append(kept, e)
	}
	dropped := len(c.Entries) - len(kept)
	c.Entries = kept
	return dropped
}

func (c *Cart) Clone() *Cart {
	out := &Cart{UpdatedAt: c.UpdatedAt, Entries: make([]Entry, len(c.Entries))}
	copy(out.Entries, c.Entries)
	return out
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
