package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/google/uuid"
)

const productColumns = `
	p.id, p.name, p.slug, p.description, p.price, p.image_url, p.brand, p.sku,
	p.stock_quantity, p.is_active, p.is_featured, p.created_at, p.updated_at,
	c.id, c.name, c.slug, c.description, c.created_at, c.updated_at`

const productFrom = `
	FROM products p
	JOIN categories c ON c.id = p.category_id`

var orderByClause = map[string]string{
	domain.OrderByPriceAsc:      "p.price ASC, p.id",
	domain.OrderByPriceDesc:     "p.price DESC, p.id",
	domain.OrderByCreatedAtAsc:  "p.created_at ASC, p.id",
	domain.OrderByCreatedAtDesc: "p.created_at DESC, p.id",
	domain.OrderByNameAsc:       "p.name ASC, p.id",
	domain.OrderByNameDesc:      "p.name DESC, p.id",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	c := &domain.Category{}
	var sku sql.NullString
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.Brand,
		&sku,
		&p.StockQuantity,
		&p.IsActive,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sku.Valid {
		p.SKU = &sku.String
	}
	p.CategoryID = c.ID
	p.Category = c
	return p, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.is_active = TRUE
		GROUP BY c.id, c.name, c.slug, c.description, c.created_at, c.updated_at
		ORDER BY c.name`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT id, name, slug, description, created_at, updated_at FROM categories WHERE slug = $1`

	c := &domain.Category{}
	err := r.q.QueryRowContext(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category by slug: %w", err)
	}
	return c, nil
}

// ListProducts returns one page of active products matching filter.
func (r *Repository) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	where := []string{"p.is_active = TRUE"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CategorySlug != "" {
		where = append(where, "c.slug = "+arg(filter.CategorySlug))
	}
	if filter.IsFeatured != nil {
		where = append(where, "p.is_featured = "+arg(*filter.IsFeatured))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		n := arg(pattern)
		where = append(where, fmt.Sprintf(
			`(LOWER(p.name) LIKE %[1]s ESCAPE '\' OR LOWER(p.description) LIKE %[1]s ESCAPE '\' OR LOWER(p.brand) LIKE %[1]s ESCAPE '\')`, n))
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var count int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*)"+productFrom+whereSQL, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	orderBy, ok := orderByClause[filter.Ordering]
	if !ok {
		orderBy = orderByClause[domain.OrderByCreatedAtDesc]
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := arg(filter.PageSize)
	offset := arg(filter.Offset())
	query := "SELECT" + productColumns + productFrom + whereSQL +
		" ORDER BY " + orderBy + " LIMIT " + limit + " OFFSET " + offset

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &domain.ProductPage{
		Count:    count,
		Page:     page,
		PageSize: filter.PageSize,
		Products: products,
	}, nil
}

// GetProduct returns an active product.
func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := "SELECT" + productColumns + productFrom + " WHERE p.id = $1 AND p.is_active = TRUE"
	return r.getProduct(ctx, query, id)
}

// GetProductBySlug returns an active product.
func (r *Repository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := "SELECT" + productColumns + productFrom + " WHERE p.slug = $1 AND p.is_active = TRUE"
	return r.getProduct(ctx, query, slug)
}

func (r *Repository) getProduct(ctx context.Context, query string, key any) (*domain.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

// FindProductsByIDs returns the products that exist among ids, active or not.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	found := make(map[uuid.UUID]*domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := "SELECT" + productColumns + productFrom +
		" WHERE p.id IN (" + strings.Join(placeholders, ", ") + ")"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		found[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return found, nil
}

// CreateCategory inserts c, filling in the id, slug and timestamps when unset.
func (r *Repository) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Slug == "" {
		c.Slug = domain.Slugify(c.Name)
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	query := `INSERT INTO categories (id, name, slug, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", c.Slug, ErrDuplicate)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// CreateProduct inserts p, filling in the id, slug and timestamps when unset.
func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = domain.Slugify(p.Name)
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO products (id, name, slug, description, price, category_id, image_url, brand, sku,
	                                stock_quantity, is_active, is_featured, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	var sku sql.NullString
	if p.SKU != nil {
		sku = sql.NullString{String: *p.SKU, Valid: true}
	}
	_, err := r.q.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Description,
		p.Price,
		p.CategoryID,
		p.ImageURL,
		p.Brand,
		sku,
		p.StockQuantity,
		p.IsActive,
		p.IsFeatured,
		p.CreatedAt,
		p.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("product %q: %w", p.Slug, ErrDuplicate)
		case isForeignKeyViolation(err):
			return fmt.Errorf("product %q: %w", p.Slug, ErrCategoryNotFound)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// SetProductActive toggles catalog visibility without touching cart entries
// that already reference the product.
func (r *Repository) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct fails with ErrProductInUse while any order item references it.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
