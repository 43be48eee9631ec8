package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedCategory struct {
	name, slug, description string
}

type seedProduct struct {
	name, slug, description, price, category, brand, sku, image string
	stock                                                   int
	featured                                                bool
}

var seedCategories = []seedCategory{
	{"Luxury", "luxury", "Exquisite timepieces from prestigious watchmakers"},
	{"Sport", "sport", "Durable watches designed for active lifestyles"},
	{"Casual", "casual", "Stylish everyday watches for any occasion"},
	{"Vintage", "vintage", "Classic designs with timeless appeal"},
	{"Smart", "smart", "Connected watches with modern technology"},
}

const imageBase = "https://images.unsplash.com/"

var seedProducts = []seedProduct{
	{
		name: "Rolex Submariner Date", slug: "rolex-submariner-date", price: "14500.00", category: "luxury",
		brand: "Rolex", sku: "ROL-SUB-001", stock: 3, featured: true,
		description: "The archetypal diver's watch with a unidirectional rotatable bezel and water resistance to 300 meters.",
		image:       imageBase + "photo-1587836374828-4dbafa94cf0e?w=600&h=600&fit=crop",
	},
	{
		name: "Patek Philippe Nautilus", slug: "patek-philippe-nautilus", price: "35000.00", category: "luxury",
		brand: "Patek Philippe", sku: "PP-NAU-001", stock: 2, featured: true,
		description: "A luxury sports watch with an instantly recognizable porthole-shaped case, designed by Gerald Genta.",
		image:       imageBase + "photo-1523170335258-f5ed11844a49?w=600&h=600&fit=crop",
	},
	{
		name: "Omega Seamaster Diver 300M", slug: "omega-seamaster-diver-300m", price: "5200.00", category: "luxury",
		brand: "Omega", sku: "OMG-SEA-001", stock: 5,
		description: "Known for exceptional water resistance and diving capabilities.",
		image:       imageBase + "photo-1548171915-e79a380a2a4b?w=600&h=600&fit=crop",
	},
	{
		name: "Garmin Fenix 7", slug: "garmin-fenix-7", price: "699.99", category: "sport",
		brand: "Garmin", sku: "GAR-FEN-001", stock: 15, featured: true,
		description: "Multisport GPS watch with advanced training features, maps and long battery life.",
		image:       imageBase + "photo-1579586337278-3befd40fd17a?w=600&h=600&fit=crop",
	},
	{
		name: "TAG Heuer Carrera", slug: "tag-heuer-carrera", price: "4950.00", category: "sport",
		brand: "TAG Heuer", sku: "TAG-CAR-001", stock: 7,
		description: "A chronograph with motorsport heritage and precise Swiss engineering.",
		image:       imageBase + "photo-1522312346375-d1a52e2b99b3?w=600&h=600&fit=crop",
	},
	{
		name: "Casio G-Shock Mudmaster", slug: "casio-g-shock-mudmaster", price: "350.00", category: "sport",
		brand: "Casio", sku: "CAS-MUD-001", stock: 20,
		description: "Built for tough conditions with mud resistance, shock resistance and a triple sensor.",
		image:       imageBase + "photo-1533139502658-0198f920d8e8?w=600&h=600&fit=crop",
	},
	{
		name: "Seiko Presage Cocktail Time", slug: "seiko-presage-cocktail-time", price: "450.00", category: "casual",
		brand: "Seiko", sku: "SEI-COC-001", stock: 12, featured: true,
		description: "A dress watch with a sunburst dial inspired by cocktails.",
		image:       imageBase + "photo-1524592094714-0f0654e20314?w=600&h=600&fit=crop",
	},
	{
		name: "Tissot PRX Powermatic 80", slug: "tissot-prx-powermatic-80", price: "675.00", category: "casual",
		brand: "Tissot", sku: "TIS-PRX-001", stock: 10,
		description: "A modern reissue of a 1970s classic with an 80-hour power reserve.",
		image:       imageBase + "photo-1539874754764-5a96559165b0?w=600&h=600&fit=crop",
	},
	{
		name: "Hamilton Khaki Field", slug: "hamilton-khaki-field", price: "595.00", category: "casual",
		brand: "Hamilton", sku: "HAM-KHA-001", stock: 8,
		description: "A military-inspired field watch for everyday adventures.",
		image:       imageBase + "photo-1506193095-80f06c0a483b?w=600&h=600&fit=crop",
	},
	{
		name: "Orient Bambino", slug: "orient-bambino", price: "275.00", category: "vintage",
		brand: "Orient", sku: "ORI-BAM-001", stock: 15,
		description: "A classic dress watch with vintage looks and an automatic movement.",
		image:       imageBase + "photo-1585123334904-845d60e97b29?w=600&h=600&fit=crop",
	},
	{
		name: "Junghans Max Bill", slug: "junghans-max-bill", price: "1095.00", category: "vintage",
		brand: "Junghans", sku: "JUN-MAX-001", stock: 6, featured: true,
		description: "Bauhaus design icon with clean minimalist lines.",
		image:       imageBase + "photo-1542496658-e33a6d0d50f6?w=600&h=600&fit=crop",
	},
	{
		name: "Apple Watch Ultra 2", slug: "apple-watch-ultra-2", price: "799.00", category: "smart",
		brand: "Apple", sku: "APL-ULT-001", stock: 25, featured: true,
		description: "Titanium case, Action button and all-day battery life.",
		image:       imageBase + "photo-1434493789847-2f02dc6ca35d?w=600&h=600&fit=crop",
	},
	{
		name: "Samsung Galaxy Watch 6 Pro", slug: "samsung-galaxy-watch-6-pro", price: "449.00", category: "smart",
		brand: "Samsung", sku: "SAM-GW6-001", stock: 18,
		description: "Smartwatch with rotating bezel, health monitoring and Wear OS.",
		image:       imageBase + "photo-1508685096489-7aacd43bd3b1?w=600&h=600&fit=crop",
	},
}

// Seed inserts the sample watch catalog. Rows whose slug already exists are
// left untouched, so running it twice is harmless.
func (r *Repository) Seed(ctx context.Context) (int, error) {
	inserted := 0
	err := r.inTx(ctx, func(txRepo *Repository) error {
		now := time.Now().UTC()

		categoryIDs := make(map[string]uuid.UUID, len(seedCategories))
		for _, c := range seedCategories {
			_, err := txRepo.q.ExecContext(ctx,
				`INSERT INTO categories (id, name, slug, description, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (slug) DO NOTHING`,
				uuid.New(), c.name, c.slug, c.description, now, now)
			if err != nil {
				return fmt.Errorf("seed category %s: %w", c.slug, err)
			}
			existing, err := txRepo.GetCategoryBySlug(ctx, c.slug)
			if err != nil {
				return fmt.Errorf("seed category %s: %w", c.slug, err)
			}
			categoryIDs[c.slug] = existing.ID
		}

		for i, p := range seedProducts {
			// spread creation times so the default newest-first ordering is stable
			created := now.Add(-time.Duration(len(seedProducts)-i) * time.Minute)
			res, err := txRepo.q.ExecContext(ctx,
				`INSERT INTO products (id, name, slug, description, price, category_id, image_url, brand, sku,
				                       stock_quantity, is_active, is_featured, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				 ON CONFLICT (slug) DO NOTHING`,
				uuid.New(), p.name, p.slug, p.description, decimal.RequireFromString(p.price),
				categoryIDs[p.category], p.image, p.brand, p.sku, p.stock, true, p.featured, created, created)
			if err != nil {
				return fmt.Errorf("seed product %s: %w", p.slug, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// SeedProductSlugs lists the slugs Seed creates.
func SeedProductSlugs() []string {
	slugs := make([]string, len(seedProducts))
	for i, p := range seedProducts {
		slugs[i] = p.slug
	}
	return slugs
}
