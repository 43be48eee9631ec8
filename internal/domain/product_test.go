package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Rolex Submariner Date":     "rolex-submariner-date",
		"  TAG Heuer -- Carrera  ":  "tag-heuer-carrera",
		"Omega Seamaster 300M!":     "omega-seamaster-300m",
		"Casio G-Shock Mudmaster":   "casio-g-shock-mudmaster",
		"Tissot PRX Powermatic_80":  "tissot-prx-powermatic_80",
		"":                          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestFormatUSD(t *testing.T) {
	tests := map[string]string{
		"14500":      "$14,500.00",
		"35000.5":    "$35,000.50",
		"699.99":     "$699.99",
		"0":          "$0.00",
		"1234567.89": "$1,234,567.89",
		"-1000":      "-$1,000.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatUSD(decimal.RequireFromString(in)), in)
	}
}

func TestProduct_Derived(t *testing.T) {
	p := &Product{Price: decimal.RequireFromString("5200.00"), StockQuantity: 0}
	assert.False(t, p.IsInStock())
	assert.Equal(t, "$5,200.00", p.FormattedPrice())
	assert.Equal(t, "", p.CategoryName())

	p.StockQuantity = 5
	p.Category = &Category{Name: "Luxury"}
	assert.True(t, p.IsInStock())
	assert.Equal(t, "Luxury", p.CategoryName())
}

func TestProductPage_Navigation(t *testing.T) {
	page := ProductPage{Count: 25, Page: 1, PageSize: 12}
	assert.True(t, page.HasNext())
	assert.False(t, page.HasPrevious())

	page.Page = 3
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())

	assert.Equal(t, 24, ProductFilter{Page: 3, PageSize: 12}.Offset())
	assert.Equal(t, 0, ProductFilter{Page: 0, PageSize: 12}.Offset())
}

func TestProductFilter_OffsetDoesNotOverflow(t *testing.T) {
	f := ProductFilter{Page: math.MaxInt, PageSize: 100}
	assert.Equal(t, math.MaxInt32, f.Offset())

	f = ProductFilter{Page: math.MaxInt32/12 + 2, PageSize: 12}
	assert.Equal(t, math.MaxInt32, f.Offset())

	page := ProductPage{Count: 13, Page: math.MaxInt, PageSize: 100}
	assert.False(t, page.HasNext())
}
