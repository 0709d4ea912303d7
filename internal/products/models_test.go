package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantStockChecks(t *testing.T) {
	cases := []struct {
		name     string
		stock    int
		inStock  bool
		lowStock bool
		status   StockStatus
	}{
		{"out of stock", 0, false, false, StockOut},
		{"single unit", 1, true, true, StockLow},
		{"at threshold", 5, true, true, StockLow},
		{"above threshold", 6, true, false, StockIn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ProductVariant{StockQuantity: tc.stock}
			assert.Equal(t, tc.inStock, v.InStock())
			assert.Equal(t, tc.lowStock, v.LowStock(DefaultLowStockThreshold))
			assert.Equal(t, tc.status, v.Status(DefaultLowStockThreshold))
		})
	}
}

func TestProductInStock(t *testing.T) {
	p := Product{Variants: []ProductVariant{{StockQuantity: 0}, {StockQuantity: 0}}}
	assert.False(t, p.InStock())

	p.Variants[1].StockQuantity = 1
	assert.True(t, p.InStock())

	assert.False(t, Product{}.InStock())
}

func TestProductPriceBounds(t *testing.T) {
	p := Product{Variants: []ProductVariant{
		{PriceCents: 109900},
		{PriceCents: 99900},
	}}
	min, max, ok := p.PriceBoundsCents()
	assert.True(t, ok)
	assert.Equal(t, 99900, min)
	assert.Equal(t, 109900, max)

	_, _, ok = Product{}.PriceBoundsCents()
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, ReviewSummary{}, Summarize(nil))

	summary := Summarize([]Review{{Rating: 5}, {Rating: 4}, {Rating: 3}})
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.0001)
}
