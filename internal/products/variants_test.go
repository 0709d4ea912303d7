package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phoneVariants() []ProductVariant {
	return []ProductVariant{
		{ID: "v1", SKU: "PHONE-SLV-128", PriceCents: 99900, StockQuantity: 3,
			Options: Options{{Name: "color", Value: "Silver"}, {Name: "storage", Value: "128GB"}}},
		{ID: "v2", SKU: "PHONE-SLV-256", PriceCents: 109900, StockQuantity: 0,
			Options: Options{{Name: "color", Value: "Silver"}, {Name: "storage", Value: "256GB"}}},
		{ID: "v3", SKU: "PHONE-BLK-128", PriceCents: 99900, StockQuantity: 10,
			Options: Options{{Name: "color", Value: "Black"}, {Name: "storage", Value: "128GB"}}},
	}
}

func TestAvailableOptionsFirstSeenOrder(t *testing.T) {
	opts := AvailableOptions(phoneVariants())

	require.Len(t, opts, 2)
	assert.Equal(t, "color", opts[0].Name)
	assert.Equal(t, []string{"Silver", "Black"}, opts[0].Values)
	assert.Equal(t, "storage", opts[1].Name)
	assert.Equal(t, []string{"128GB", "256GB"}, opts[1].Values)
}

func TestAvailableOptionsEmpty(t *testing.T) {
	assert.Empty(t, AvailableOptions(nil))
}

func TestResolveVariantEmptySelectionDefaultsToFirst(t *testing.T) {
	variants := phoneVariants()
	v := ResolveVariant(variants, nil)
	require.NotNil(t, v)
	assert.Equal(t, "v1", v.ID)
}

func TestResolveVariantExactMatch(t *testing.T) {
	variants := phoneVariants()
	v := ResolveVariant(variants, Options{
		{Name: "color", Value: "Silver"},
		{Name: "storage", Value: "256GB"},
	})
	require.NotNil(t, v)
	assert.Equal(t, "v2", v.ID)
}

func TestResolveVariantPartialSelectionPicksFirstMatch(t *testing.T) {
	variants := phoneVariants()
	v := ResolveVariant(variants, Options{{Name: "storage", Value: "128GB"}})
	require.NotNil(t, v)
	assert.Equal(t, "v1", v.ID)
}

func TestResolveVariantNoMatchReturnsNil(t *testing.T) {
	variants := phoneVariants()
	assert.Nil(t, ResolveVariant(variants, Options{{Name: "color", Value: "Purple"}}))
	assert.Nil(t, ResolveVariant(nil, nil))
}
