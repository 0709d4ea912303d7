package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTax(t *testing.T) {
	assert.Equal(t, 800, Tax(10000))
	assert.Equal(t, 0, Tax(0))
	// Rounds down.
	assert.Equal(t, 7, Tax(99))
}

func TestShipping(t *testing.T) {
	// Flat fee at and below $50, free strictly above.
	assert.Equal(t, FlatShippingCents, Shipping(0))
	assert.Equal(t, FlatShippingCents, Shipping(5000))
	assert.Equal(t, 0, Shipping(5001))
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(10000, 1000, -1)
	assert.Equal(t, 10000, q.SubtotalCents)
	assert.Equal(t, 1000, q.DiscountCents)
	assert.Equal(t, 0, q.ShippingCents) // subtotal over $50 ships free
	assert.Equal(t, 800, q.TaxCents)
	assert.Equal(t, 10000-1000+0+800, q.TotalCents)
}

func TestNewQuoteFlatShippingUnderThreshold(t *testing.T) {
	q := NewQuote(2000, 0, -1)
	assert.Equal(t, FlatShippingCents, q.ShippingCents)
	assert.Equal(t, 2000+999+160, q.TotalCents)
}

func TestNewQuoteExplicitShippingOverridesFlatPolicy(t *testing.T) {
	q := NewQuote(10000, 0, 2500)
	assert.Equal(t, 2500, q.ShippingCents)
}

func TestNewQuoteDiscountCappedAtSubtotal(t *testing.T) {
	q := NewQuote(500, 9999, 0)
	assert.Equal(t, 500, q.DiscountCents)
	assert.Equal(t, 0+Tax(500), q.TotalCents)
}

func TestCodeTable(t *testing.T) {
	table, err := NewCodeTable("WELCOME10:10, vip20:20")
	require.NoError(t, err)

	discount, ok := table.Apply("WELCOME10", 10000)
	assert.True(t, ok)
	assert.Equal(t, 1000, discount)

	// Codes are case-insensitive.
	discount, ok = table.Apply("Vip20", 10000)
	assert.True(t, ok)
	assert.Equal(t, 2000, discount)

	_, ok = table.Apply("BOGUS", 10000)
	assert.False(t, ok)
}

func TestCodeTableRejectsMalformedSpec(t *testing.T) {
	_, err := NewCodeTable("WELCOME10")
	assert.Error(t, err)

	_, err = NewCodeTable("CODE:0")
	assert.Error(t, err)

	_, err = NewCodeTable("CODE:101")
	assert.Error(t, err)

	table, err := NewCodeTable("")
	require.NoError(t, err)
	_, ok := table.Apply("ANY", 100)
	assert.False(t, ok)
}

func TestShippingMethodCost(t *testing.T) {
	method := ShippingMethod{BaseFeeCents: 500, PerKgFeeCents: 200}
	assert.Equal(t, 500, method.Cost(0))
	assert.Equal(t, 900, method.Cost(2))
	assert.Equal(t, 600, method.Cost(0.5))
	assert.Equal(t, 500, method.Cost(-1))
}
