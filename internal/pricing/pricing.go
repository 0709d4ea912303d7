// Package pricing computes checkout totals. Everything is integer
// cents; float values exist only for display.
package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// TaxRateBasisPoints is the flat tax applied to the subtotal: 8%.
	TaxRateBasisPoints = 800

	// FlatShippingCents is charged unless the subtotal crosses the
	// free-shipping bar.
	FlatShippingCents = 999

	// FreeShippingOverCents: orders strictly above $50 ship free.
	FreeShippingOverCents = 5000
)

// Quote is the checkout-ready breakdown. All fields frozen onto the
// order at creation time.
type Quote struct {
	SubtotalCents int `json:"subtotal_cents"`
	DiscountCents int `json:"discount_cents"`
	ShippingCents int `json:"shipping_cents"`
	TaxCents      int `json:"tax_cents"`
	TotalCents    int `json:"total_cents"`
}

// DiscountPolicy decides what a discount code is worth against a
// subtotal. Implementations must treat unknown codes as a business
// failure, not an error.
type DiscountPolicy interface {
	// Apply returns the discount in cents for the code, or ok=false when
	// the code is not accepted.
	Apply(code string, subtotalCents int) (discountCents int, ok bool)
}

// Tax returns the flat 8% tax on a subtotal, rounded down.
func Tax(subtotalCents int) int {
	return subtotalCents * TaxRateBasisPoints / 10000
}

// Shipping returns the flat fee, free above the threshold. This policy
// is distinct from the ShippingMethod per-kg fee model; both are kept
// until product decides which one wins.
func Shipping(subtotalCents int) int {
	if subtotalCents > FreeShippingOverCents {
		return 0
	}
	return FlatShippingCents
}

// NewQuote combines subtotal, discount, shipping, and tax. Tax applies
// to the undiscounted subtotal. shippingCents < 0 means "use the flat
// policy"; a non-negative value comes from a ShippingMethod.
func NewQuote(subtotalCents, discountCents, shippingCents int) Quote {
	if discountCents > subtotalCents {
		discountCents = subtotalCents
	}
	if shippingCents < 0 {
		shippingCents = Shipping(subtotalCents)
	}
	tax := Tax(subtotalCents)
	return Quote{
		SubtotalCents: subtotalCents,
		DiscountCents: discountCents,
		ShippingCents: shippingCents,
		TaxCents:      tax,
		TotalCents:    subtotalCents - discountCents + shippingCents + tax,
	}
}

// CodeTable is a DiscountPolicy backed by a code -> percent-off table,
// seeded from config ("WELCOME10:10,VIP20:20").
type CodeTable struct {
	percents map[string]int
}

func NewCodeTable(spec string) (*CodeTable, error) {
	percents := make(map[string]int)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, pctStr, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("malformed discount entry %q, want CODE:PERCENT", entry)
		}
		pct, err := strconv.Atoi(pctStr)
		if err != nil || pct <= 0 || pct > 100 {
			return nil, fmt.Errorf("invalid discount percent in %q", entry)
		}
		percents[strings.ToUpper(strings.TrimSpace(code))] = pct
	}
	return &CodeTable{percents: percents}, nil
}

func (t *CodeTable) Apply(code string, subtotalCents int) (int, bool) {
	pct, ok := t.percents[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, false
	}
	return subtotalCents * pct / 100, true
}

// ShippingMethod is the carrier entity with a per-kg fee model. It
// coexists with the flat checkout policy above; the two are not
// reconciled.
type ShippingMethod struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	BaseFeeCents  int       `json:"base_fee_cents"`
	PerKgFeeCents int       `json:"per_kg_fee_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// Cost returns the fee for shipping the given weight with this method.
func (m ShippingMethod) Cost(weightKg float64) int {
	if weightKg < 0 {
		weightKg = 0
	}
	return m.BaseFeeCents + int(float64(m.PerKgFeeCents)*weightKg)
}
