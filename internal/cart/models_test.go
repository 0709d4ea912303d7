package cart

import (
	"testing"

	"storefront/internal/products"
)

func variant(sku string, priceCents, stock int) products.ProductVariant {
	return products.ProductVariant{ID: "id-" + sku, SKU: sku, PriceCents: priceCents, StockQuantity: stock}
}

func TestEmptyCart(t *testing.T) {
	var c Cart

	if !c.Empty() {
		t.Error("Expected empty cart")
	}
	if c.TotalItems() != 0 {
		t.Errorf("Expected 0 total items, got %d", c.TotalItems())
	}
	if c.TotalPriceCents() != 0 {
		t.Errorf("Expected 0 total price, got %d", c.TotalPriceCents())
	}
}

func TestCartTotals(t *testing.T) {
	c := Cart{Items: []Item{
		{Quantity: 2, Variant: variant("A", 2999, 10)},
		{Quantity: 1, Variant: variant("B", 99900, 5)},
	}}

	if c.TotalItems() != 3 {
		t.Errorf("Expected 3 total items, got %d", c.TotalItems())
	}
	expected := 2*2999 + 99900
	if c.TotalPriceCents() != expected {
		t.Errorf("Expected total %d, got %d", expected, c.TotalPriceCents())
	}
	if c.TotalPrice() != float64(expected)/100.0 {
		t.Errorf("Expected display total %.2f, got %.2f", float64(expected)/100.0, c.TotalPrice())
	}

	// Totals are recomputed, not cached: a second read gives the same
	// answer and a price change shows up immediately.
	if c.TotalPriceCents() != expected {
		t.Error("Expected repeated reads to be stable")
	}
	c.Items[0].Variant.PriceCents = 3999
	if c.TotalPriceCents() != 2*3999+99900 {
		t.Error("Expected total to reflect updated variant price")
	}
}

func TestItemStockSufficiency(t *testing.T) {
	item := Item{Quantity: 3, Variant: variant("A", 1000, 3)}
	if !item.InStock() {
		t.Error("Expected item with stock == quantity to be in stock")
	}

	item.Quantity = 4
	if item.InStock() {
		t.Error("Expected item with stock < quantity to be out of stock")
	}
	if item.AvailableQuantity() != 3 {
		t.Errorf("Expected available quantity 3, got %d", item.AvailableQuantity())
	}
}

func TestItemPrices(t *testing.T) {
	item := Item{Quantity: 2, Variant: variant("A", 2999, 10)}
	if item.UnitPriceCents() != 2999 {
		t.Errorf("Expected unit price 2999, got %d", item.UnitPriceCents())
	}
	if item.TotalPriceCents() != 5998 {
		t.Errorf("Expected total price 5998, got %d", item.TotalPriceCents())
	}
}

func TestCheckoutReadinessEmptyCart(t *testing.T) {
	var c Cart
	ready, problems := c.CheckoutReadiness()
	if ready {
		t.Error("Expected empty cart to not be ready")
	}
	if len(problems) != 1 {
		t.Fatalf("Expected 1 problem, got %d", len(problems))
	}
	if problems[0].Field != "cart" {
		t.Errorf("Expected problem on cart, got %q", problems[0].Field)
	}
}

func TestCheckoutReadinessReportsEachShortLine(t *testing.T) {
	c := Cart{Items: []Item{
		{Quantity: 1, Variant: variant("OK", 1000, 5)},
		{Quantity: 1, Variant: variant("GONE", 1000, 0)},
	}}

	ready, problems := c.CheckoutReadiness()
	if ready {
		t.Error("Expected cart with an out of stock line to not be ready")
	}
	if len(problems) != 1 {
		t.Fatalf("Expected exactly 1 problem, got %d", len(problems))
	}
	if problems[0].Field != "GONE" {
		t.Errorf("Expected problem on GONE, got %q", problems[0].Field)
	}
}

func TestCheckoutReadinessAllInStock(t *testing.T) {
	c := Cart{Items: []Item{
		{Quantity: 2, Variant: variant("A", 1000, 2)},
	}}
	ready, problems := c.CheckoutReadiness()
	if !ready {
		t.Errorf("Expected cart to be ready, got problems: %v", problems)
	}
}

func TestOwnerValidate(t *testing.T) {
	cases := []struct {
		name    string
		owner   Owner
		wantErr bool
	}{
		{"user only", Owner{UserID: "u1"}, false},
		{"session only", Owner{SessionID: "s1"}, false},
		{"both", Owner{UserID: "u1", SessionID: "s1"}, true},
		{"neither", Owner{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.owner.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
