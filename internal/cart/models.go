package cart

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/products"
	"storefront/pkg/result"
)

// Status of a cart. Active carts accept mutations; the other two are
// terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Owner identifies who a cart belongs to: a signed-in user or an
// anonymous session. Exactly one side must be set; there is no ambient
// session lookup anywhere, the owner is threaded through every
// operation explicitly.
type Owner struct {
	UserID    string
	SessionID string
}

func (o Owner) Validate() error {
	if (o.UserID == "") == (o.SessionID == "") {
		return errors.New("cart owner must be exactly one of user id or session id")
	}
	return nil
}

type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Status    Status    `json:"status"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a cart line joined with the live variant it points at. Prices
// and stock always come from the variant read, never from a cached copy.
type Item struct {
	ID        int64                   `json:"id"`
	CartID    string                  `json:"cart_id"`
	Quantity  int                     `json:"quantity"`
	Variant   products.ProductVariant `json:"variant"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

func (i Item) UnitPriceCents() int {
	return i.Variant.PriceCents
}

func (i Item) TotalPriceCents() int {
	return i.Variant.PriceCents * i.Quantity
}

// InStock is the strict sufficiency check: the variant must cover the
// full requested quantity, not merely be non-zero.
func (i Item) InStock() bool {
	return i.Variant.StockQuantity >= i.Quantity
}

// AvailableQuantity is the live stock read for this line.
func (i Item) AvailableQuantity() int {
	return i.Variant.StockQuantity
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c Cart) TotalItems() int {
	var total int
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPriceCents is recomputed from the lines on every call. It is
// never persisted, so it always reflects current variant prices and
// quantities.
func (c Cart) TotalPriceCents() int {
	var total int
	for _, item := range c.Items {
		total += item.TotalPriceCents()
	}
	return total
}

func (c Cart) TotalPrice() float64 {
	return float64(c.TotalPriceCents()) / 100.0
}

// CheckoutReadiness decides whether the cart can proceed to checkout:
// non-empty and every line fulfillable. Each insufficiency yields its
// own entry so the caller can point at the exact line.
func (c Cart) CheckoutReadiness() (bool, []result.FieldError) {
	if c.Empty() {
		return false, []result.FieldError{{Field: "cart", Message: "cart is empty"}}
	}
	var problems []result.FieldError
	for _, item := range c.Items {
		if !item.InStock() {
			problems = append(problems, result.FieldError{
				Field: item.Variant.SKU,
				Message: fmt.Sprintf("insufficient stock: requested %d, available %d",
					item.Quantity, item.AvailableQuantity()),
			})
		}
	}
	return len(problems) == 0, problems
}
