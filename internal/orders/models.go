package orders

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the order lifecycle, ordinal-encoded in storage. The order
// of these eight values is load-bearing: the database stores the
// ordinal.
type Status int

const (
	StatusCart Status = iota
	StatusPendingPayment
	StatusPaid
	StatusProcessing
	StatusShipped
	StatusDelivered
	StatusCancelled
	StatusRefunded
)

func (s Status) String() string {
	switch s {
	case StatusCart:
		return "cart"
	case StatusPendingPayment:
		return "pending_payment"
	case StatusPaid:
		return "paid"
	case StatusProcessing:
		return "processing"
	case StatusShipped:
		return "shipped"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	case StatusRefunded:
		return "refunded"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

func (s Status) Valid() bool {
	return s >= StatusCart && s <= StatusRefunded
}

// CanCancel is a pure predicate on the current status; it performs no
// transition itself.
func (s Status) CanCancel() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusProcessing:
		return true
	case StatusCart, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return false
	default:
		return false
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStatus(label string) (Status, error) {
	for s := StatusCart; s <= StatusRefunded; s++ {
		if s.String() == label {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown order status %q", label)
}

// PaymentStatus is a closed string enum.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Order is the monetary snapshot of a cart at checkout. The cents
// fields are frozen at creation and never recomputed from live catalog
// prices.
type Order struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	ShippingMethodID string    `json:"shipping_method_id,omitempty"`
	Status           Status    `json:"status"`
	SubtotalCents    int       `json:"subtotal_cents"`
	DiscountCents    int       `json:"discount_cents"`
	ShippingCents    int       `json:"shipping_cents"`
	TaxCents         int       `json:"tax_cents"`
	TotalCents       int       `json:"total_cents"`
	StripeSessionID  string    `json:"-"`
	Items            []Item    `json:"items,omitempty"`
	Payments         []Payment `json:"payments,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Item is an order line with the unit price captured at order time.
type Item struct {
	ID             int64  `json:"id"`
	OrderID        string `json:"order_id"`
	VariantID      string `json:"variant_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

type Payment struct {
	ID                  string        `json:"id"`
	OrderID             string        `json:"order_id"`
	Status              PaymentStatus `json:"status"`
	AmountCents         int           `json:"amount_cents"`
	StripeTransactionID string        `json:"stripe_transaction_id,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// Address belongs to either a user (saved address book) or an order
// (snapshot at checkout).
type Address struct {
	ID        int64     `json:"id"`
	OwnerType string    `json:"owner_type"`
	OwnerID   string    `json:"owner_id"`
	Kind      string    `json:"kind"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

func (o Order) TotalItems() int {
	var total int
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

func (o Order) CanCancel() bool {
	return o.Status.CanCancel()
}

// Display values derived from the frozen cents; floats exist only for
// rendering.
func (o Order) Subtotal() float64 { return float64(o.SubtotalCents) / 100.0 }
func (o Order) Discount() float64 { return float64(o.DiscountCents) / 100.0 }
func (o Order) Shipping() float64 { return float64(o.ShippingCents) / 100.0 }
func (o Order) Tax() float64      { return float64(o.TaxCents) / 100.0 }
func (o Order) Total() float64    { return float64(o.TotalCents) / 100.0 }
