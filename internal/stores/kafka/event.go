package kafka

import "time"

const (
	TopicOrderPlaced = `storefront.order-placed`
	TopicOrderPaid   = `storefront.order-paid`
)

// OrderPlacedEvent is published when checkout converts a cart into an
// order.
type OrderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderPaidEvent is published once per order line after payment
// confirmation so downstream consumers can fulfil each line.
type OrderPaidEvent struct {
	OrderID   string    `json:"order_id"`
	VariantID string    `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}
