package products

import "time"

// DefaultLowStockThreshold flags variants that are about to run out.
const DefaultLowStockThreshold = 5

// StockStatus is the tri-state the presentation layer renders.
type StockStatus string

const (
	StockIn  StockStatus = "in_stock"
	StockLow StockStatus = "low_stock"
	StockOut StockStatus = "out_of_stock"
)

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Featured    bool             `json:"featured"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type ProductVariant struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	SKU           string    `json:"sku"`
	PriceCents    int       `json:"price_cents"`
	StockQuantity int       `json:"stock_quantity"`
	Options       Options   `json:"options"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Review struct {
	ID        int64     `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewSummary is the aggregate the product page shows next to the
// title.
type ReviewSummary struct {
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

// NewProduct is the inbound shape for product creation.
type NewProduct struct {
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Featured    bool         `json:"featured"`
	Variants    []NewVariant `json:"variants" validate:"min=1,dive"`
}

type NewVariant struct {
	SKU           string  `json:"sku" validate:"required"`
	PriceCents    int     `json:"price_cents" validate:"min=0"`
	StockQuantity int     `json:"stock_quantity" validate:"min=0"`
	Options       Options `json:"options"`
}

// NewReview is the inbound shape for posting a review.
type NewReview struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (v ProductVariant) InStock() bool {
	return v.StockQuantity > 0
}

// LowStock reports whether the variant is in stock but at or below the
// threshold.
func (v ProductVariant) LowStock(threshold int) bool {
	return v.InStock() && v.StockQuantity <= threshold
}

// Status collapses the stock quantity into the tri-state used by views.
func (v ProductVariant) Status(threshold int) StockStatus {
	switch {
	case !v.InStock():
		return StockOut
	case v.LowStock(threshold):
		return StockLow
	default:
		return StockIn
	}
}

// InStock reports whether any variant has stock remaining.
func (p Product) InStock() bool {
	for _, v := range p.Variants {
		if v.InStock() {
			return true
		}
	}
	return false
}

// PriceBoundsCents returns the min and max variant price. ok is false
// when the product has no variants.
func (p Product) PriceBoundsCents() (min, max int, ok bool) {
	if len(p.Variants) == 0 {
		return 0, 0, false
	}
	min, max = p.Variants[0].PriceCents, p.Variants[0].PriceCents
	for _, v := range p.Variants[1:] {
		if v.PriceCents < min {
			min = v.PriceCents
		}
		if v.PriceCents > max {
			max = v.PriceCents
		}
	}
	return min, max, true
}

// Summarize computes the review aggregate. An empty slice yields a zero
// average, not NaN.
func Summarize(reviews []Review) ReviewSummary {
	if len(reviews) == 0 {
		return ReviewSummary{}
	}
	var total int
	for _, r := range reviews {
		total += r.Rating
	}
	return ReviewSummary{
		AverageRating: float64(total) / float64(len(reviews)),
		Count:         len(reviews),
	}
}
