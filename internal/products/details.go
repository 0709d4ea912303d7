package products

import (
	"context"
	"errors"

	"storefront/internal/pricing"
	"storefront/pkg/result"
)

// DetailsService assembles everything the product page needs: the
// resolved variant for a set of option selections, formatted prices,
// the stock tri-state, and the review aggregate.
type DetailsService struct {
	store             *Conf
	lowStockThreshold int
}

func NewDetailsService(store *Conf, lowStockThreshold int) *DetailsService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &DetailsService{store: store, lowStockThreshold: lowStockThreshold}
}

// VariantView is a single variant shaped for rendering.
type VariantView struct {
	ID          string      `json:"id"`
	SKU         string      `json:"sku"`
	Price       string      `json:"price"`
	PriceCents  int         `json:"price_cents"`
	Options     Options     `json:"options"`
	StockStatus StockStatus `json:"stock_status"`
	InStock     bool        `json:"in_stock"`
}

// Page is the full product page payload.
type Page struct {
	ProductID        string        `json:"product_id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Category         string        `json:"category"`
	Featured         bool          `json:"featured"`
	PriceRange       string        `json:"price_range"`
	InStock          bool          `json:"in_stock"`
	AvailableOptions []OptionValues `json:"available_options"`
	SelectedVariant  *VariantView  `json:"selected_variant"`
	Available        bool          `json:"available"`
	Reviews          ReviewSummary `json:"reviews"`
}

// Page builds the product page. A missing product is a typed failure
// ("Product not found"); a selection no variant satisfies leaves
// SelectedVariant nil with Available false, it is not an error.
func (s *DetailsService) Page(ctx context.Context, productID string, selected Options) result.Result[Page] {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Fail[Page]("Product not found")
		}
		return result.Fail[Page]("Failed to fetch product")
	}

	reviews, err := s.store.ListReviews(ctx, productID)
	if err != nil {
		return result.Fail[Page]("Failed to fetch reviews")
	}

	page := Page{
		ProductID:        product.ID,
		Name:             product.Name,
		Description:      product.Description,
		Category:         product.Category,
		Featured:         product.Featured,
		InStock:          product.InStock(),
		AvailableOptions: AvailableOptions(product.Variants),
		Reviews:          Summarize(reviews),
	}

	if min, max, ok := product.PriceBoundsCents(); ok {
		page.PriceRange = pricing.FormatRange(min, max)
	}

	if variant := ResolveVariant(product.Variants, selected); variant != nil {
		page.Available = true
		page.SelectedVariant = &VariantView{
			ID:          variant.ID,
			SKU:         variant.SKU,
			Price:       pricing.FormatCents(variant.PriceCents),
			PriceCents:  variant.PriceCents,
			Options:     variant.Options,
			StockStatus: variant.Status(s.lowStockThreshold),
			InStock:     variant.InStock(),
		}
	}

	return result.Ok(page)
}
