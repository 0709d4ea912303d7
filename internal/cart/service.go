package cart

import (
	"context"
	"errors"

	"storefront/internal/pricing"
	"storefront/internal/products"
	"storefront/pkg/result"
)

// Service is the orchestration layer over the cart store. Every method
// returns a Result; storage errors never escape raw (they are converted
// to failures with a stable message and logged by the handler layer).
type Service struct {
	store             *Conf
	lowStockThreshold int
}

func NewService(store *Conf, lowStockThreshold int) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = products.DefaultLowStockThreshold
	}
	return &Service{store: store, lowStockThreshold: lowStockThreshold}
}

// ItemView is a cart line shaped for rendering: prices pre-formatted,
// stock collapsed to the tri-state.
type ItemView struct {
	VariantID   string               `json:"variant_id"`
	SKU         string               `json:"sku"`
	Options     products.Options     `json:"options"`
	Quantity    int                  `json:"quantity"`
	UnitPrice   string               `json:"unit_price"`
	TotalPrice  string               `json:"total_price"`
	StockStatus products.StockStatus `json:"stock_status"`
	InStock     bool                 `json:"in_stock"`
}

type View struct {
	CartID     string     `json:"cart_id"`
	Items      []ItemView `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalCents int        `json:"total_cents"`
	Total      string     `json:"total"`
	Empty      bool       `json:"empty"`
}

// AddItem adds a variant to the owner's cart.
func (s *Service) AddItem(ctx context.Context, owner Owner, variantID string, quantity int) result.Result[View] {
	if err := s.store.AddItem(ctx, owner, variantID, quantity); err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuantity):
			return result.FailFields[View]("invalid quantity",
				[]result.FieldError{{Field: "quantity", Message: "quantity must be greater than zero"}})
		case errors.Is(err, ErrUnknownVariant):
			return result.Fail[View]("Product variant not found")
		default:
			return result.Fail[View]("Failed to add item to cart")
		}
	}
	return s.Get(ctx, owner)
}

// UpdateItemQuantity sets a line's quantity; zero or less removes it.
func (s *Service) UpdateItemQuantity(ctx context.Context, owner Owner, variantID string, quantity int) result.Result[View] {
	if err := s.store.UpdateItemQuantity(ctx, owner, variantID, quantity); err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Fail[View]("Cart item not found")
		}
		return result.Fail[View]("Failed to update cart item")
	}
	return s.Get(ctx, owner)
}

// RemoveItem removes a line; removing an absent line succeeds.
func (s *Service) RemoveItem(ctx context.Context, owner Owner, variantID string) result.Result[View] {
	if err := s.store.RemoveItem(ctx, owner, variantID); err != nil {
		return result.Fail[View]("Failed to remove cart item")
	}
	return s.Get(ctx, owner)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, owner Owner) result.Result[View] {
	if err := s.store.Clear(ctx, owner); err != nil {
		return result.Fail[View]("Failed to clear cart")
	}
	return s.Get(ctx, owner)
}

// Get returns the cart view. An owner with no cart yet gets an empty
// view, not a failure: the cart exists lazily.
func (s *Service) Get(ctx context.Context, owner Owner) result.Result[View] {
	loaded, err := s.store.GetActiveCart(ctx, owner)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Ok(View{Items: []ItemView{}, Total: pricing.FormatCents(0), Empty: true})
		}
		return result.Fail[View]("Failed to fetch cart")
	}
	return result.Ok(s.view(loaded))
}

// Readiness runs the checkout readiness check and reports per-line
// problems.
func (s *Service) Readiness(ctx context.Context, owner Owner) result.Result[View] {
	loaded, err := s.store.GetActiveCart(ctx, owner)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Fail[View]("Cart is empty")
		}
		return result.Fail[View]("Failed to fetch cart")
	}
	if ready, problems := loaded.CheckoutReadiness(); !ready {
		return result.FailFields[View]("Cart is not ready for checkout", problems)
	}
	return result.OkMsg(s.view(loaded), "Cart is ready for checkout")
}

func (s *Service) view(loaded Cart) View {
	items := make([]ItemView, 0, len(loaded.Items))
	for _, item := range loaded.Items {
		items = append(items, ItemView{
			VariantID:   item.Variant.ID,
			SKU:         item.Variant.SKU,
			Options:     item.Variant.Options,
			Quantity:    item.Quantity,
			UnitPrice:   pricing.FormatCents(item.UnitPriceCents()),
			TotalPrice:  pricing.FormatCents(item.TotalPriceCents()),
			StockStatus: item.Variant.Status(s.lowStockThreshold),
			InStock:     item.InStock(),
		})
	}
	return View{
		CartID:     loaded.ID,
		Items:      items,
		TotalItems: loaded.TotalItems(),
		TotalCents: loaded.TotalPriceCents(),
		Total:      pricing.FormatCents(loaded.TotalPriceCents()),
		Empty:      loaded.Empty(),
	}
}
