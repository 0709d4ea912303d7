package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"

	"storefront/internal/pricing"
	"storefront/internal/stores/kafka"
	"storefront/pkg/logkey"
	"storefront/pkg/result"
)

// CheckoutService orchestrates the cart-to-order conversion: readiness,
// pricing, snapshot creation, payment session, and event publishing.
// All outcomes are Results; no storage error crosses this boundary raw.
type CheckoutService struct {
	store      *Conf
	discounts  pricing.DiscountPolicy
	producer   *kafka.Conf
	successURL string
	cancelURL  string
	stripeOn   bool
}

func NewCheckoutService(store *Conf, discounts pricing.DiscountPolicy, producer *kafka.Conf,
	successURL, cancelURL string, stripeEnabled bool) *CheckoutService {
	return &CheckoutService{
		store:      store,
		discounts:  discounts,
		producer:   producer,
		successURL: successURL,
		cancelURL:  cancelURL,
		stripeOn:   stripeEnabled,
	}
}

// CheckoutRequest is the inbound checkout payload. ShippingMethodID
// selects the carrier per-kg fee path; leaving it empty uses the flat
// policy. The two policies are deliberately not unified.
type CheckoutRequest struct {
	DiscountCode     string   `json:"discount_code"`
	ShippingMethodID string   `json:"shipping_method_id"`
	PackageWeightKg  float64  `json:"package_weight_kg" validate:"min=0"`
	ShippingAddress  *Address `json:"shipping_address"`
}

// CheckoutData is the success payload: the frozen order plus the
// payment redirect when stripe is configured.
type CheckoutData struct {
	Order       Order  `json:"order"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// Checkout converts the user's active cart into an order.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req CheckoutRequest) result.Result[CheckoutData] {
	if req.DiscountCode != "" {
		if _, ok := s.discounts.Apply(req.DiscountCode, 0); !ok {
			return result.Fail[CheckoutData]("Invalid discount code")
		}
	}

	shippingCents := -1
	if req.ShippingMethodID != "" {
		method, err := s.store.GetShippingMethod(ctx, req.ShippingMethodID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return result.Fail[CheckoutData]("Shipping method not found")
			}
			return result.Fail[CheckoutData]("Failed to load shipping method")
		}
		shippingCents = method.Cost(req.PackageWeightKg)
	}

	quoteFn := func(subtotalCents int) pricing.Quote {
		var discount int
		if req.DiscountCode != "" {
			discount, _ = s.discounts.Apply(req.DiscountCode, subtotalCents)
		}
		return pricing.NewQuote(subtotalCents, discount, shippingCents)
	}

	order, err := s.store.CreateOrderFromCart(ctx, userID, req.ShippingMethodID, quoteFn)
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrEmptyCart):
			return result.Fail[CheckoutData]("Cart is empty")
		case errors.As(err, &stockErr):
			fields := make([]result.FieldError, 0, len(stockErr.Shortages))
			for _, sh := range stockErr.Shortages {
				fields = append(fields, result.FieldError{
					Field:   sh.SKU,
					Message: fmt.Sprintf("insufficient stock: requested %d, available %d", sh.Requested, sh.Available),
				})
			}
			return result.FailFields[CheckoutData]("Some items are out of stock", fields)
		default:
			return result.Fail[CheckoutData]("Checkout failed")
		}
	}

	if req.ShippingAddress != nil {
		addr := *req.ShippingAddress
		addr.OwnerType = "order"
		addr.OwnerID = order.ID
		addr.Kind = "shipping"
		if _, err := s.store.SaveAddress(ctx, addr); err != nil {
			slog.Error("failed to save order address",
				slog.String(logkey.OrderID, order.ID), slog.String(logkey.ERROR, err.Error()))
		}
	}

	data := CheckoutData{Order: order}
	if s.stripeOn && order.TotalCents > 0 {
		url, err := s.createStripeSession(order)
		if err != nil {
			slog.Error("failed to create stripe checkout session",
				slog.String(logkey.OrderID, order.ID), slog.String(logkey.ERROR, err.Error()))
			return result.Fail[CheckoutData]("Failed to create payment session")
		}
		data.CheckoutURL = url
	}

	s.publishOrderPlaced(ctx, order)
	return result.OkMsg(data, "Order created")
}

func (s *CheckoutService) createStripeSession(order Order) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(int64(item.UnitPriceCents)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.VariantID),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		SubmitType:               stripe.String("pay"),
		Currency:                 stripe.String(string(stripe.CurrencyUSD)),
		BillingAddressCollection: stripe.String("auto"),
		LineItems:                lineItems,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(s.successURL),
		CancelURL:                stripe.String(s.cancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				"order_id": order.ID,
				"user_id":  order.UserID,
			},
		},
	}
	sessionStripe, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}
	if err := s.store.SetStripeSession(context.Background(), order.ID, sessionStripe.ID); err != nil {
		slog.Error("failed to record stripe session",
			slog.String(logkey.OrderID, order.ID), slog.String(logkey.ERROR, err.Error()))
	}
	return sessionStripe.URL, nil
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order Order) {
	if s.producer == nil {
		return
	}
	event := kafka.OrderPlacedEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalCents: int64(order.TotalCents),
		CreatedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal order placed event", slog.String(logkey.ERROR, err.Error()))
		return
	}
	if err := s.producer.ProduceMessage(ctx, kafka.TopicOrderPlaced, []byte(order.ID), payload); err != nil {
		slog.Error("failed to publish order placed event",
			slog.String(logkey.OrderID, order.ID), slog.String(logkey.ERROR, err.Error()))
	}
}

// Get returns an order, refusing to show another user's order.
func (s *CheckoutService) Get(ctx context.Context, userID, orderID string) result.Result[Order] {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Fail[Order]("Order not found")
		}
		return result.Fail[Order]("Failed to fetch order")
	}
	if order.UserID != userID {
		return result.Fail[Order]("Order not found")
	}
	return result.Ok(order)
}

// List returns the user's order history.
func (s *CheckoutService) List(ctx context.Context, userID string, limit, offset int) result.Result[[]Order] {
	list, err := s.store.ListUserOrders(ctx, userID, limit, offset)
	if err != nil {
		return result.Fail[[]Order]("Failed to fetch orders")
	}
	if list == nil {
		list = []Order{}
	}
	return result.Ok(list)
}

// Cancel cancels an order when its status allows it and restores stock.
func (s *CheckoutService) Cancel(ctx context.Context, userID, orderID string) result.Result[Order] {
	if err := s.store.Cancel(ctx, orderID, userID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return result.Fail[Order]("Order not found")
		case errors.Is(err, ErrNotCancellable):
			return result.Fail[Order]("Order cannot be cancelled in its current status")
		default:
			return result.Fail[Order]("Failed to cancel order")
		}
	}
	return s.Get(ctx, userID, orderID)
}

// HandlePaymentSucceeded is invoked by the stripe webhook: marks the
// order paid and publishes one OrderPaid event per line for fulfilment.
func (s *CheckoutService) HandlePaymentSucceeded(ctx context.Context, orderID, stripeTransactionID string) result.Result[Order] {
	order, err := s.store.MarkPaid(ctx, orderID, stripeTransactionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Fail[Order]("Order not found or not awaiting payment")
		}
		return result.Fail[Order]("Failed to record payment")
	}

	if s.producer != nil {
		for _, item := range order.Items {
			event := kafka.OrderPaidEvent{
				OrderID:   order.ID,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				CreatedAt: time.Now().UTC(),
			}
			payload, err := json.Marshal(event)
			if err != nil {
				slog.Error("failed to marshal order paid event", slog.String(logkey.ERROR, err.Error()))
				continue
			}
			if err := s.producer.ProduceMessage(ctx, kafka.TopicOrderPaid, []byte(order.ID), payload); err != nil {
				slog.Error("failed to publish order paid event",
					slog.String(logkey.OrderID, order.ID), slog.String(logkey.ERROR, err.Error()))
			}
		}
	}
	return result.Ok(order)
}
