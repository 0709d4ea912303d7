package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/pricing"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart rejects checkout on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotCancellable rejects cancellation outside the cancellable
	// statuses.
	ErrNotCancellable = errors.New("order cannot be cancelled in its current status")
)

// StockShortage describes one unfulfillable cart line.
type StockShortage struct {
	SKU       string
	Requested int
	Available int
}

// InsufficientStockError carries every shortage found during checkout
// so the caller can report all problem lines at once.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d cart line(s)", len(e.Shortages))
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// CreateOrderFromCart converts the user's active cart into an order in
// a single transaction: lock the cart and its variants, re-check stock,
// snapshot unit prices, price the order via quoteFn, decrement stock,
// and mark the cart completed. quoteFn receives the subtotal read
// inside the transaction so discount and shipping are computed against
// consistent data.
func (c *Conf) CreateOrderFromCart(ctx context.Context, userID string, shippingMethodID string,
	quoteFn func(subtotalCents int) pricing.Quote) (Order, error) {

	var order Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		var cartID string
		queryActiveCart := `SELECT id FROM carts WHERE user_id = $1 AND status = 'active' FOR UPDATE`
		err := tx.QueryRowContext(ctx, queryActiveCart, userID).Scan(&cartID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEmptyCart
			}
			return fmt.Errorf("failed to query active cart: %w", err)
		}

		// Lock the variants so the stock check and decrement are atomic.
		queryLines := `
			SELECT ci.product_variant_id, ci.quantity, v.sku, v.price_cents, v.stock_quantity
			FROM cart_items ci
			JOIN product_variants v ON v.id = ci.product_variant_id
			WHERE ci.cart_id = $1
			ORDER BY ci.id
			FOR UPDATE OF v
		`
		rows, err := tx.QueryContext(ctx, queryLines, cartID)
		if err != nil {
			return fmt.Errorf("failed to query cart lines: %w", err)
		}

		type line struct {
			variantID  string
			quantity   int
			sku        string
			priceCents int
			stock      int
		}
		var lines []line
		for rows.Next() {
			var l line
			if err := rows.Scan(&l.variantID, &l.quantity, &l.sku, &l.priceCents, &l.stock); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan cart line: %w", err)
			}
			lines = append(lines, l)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("error iterating cart lines: %w", err)
		}
		rows.Close()

		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var shortages []StockShortage
		var subtotal int
		for _, l := range lines {
			if l.stock < l.quantity {
				shortages = append(shortages, StockShortage{SKU: l.sku, Requested: l.quantity, Available: l.stock})
			}
			subtotal += l.priceCents * l.quantity
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Shortages: shortages}
		}

		quote := quoteFn(subtotal)

		order = Order{
			ID:               uuid.NewString(),
			UserID:           userID,
			ShippingMethodID: shippingMethodID,
			Status:           StatusPendingPayment,
			SubtotalCents:    quote.SubtotalCents,
			DiscountCents:    quote.DiscountCents,
			ShippingCents:    quote.ShippingCents,
			TaxCents:         quote.TaxCents,
			TotalCents:       quote.TotalCents,
		}

		var methodID sql.NullString
		if shippingMethodID != "" {
			methodID = sql.NullString{String: shippingMethodID, Valid: true}
		}
		queryOrder := `
			INSERT INTO orders (id, user_id, shipping_method_id, status, subtotal_cents, discount_cents,
			                    shipping_cents, tax_cents, total_cents, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING created_at, updated_at
		`
		err = tx.QueryRowContext(ctx, queryOrder, order.ID, order.UserID, methodID, int(order.Status),
			order.SubtotalCents, order.DiscountCents, order.ShippingCents, order.TaxCents, order.TotalCents).
			Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for _, l := range lines {
			item := Item{
				OrderID:        order.ID,
				VariantID:      l.variantID,
				Quantity:       l.quantity,
				UnitPriceCents: l.priceCents,
			}
			queryItem := `
				INSERT INTO order_items (order_id, product_variant_id, quantity, unit_price_cents)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`
			if err := tx.QueryRowContext(ctx, queryItem, item.OrderID, item.VariantID,
				item.Quantity, item.UnitPriceCents).Scan(&item.ID); err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
			order.Items = append(order.Items, item)

			queryDecrement := `
				UPDATE product_variants SET stock_quantity = stock_quantity - $1, updated_at = NOW()
				WHERE id = $2
			`
			if _, err := tx.ExecContext(ctx, queryDecrement, l.quantity, l.variantID); err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
		}

		if order.TotalCents > 0 {
			payment := Payment{
				ID:          uuid.NewString(),
				OrderID:     order.ID,
				Status:      PaymentPending,
				AmountCents: order.TotalCents,
			}
			queryPayment := `
				INSERT INTO payments (id, order_id, status, amount_cents, created_at, updated_at)
				VALUES ($1, $2, $3, $4, NOW(), NOW())
				RETURNING created_at, updated_at
			`
			if err := tx.QueryRowContext(ctx, queryPayment, payment.ID, payment.OrderID,
				string(payment.Status), payment.AmountCents).Scan(&payment.CreatedAt, &payment.UpdatedAt); err != nil {
				return fmt.Errorf("failed to insert payment: %w", err)
			}
			order.Payments = append(order.Payments, payment)
		}

		queryCompleteCart := `UPDATE carts SET status = 'completed', updated_at = NOW() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, queryCompleteCart, cartID); err != nil {
			return fmt.Errorf("failed to complete cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// SetStripeSession records the checkout session created for an order.
func (c *Conf) SetStripeSession(ctx context.Context, orderID, sessionID string) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE orders SET stripe_session_id = $1, updated_at = NOW() WHERE id = $2`, sessionID, orderID)
	if err != nil {
		return fmt.Errorf("failed to set stripe session: %w", err)
	}
	return nil
}

// GetOrder loads an order with its items and payments.
func (c *Conf) GetOrder(ctx context.Context, orderID string) (Order, error) {
	var order Order
	var methodID sql.NullString
	var statusOrdinal int
	queryOrder := `
		SELECT id, user_id, shipping_method_id, status, subtotal_cents, discount_cents,
		       shipping_cents, tax_cents, total_cents, stripe_session_id, created_at, updated_at
		FROM orders WHERE id = $1
	`
	err := c.db.QueryRowContext(ctx, queryOrder, orderID).Scan(
		&order.ID, &order.UserID, &methodID, &statusOrdinal, &order.SubtotalCents,
		&order.DiscountCents, &order.ShippingCents, &order.TaxCents, &order.TotalCents,
		&order.StripeSessionID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("failed to query order: %w", err)
	}
	order.Status = Status(statusOrdinal)
	if methodID.Valid {
		order.ShippingMethodID = methodID.String
	}

	queryItems := `
		SELECT id, order_id, product_variant_id, quantity, unit_price_cents
		FROM order_items WHERE order_id = $1 ORDER BY id
	`
	rows, err := c.db.QueryContext(ctx, queryItems, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.VariantID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return Order{}, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Order{}, fmt.Errorf("error iterating order items: %w", err)
	}

	queryPayments := `
		SELECT id, order_id, status, amount_cents, stripe_transaction_id, created_at, updated_at
		FROM payments WHERE order_id = $1 ORDER BY created_at
	`
	payRows, err := c.db.QueryContext(ctx, queryPayments, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("failed to query payments: %w", err)
	}
	defer payRows.Close()
	for payRows.Next() {
		var p Payment
		var status string
		if err := payRows.Scan(&p.ID, &p.OrderID, &status, &p.AmountCents,
			&p.StripeTransactionID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return Order{}, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Status = PaymentStatus(status)
		order.Payments = append(order.Payments, p)
	}
	if err := payRows.Err(); err != nil {
		return Order{}, fmt.Errorf("error iterating payments: %w", err)
	}

	return order, nil
}

// ListUserOrders returns a user's orders, newest first, without lines.
func (c *Conf) ListUserOrders(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	query := `
		SELECT id, user_id, status, subtotal_cents, discount_cents, shipping_cents,
		       tax_cents, total_cents, created_at, updated_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := c.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		var o Order
		var statusOrdinal int
		if err := rows.Scan(&o.ID, &o.UserID, &statusOrdinal, &o.SubtotalCents, &o.DiscountCents,
			&o.ShippingCents, &o.TaxCents, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Status = Status(statusOrdinal)
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return list, nil
}

// Cancel transitions an order to cancelled and restores the reserved
// stock. Only pending_payment, paid, and processing orders qualify.
func (c *Conf) Cancel(ctx context.Context, orderID, userID string) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		var statusOrdinal int
		queryOrder := `SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`
		err := tx.QueryRowContext(ctx, queryOrder, orderID, userID).Scan(&statusOrdinal)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to query order: %w", err)
		}
		if !Status(statusOrdinal).CanCancel() {
			return ErrNotCancellable
		}

		queryRestore := `
			UPDATE product_variants v
			SET stock_quantity = v.stock_quantity + oi.quantity, updated_at = NOW()
			FROM order_items oi
			WHERE oi.order_id = $1 AND oi.product_variant_id = v.id
		`
		if _, err := tx.ExecContext(ctx, queryRestore, orderID); err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}

		queryCancel := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
		if _, err := tx.ExecContext(ctx, queryCancel, int(StatusCancelled), orderID); err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		return nil
	})
}

// MarkPaid records a successful payment: the payment row completes and
// the order moves to paid. Returns the updated order for event
// publishing.
func (c *Conf) MarkPaid(ctx context.Context, orderID, stripeTransactionID string) (Order, error) {
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
			int(StatusPaid), orderID, int(StatusPendingPayment))
		if err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}

		queryPayment := `
			UPDATE payments SET status = $1, stripe_transaction_id = $2, updated_at = NOW()
			WHERE order_id = $3 AND status = $4
		`
		if _, err := tx.ExecContext(ctx, queryPayment,
			string(PaymentCompleted), stripeTransactionID, orderID, string(PaymentPending)); err != nil {
			return fmt.Errorf("failed to complete payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return c.GetOrder(ctx, orderID)
}

// GetShippingMethod loads a carrier with its per-kg fee model.
func (c *Conf) GetShippingMethod(ctx context.Context, methodID string) (pricing.ShippingMethod, error) {
	var m pricing.ShippingMethod
	query := `SELECT id, name, base_fee_cents, per_kg_fee_cents, created_at FROM shipping_methods WHERE id = $1`
	err := c.db.QueryRowContext(ctx, query, methodID).Scan(
		&m.ID, &m.Name, &m.BaseFeeCents, &m.PerKgFeeCents, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.ShippingMethod{}, ErrNotFound
		}
		return pricing.ShippingMethod{}, fmt.Errorf("failed to query shipping method: %w", err)
	}
	return m, nil
}

// SaveAddress stores a shipping or billing address against its owner.
func (c *Conf) SaveAddress(ctx context.Context, addr Address) (Address, error) {
	query := `
		INSERT INTO addresses (owner_type, owner_id, kind, street, city, state, zip, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`
	err := c.db.QueryRowContext(ctx, query, addr.OwnerType, addr.OwnerID, addr.Kind,
		addr.Street, addr.City, addr.State, addr.Zip, addr.Country).Scan(&addr.ID, &addr.CreatedAt)
	if err != nil {
		return Address{}, fmt.Errorf("failed to insert address: %w", err)
	}
	return addr, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
