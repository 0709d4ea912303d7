package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound signals a missing active cart or cart line. Callers
	// branch on it; it is not a crash condition.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuantity rejects non-positive quantities at the model
	// boundary.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrUnknownVariant rejects adds for variants that do not exist.
	ErrUnknownVariant = errors.New("product variant not found")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// ownerClause returns the WHERE fragment and argument selecting the
// owner column. Owner is validated by the caller.
func ownerClause(owner Owner) (string, any) {
	if owner.UserID != "" {
		return "user_id = $1", owner.UserID
	}
	return "session_id = $1", owner.SessionID
}

// AddItem adds quantity of a variant to the owner's active cart,
// creating the cart lazily on first add. Re-adding the same variant
// increments the existing line instead of duplicating it. Stock is not
// checked here; sufficiency is a checkout-time concern.
func (c *Conf) AddItem(ctx context.Context, owner Owner, variantID string, quantity int) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM product_variants WHERE id = $1)`, variantID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check variant: %w", err)
		}
		if !exists {
			return ErrUnknownVariant
		}

		cartID, err := c.findOrCreateActiveCart(ctx, tx, owner)
		if err != nil {
			return err
		}

		queryUpsertItem := `
			INSERT INTO cart_items (cart_id, product_variant_id, quantity, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (cart_id, product_variant_id)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, queryUpsertItem, cartID, variantID, quantity); err != nil {
			return fmt.Errorf("failed to add item to cart: %w", err)
		}
		return nil
	})
}

func (c *Conf) findOrCreateActiveCart(ctx context.Context, tx *sql.Tx, owner Owner) (string, error) {
	clause, arg := ownerClause(owner)

	var cartID string
	queryActiveCart := `SELECT id FROM carts WHERE ` + clause + ` AND status = 'active' FOR UPDATE`
	err := tx.QueryRowContext(ctx, queryActiveCart, arg).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to query active cart: %w", err)
	}

	cartID = uuid.NewString()
	var userID, sessionID sql.NullString
	if owner.UserID != "" {
		userID = sql.NullString{String: owner.UserID, Valid: true}
	} else {
		sessionID = sql.NullString{String: owner.SessionID, Valid: true}
	}
	queryCreateCart := `
		INSERT INTO carts (id, user_id, session_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'active', NOW(), NOW())
	`
	if _, err := tx.ExecContext(ctx, queryCreateCart, cartID, userID, sessionID); err != nil {
		return "", fmt.Errorf("failed to create new cart: %w", err)
	}
	return cartID, nil
}

// UpdateItemQuantity sets the quantity of an existing line. A quantity
// of zero or less removes the line instead.
func (c *Conf) UpdateItemQuantity(ctx context.Context, owner Owner, variantID string, quantity int) error {
	if err := owner.Validate(); err != nil {
		return err
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := c.activeCartID(ctx, tx, owner)
		if err != nil {
			return err
		}

		if quantity <= 0 {
			queryDelete := `DELETE FROM cart_items WHERE cart_id = $1 AND product_variant_id = $2`
			if _, err := tx.ExecContext(ctx, queryDelete, cartID, variantID); err != nil {
				return fmt.Errorf("failed to remove cart item: %w", err)
			}
			return nil
		}

		queryUpdate := `
			UPDATE cart_items SET quantity = $1, updated_at = NOW()
			WHERE cart_id = $2 AND product_variant_id = $3
		`
		res, err := tx.ExecContext(ctx, queryUpdate, quantity, cartID, variantID)
		if err != nil {
			return fmt.Errorf("failed to update cart item quantity: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// RemoveItem deletes the matching line. Removing an absent line is a
// no-op.
func (c *Conf) RemoveItem(ctx context.Context, owner Owner, variantID string) error {
	if err := owner.Validate(); err != nil {
		return err
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := c.activeCartID(ctx, tx, owner)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		queryDelete := `DELETE FROM cart_items WHERE cart_id = $1 AND product_variant_id = $2`
		if _, err := tx.ExecContext(ctx, queryDelete, cartID, variantID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	})
}

// Clear removes every line from the owner's active cart.
func (c *Conf) Clear(ctx context.Context, owner Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := c.activeCartID(ctx, tx, owner)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}

func (c *Conf) activeCartID(ctx context.Context, tx *sql.Tx, owner Owner) (string, error) {
	clause, arg := ownerClause(owner)

	var cartID string
	query := `SELECT id FROM carts WHERE ` + clause + ` AND status = 'active' FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, arg).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to query active cart: %w", err)
	}
	return cartID, nil
}

// GetActiveCart loads the owner's active cart with every line joined to
// its live variant. Returns ErrNotFound when the owner has no active
// cart yet.
func (c *Conf) GetActiveCart(ctx context.Context, owner Owner) (Cart, error) {
	if err := owner.Validate(); err != nil {
		return Cart{}, err
	}

	clause, arg := ownerClause(owner)

	var loaded Cart
	queryCart := `
		SELECT id, COALESCE(user_id::text, ''), COALESCE(session_id, ''), status, created_at, updated_at
		FROM carts WHERE ` + clause + ` AND status = 'active'
	`
	err := c.db.QueryRowContext(ctx, queryCart, arg).Scan(
		&loaded.ID, &loaded.UserID, &loaded.SessionID, &loaded.Status, &loaded.CreatedAt, &loaded.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, ErrNotFound
		}
		return Cart{}, fmt.Errorf("failed to query active cart: %w", err)
	}

	queryItems := `
		SELECT ci.id, ci.quantity, ci.created_at, ci.updated_at,
		       v.id, v.product_id, v.sku, v.price_cents, v.stock_quantity, v.options
		FROM cart_items ci
		JOIN product_variants v ON v.id = ci.product_variant_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`
	rows, err := c.db.QueryContext(ctx, queryItems, loaded.ID)
	if err != nil {
		return Cart{}, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		var optionsRaw []byte
		if err := rows.Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&item.Variant.ID, &item.Variant.ProductID, &item.Variant.SKU,
			&item.Variant.PriceCents, &item.Variant.StockQuantity, &optionsRaw); err != nil {
			return Cart{}, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if err := json.Unmarshal(optionsRaw, &item.Variant.Options); err != nil {
			return Cart{}, fmt.Errorf("failed to decode variant options: %w", err)
		}
		item.CartID = loaded.ID
		loaded.Items = append(loaded.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Cart{}, fmt.Errorf("error iterating cart items: %w", err)
	}

	return loaded, nil
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
