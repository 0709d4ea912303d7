package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSKU surfaces the unique constraint on sku as a typed
	// error the handler can report cleanly.
	ErrDuplicateSKU = errors.New("sku already exists")
)

const pgUniqueViolation = "23505"

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// InsertProduct writes the product and its variants in one tx.
func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	product := Product{
		ID:          uuid.NewString(),
		Name:        np.Name,
		Description: np.Description,
		Category:    np.Category,
		Featured:    np.Featured,
	}

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryProduct := `
			INSERT INTO products (id, name, description, category, featured, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING created_at, updated_at
		`
		err := tx.QueryRowContext(ctx, queryProduct,
			product.ID, product.Name, product.Description, product.Category, product.Featured).
			Scan(&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}

		for _, nv := range np.Variants {
			variant := ProductVariant{
				ID:            uuid.NewString(),
				ProductID:     product.ID,
				SKU:           nv.SKU,
				PriceCents:    nv.PriceCents,
				StockQuantity: nv.StockQuantity,
				Options:       nv.Options,
			}
			optionsJSON, err := json.Marshal(variant.Options)
			if err != nil {
				return fmt.Errorf("failed to encode variant options: %w", err)
			}
			queryVariant := `
				INSERT INTO product_variants (id, product_id, sku, price_cents, stock_quantity, options, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
				RETURNING created_at, updated_at
			`
			err = tx.QueryRowContext(ctx, queryVariant,
				variant.ID, variant.ProductID, variant.SKU, variant.PriceCents,
				variant.StockQuantity, optionsJSON).
				Scan(&variant.CreatedAt, &variant.UpdatedAt)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
					return fmt.Errorf("sku %q: %w", variant.SKU, ErrDuplicateSKU)
				}
				return fmt.Errorf("failed to insert variant: %w", err)
			}
			product.Variants = append(product.Variants, variant)
		}
		return nil
	})
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

// GetProductByID loads a product with its variants in persistence
// order. Variant order matters: the first variant is the default
// selection.
func (c *Conf) GetProductByID(ctx context.Context, productID string) (Product, error) {
	var product Product
	queryProduct := `
		SELECT id, name, description, category, featured, created_at, updated_at
		FROM products WHERE id = $1
	`
	err := c.db.QueryRowContext(ctx, queryProduct, productID).Scan(
		&product.ID, &product.Name, &product.Description, &product.Category,
		&product.Featured, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("failed to query product: %w", err)
	}

	variants, err := c.variantsForProduct(ctx, productID)
	if err != nil {
		return Product{}, err
	}
	product.Variants = variants
	return product, nil
}

func (c *Conf) variantsForProduct(ctx context.Context, productID string) ([]ProductVariant, error) {
	queryVariants := `
		SELECT id, product_id, sku, price_cents, stock_quantity, options, created_at, updated_at
		FROM product_variants
		WHERE product_id = $1
		ORDER BY created_at, id
	`
	rows, err := c.db.QueryContext(ctx, queryVariants, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	var variants []ProductVariant
	for rows.Next() {
		var v ProductVariant
		var optionsRaw []byte
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.PriceCents,
			&v.StockQuantity, &optionsRaw, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		if err := json.Unmarshal(optionsRaw, &v.Options); err != nil {
			return nil, fmt.Errorf("failed to decode variant options: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}
	return variants, nil
}

// ListProducts returns products filtered by category and/or featured
// flag, with variants attached, newest first.
func (c *Conf) ListProducts(ctx context.Context, category string, featuredOnly bool, limit, offset int) ([]Product, error) {
	query := `
		SELECT id, name, description, category, featured, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR category = $1)
		  AND (NOT $2 OR featured)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`
	rows, err := c.db.QueryContext(ctx, query, category, featuredOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category,
			&p.Featured, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	for i := range list {
		variants, err := c.variantsForProduct(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Variants = variants
	}
	return list, nil
}

// DeleteProduct removes a product; variants cascade.
func (c *Conf) DeleteProduct(ctx context.Context, productID string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReview records a rating for a product.
func (c *Conf) AddReview(ctx context.Context, productID, userID string, nr NewReview) (Review, error) {
	review := Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    nr.Rating,
		Comment:   nr.Comment,
	}
	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	err := c.db.QueryRowContext(ctx, query, productID, userID, nr.Rating, nr.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return Review{}, fmt.Errorf("failed to insert review: %w", err)
	}
	return review, nil
}

// ListReviews returns a product's reviews, newest first.
func (c *Conf) ListReviews(ctx context.Context, productID string) ([]Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at
		FROM reviews WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := c.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
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
