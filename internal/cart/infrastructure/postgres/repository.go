package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickhatch/storefront/internal/cart/application"
	"github.com/quickhatch/storefront/internal/cart/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// GetOrCreate loads the user's cart with its items, inserting an empty
// cart row on first use. The insert is idempotent under the user_id
// unique constraint so concurrent first touches converge on one cart.
func (r *Repository) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1,$2,$3,$3) ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), userID, now)
	if err != nil {
		return nil, fmt.Errorf("ensure cart: %w", err)
	}

	var cart domain.Cart
	err = r.pool.QueryRow(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id=$1`, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT ci.id, ci.product_id, ci.quantity, ci.added_at, p.name, p.sku, p.price
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id=$1 ORDER BY ci.added_at`, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.AddedAt, &it.ProductName, &it.ProductSKU, &it.UnitPrice); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertItem adds quantity to an existing line for the product, or
// inserts a new line.
func (r *Repository) UpsertItem(ctx context.Context, cartID, productID string, quantity int) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO cart_items (id, cart_id, product_id, quantity, added_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		uuid.NewString(), cartID, productID, quantity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *Repository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	ct, err := r.pool.Exec(ctx, `UPDATE cart_items SET quantity=$3 WHERE id=$2 AND cart_id=$1`,
		cartID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return application.ErrItemNotFound
	}
	return r.touch(ctx, cartID)
}

func (r *Repository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id=$2 AND cart_id=$1`, cartID, itemID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return application.ErrItemNotFound
	}
	return r.touch(ctx, cartID)
}

func (r *Repository) Clear(ctx context.Context, cartID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *Repository) touch(ctx context.Context, cartID string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE carts SET updated_at=$2 WHERE id=$1`, cartID, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
