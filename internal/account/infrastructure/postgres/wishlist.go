package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickhatch/storefront/internal/account/domain"
)

type WishlistRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewWishlistRepository(log *slog.Logger, pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{log: log, pool: pool}
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, product_id, created_at
		FROM wishlists WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var out []domain.WishlistItem
	for rows.Next() {
		var it domain.WishlistItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *WishlistRepository) Delete(ctx context.Context, userID, itemID string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM wishlists WHERE id=$1 AND user_id=$2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrWishlistItemNotFound
	}
	return nil
}
