package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickhatch/storefront/internal/catalog/domain"
)

type ReviewRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewReviewRepository(log *slog.Logger, pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{log: log, pool: pool}
}

// List returns reviews for the admin panel, newest first. Both filters
// are optional and combine with AND.
func (r *ReviewRepository) List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	q := `SELECT rv.id, rv.rating, rv.title, rv.comment, rv.is_verified, rv.created_at,
			u.id, u.name, u.email,
			p.id, p.name, p.slug
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		JOIN products p ON p.id = rv.product_id`

	var (
		where []string
		args  []any
	)
	if filter.Verified != nil {
		args = append(args, *filter.Verified)
		where = append(where, fmt.Sprintf("rv.is_verified = $%d", len(args)))
	}
	if filter.Rating >= 1 && filter.Rating <= 5 {
		args = append(args, filter.Rating)
		where = append(where, fmt.Sprintf("rv.rating = $%d", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY rv.created_at DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.Rating, &rv.Title, &rv.Comment, &rv.IsVerified, &rv.CreatedAt,
			&rv.User.ID, &rv.User.Name, &rv.User.Email,
			&rv.Product.ID, &rv.Product.Name, &rv.Product.Slug); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
