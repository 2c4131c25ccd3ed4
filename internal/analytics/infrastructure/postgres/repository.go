package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/quickhatch/storefront/internal/analytics/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// revenueStatuses are the order states that count as realised revenue.
const revenueStatuses = `('PROCESSING','SHIPPED','DELIVERED')`

// RevenueAndCount aggregates orders created between daysAgoStart and
// daysAgoEnd days ago; daysAgoEnd of zero means "now".
func (r *Repository) RevenueAndCount(ctx context.Context, daysAgoStart, daysAgoEnd int) (decimal.Decimal, int, error) {
	var revenue decimal.Decimal
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM orders
		WHERE status IN `+revenueStatuses+`
		  AND created_at >= now() - $1 * interval '1 day'
		  AND created_at <  now() - $2 * interval '1 day'`,
		daysAgoStart, daysAgoEnd).Scan(&revenue, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("revenue window: %w", err)
	}
	return revenue, count, nil
}

func (r *Repository) DailySales(ctx context.Context, days int) ([]domain.DailyPoint, error) {
	rows, err := r.pool.Query(ctx, `SELECT date_trunc('day', created_at) AS day, COALESCE(SUM(total), 0), COUNT(*)
		FROM orders
		WHERE status IN `+revenueStatuses+`
		  AND created_at >= now() - $1 * interval '1 day'
		GROUP BY day ORDER BY day`, days)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	defer rows.Close()

	var out []domain.DailyPoint
	for rows.Next() {
		var p domain.DailyPoint
		if err := rows.Scan(&p.Date, &p.Revenue, &p.Orders); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// TopProducts ranks by units sold from the order item snapshots, so
// renamed or deleted products still report under their sale-time name.
func (r *Repository) TopProducts(ctx context.Context, days, limit int) ([]domain.TopProduct, error) {
	rows, err := r.pool.Query(ctx, `SELECT oi.product_id, oi.name, SUM(oi.quantity)::int, COALESCE(SUM(oi.total), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status IN `+revenueStatuses+`
		  AND o.created_at >= now() - $1 * interval '1 day'
		GROUP BY oi.product_id, oi.name
		ORDER BY SUM(oi.quantity) DESC, oi.name
		LIMIT $2`, days, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []domain.TopProduct
	for rows.Next() {
		var tp domain.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.UnitsSold, &tp.Revenue); err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}
