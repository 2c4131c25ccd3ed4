package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickhatch/storefront/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const productSelect = `SELECT id, name, sku, slug, price, quantity, is_active, created_at, updated_at FROM products`

func (r *Repository) GetByID(ctx context.Context, productID string) (domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE id=$1`, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, err
}

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	q := productSelect + ` ORDER BY name`
	if activeOnly {
		q = productSelect + ` WHERE is_active ORDER BY name`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Slug, &p.Price, &p.Quantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
