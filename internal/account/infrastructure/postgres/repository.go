package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickhatch/storefront/internal/account/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const addressSelect = `SELECT id, user_id, full_name, phone, street, city, state, postal_code, country,
	is_default, created_at, updated_at FROM addresses`

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.pool.Query(ctx, addressSelect+` WHERE user_id=$1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GetByUser(ctx context.Context, userID, addressID string) (domain.Address, error) {
	a, err := scanAddress(r.pool.QueryRow(ctx, addressSelect+` WHERE id=$1 AND user_id=$2`, addressID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	return a, err
}

// Create inserts the address; when it is marked default, the user's
// previous default is demoted in the same transaction.
func (r *Repository) Create(ctx context.Context, a domain.Address) (domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Address{}, fmt.Errorf("begin address tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if a.IsDefault {
		if err := demoteDefault(ctx, tx, a.UserID, a.ID); err != nil {
			return domain.Address{}, err
		}
	}

	_, err = tx.Exec(ctx, `INSERT INTO addresses
			(id, user_id, full_name, phone, street, city, state, postal_code, country, is_default, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.UserID, a.FullName, a.Phone, a.Street, a.City, a.State, a.PostalCode, a.Country,
		a.IsDefault, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return domain.Address{}, fmt.Errorf("insert address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Address{}, fmt.Errorf("commit address: %w", err)
	}
	return a, nil
}

func (r *Repository) Update(ctx context.Context, userID, addressID string, patch domain.AddressPatch) (domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Address{}, fmt.Errorf("begin address tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	a, err := scanAddress(tx.QueryRow(ctx, addressSelect+` WHERE id=$1 AND user_id=$2 FOR UPDATE`, addressID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	if err != nil {
		return domain.Address{}, err
	}

	apply(&a, patch)
	a.UpdatedAt = time.Now().UTC()

	if patch.IsDefault != nil && *patch.IsDefault {
		if err := demoteDefault(ctx, tx, userID, addressID); err != nil {
			return domain.Address{}, err
		}
	}

	_, err = tx.Exec(ctx, `UPDATE addresses
		SET full_name=$3, phone=$4, street=$5, city=$6, state=$7, postal_code=$8, country=$9, is_default=$10, updated_at=$11
		WHERE id=$1 AND user_id=$2`,
		a.ID, a.UserID, a.FullName, a.Phone, a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault, a.UpdatedAt)
	if err != nil {
		return domain.Address{}, fmt.Errorf("update address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Address{}, fmt.Errorf("commit address: %w", err)
	}
	return a, nil
}

func (r *Repository) Delete(ctx context.Context, userID, addressID string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id=$1 AND user_id=$2`, addressID, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}

func demoteDefault(ctx context.Context, tx pgx.Tx, userID, keepID string) error {
	_, err := tx.Exec(ctx, `UPDATE addresses SET is_default=false, updated_at=$3
		WHERE user_id=$1 AND id <> $2 AND is_default`, userID, keepID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("demote default address: %w", err)
	}
	return nil
}

func apply(a *domain.Address, p domain.AddressPatch) {
	if p.FullName != nil {
		a.FullName = *p.FullName
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.PostalCode != nil {
		a.PostalCode = *p.PostalCode
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	if p.IsDefault != nil {
		a.IsDefault = *p.IsDefault
	}
}

func scanAddress(row pgx.Row) (domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Street, &a.City, &a.State,
		&a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
