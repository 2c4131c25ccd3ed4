package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/quickhatch/storefront/internal/order/application"
	"github.com/quickhatch/storefront/internal/order/domain"
)

const uniqueViolation = "23505"

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number=$1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("order number lookup: %w", err)
	}
	return exists, nil
}

// CreateWithOutbox commits the whole checkout in one transaction: order
// header, item snapshots, conditional stock decrements, cart clear and
// the OrderPlaced outbox row. Any failure rolls everything back.
func (r *Repository) CreateWithOutbox(ctx context.Context, o domain.Order, cartID string, eventType string, payload []byte) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders
			(id, order_number, user_id, address_id, payment_method, status, payment_status,
			 subtotal, tax, shipping_cost, discount, total, notes,
			 ship_full_name, ship_phone, ship_street, ship_city, ship_state, ship_postal_code, ship_country,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		o.ID, o.OrderNumber, o.UserID, o.AddressID, o.PaymentMethod, o.Status, o.PaymentStatus,
		o.Subtotal, o.Tax, o.ShippingCost, o.Discount, o.Total, o.Notes,
		o.ShipTo.FullName, o.ShipTo.Phone, o.ShipTo.Street, o.ShipTo.City, o.ShipTo.State, o.ShipTo.PostalCode, o.ShipTo.Country,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "orders_order_number_key" {
			return application.ErrDuplicateOrderNumber
		}
		return fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range o.Items {
		batch.Queue(`INSERT INTO order_items (id, order_id, product_id, name, sku, quantity, price, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			it.ID, o.ID, it.ProductID, it.Name, it.SKU, it.Quantity, it.Price, it.Total)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}

	// Conditional decrement: the guard re-checks stock under the row
	// lock, so a concurrent checkout that lost the race aborts here
	// instead of driving quantity negative.
	for _, it := range o.Items {
		ct, err := tx.Exec(ctx, `UPDATE products
			SET quantity = quantity - $2, updated_at = $3
			WHERE id = $1 AND is_active AND quantity >= $2`,
			it.ProductID, it.Quantity, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", it.ProductID, err)
		}
		if ct.RowsAffected() == 0 {
			return &application.StockError{ProductName: it.Name}
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := insertOutbox(ctx, tx, "order", o.ID, eventType, payload); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return application.ErrDuplicateOrderNumber
		}
		return fmt.Errorf("commit checkout: %w", err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, orderSelect+` WHERE o.user_id=$1 ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	ids := make([]string, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *Repository) GetByUser(ctx context.Context, userID, orderID string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, orderSelect+` WHERE o.id=$1 AND o.user_id=$2`, orderID, userID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, application.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	items, err := r.itemsFor(ctx, []string{o.ID})
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// CancelWithOutbox flips a cancellable order to CANCELLED, returns the
// decremented stock to the products and writes the OrderCancelled
// outbox row, all under one transaction with the order row locked.
func (r *Repository) CancelWithOutbox(ctx context.Context, userID, orderID string, eventType string, payload []byte) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin cancel tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var status domain.Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 AND user_id=$2 FOR UPDATE`, orderID, userID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, application.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("lock order: %w", err)
	}
	if !status.CanCancel() {
		return domain.Order{}, application.ErrNotCancellable
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=$3 WHERE id=$1`,
		orderID, domain.StatusCancelled, now); err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}

	// Restock: the item snapshots record exactly what was taken. A
	// product deleted since the order affects zero rows, which is fine.
	if _, err := tx.Exec(ctx, `UPDATE products p
		SET quantity = p.quantity + oi.quantity, updated_at = $2
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id`,
		orderID, now); err != nil {
		return domain.Order{}, fmt.Errorf("restock cancelled order: %w", err)
	}

	if err := insertOutbox(ctx, tx, "order", orderID, eventType, payload); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("commit cancel: %w", err)
	}

	return r.GetByUser(ctx, userID, orderID)
}

// orderSelect joins the optional shipment so a single scan hydrates both.
const orderSelect = `SELECT o.id, o.order_number, o.user_id, o.address_id, o.payment_method, o.status, o.payment_status,
	o.subtotal, o.tax, o.shipping_cost, o.discount, o.total, o.notes,
	o.ship_full_name, o.ship_phone, o.ship_street, o.ship_city, o.ship_state, o.ship_postal_code, o.ship_country,
	o.created_at, o.updated_at,
	s.id, s.carrier, s.tracking_number, s.status, s.shipped_at, s.delivered_at
	FROM orders o LEFT JOIN shipments s ON s.order_id = o.id`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var shipID, carrier, tracking *string
	var shipStatus *domain.ShipmentStatus
	var shippedAt, deliveredAt *time.Time

	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.AddressID, &o.PaymentMethod, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.Tax, &o.ShippingCost, &o.Discount, &o.Total, &o.Notes,
		&o.ShipTo.FullName, &o.ShipTo.Phone, &o.ShipTo.Street, &o.ShipTo.City, &o.ShipTo.State, &o.ShipTo.PostalCode, &o.ShipTo.Country,
		&o.CreatedAt, &o.UpdatedAt,
		&shipID, &carrier, &tracking, &shipStatus, &shippedAt, &deliveredAt)
	if err != nil {
		return domain.Order{}, err
	}

	if shipID != nil {
		o.Shipment = &domain.Shipment{
			ID:          *shipID,
			Status:      *shipStatus,
			ShippedAt:   shippedAt,
			DeliveredAt: deliveredAt,
		}
		if carrier != nil {
			o.Shipment.Carrier = *carrier
		}
		if tracking != nil {
			o.Shipment.TrackingNumber = *tracking
		}
	}
	return o, nil
}

func (r *Repository) itemsFor(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_id, product_id, name, sku, quantity, price, total
		FROM order_items WHERE order_id = ANY($1) ORDER BY name`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var it domain.OrderItem
		var orderID string
		if err := rows.Scan(&it.ID, &orderID, &it.ProductID, &it.Name, &it.SKU, &it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], it)
	}
	return items, rows.Err()
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType string, payload []byte) error {
	// The active trace follows the event through the relay to Kafka.
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	_, err := tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,'pending')`,
		aggregateType, aggregateID, eventType, payload, carrier["traceparent"])
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}
