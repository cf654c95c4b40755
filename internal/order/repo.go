package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	UpdateFulfillmentStatus(ctx context.Context, id, status string) error
	// MarkPayment transitions payment_status only when the order is still
	// pending; it reports whether the row was actually transitioned.
	MarkPayment(ctx context.Context, id, status, externalPaymentID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (
      id, order_number,
      customer_name, customer_email, customer_phone,
      customer_address, customer_city, customer_zip,
      payment_method, payment_status, fulfillment_status,
      total, currency, created_at, updated_at
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
  `, o.ID, o.OrderNumber,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.CustomerAddress, o.CustomerCity, o.CustomerZip,
		o.PaymentMethod, o.PaymentStatus, o.FulfillmentStatus,
		o.Total.String(), o.Currency); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (id, order_id, product_kit_id, sku, name, quantity, price)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, it.ID, o.ID, it.ProductKitID, it.SKU, it.Name, it.Quantity, it.Price.String()); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, selectOrder+` WHERE id=$1`, id))
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, product_kit_id, sku, name, quantity, price::text
    FROM order_items WHERE order_id=$1
  `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it    Item
			price string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductKitID, &it.SKU, &it.Name, &it.Quantity, &price); err != nil {
			return nil, nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return o, items, rows.Err()
}

func (r *PGRepo) GetByNumber(ctx context.Context, number string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanOrder(r.db.QueryRow(ctx, selectOrder+` WHERE order_number=$1`, number))
}

func (r *PGRepo) UpdateFulfillmentStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET fulfillment_status = $2, updated_at = NOW()
    WHERE id = $1
  `, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPayment is the single money-affecting write. The pending guard makes
// concurrent duplicate webhook deliveries converge on one transition instead
// of racing an unconditional overwrite.
func (r *PGRepo) MarkPayment(ctx context.Context, id, status, externalPaymentID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET payment_status = $2, external_payment_id = $3, updated_at = NOW()
    WHERE id = $1 AND payment_status = 'pending'
  `, id, status, externalPaymentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const selectOrder = `
    SELECT id, order_number,
           customer_name, customer_email, customer_phone,
           customer_address, customer_city, customer_zip,
           payment_method, payment_status, fulfillment_status,
           total::text, currency, COALESCE(external_payment_id, ''),
           created_at, updated_at
    FROM orders`

type row interface {
	Scan(dest ...any) error
}

func scanOrder(r row) (*Order, error) {
	var (
		o     Order
		total string
	)
	err := r.Scan(&o.ID, &o.OrderNumber,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.CustomerAddress, &o.CustomerCity, &o.CustomerZip,
		&o.PaymentMethod, &o.PaymentStatus, &o.FulfillmentStatus,
		&total, &o.Currency, &o.ExternalPaymentID,
		&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	return &o, nil
}
