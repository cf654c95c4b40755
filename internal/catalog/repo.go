// Package catalog provides read access to the product kit catalog.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("kit not found")

type Repository interface {
	GetByID(ctx context.Context, id string) (*Kit, error)
	GetBySKU(ctx context.Context, sku string) (*Kit, error)
	List(ctx context.Context, q Query) ([]Kit, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Kit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanKit(r.db.QueryRow(ctx, `
		SELECT id, sku, name, price::text, stock, created_at, updated_at
		FROM product_kits WHERE id=$1
	`, id))
}

func (r *PGRepo) GetBySKU(ctx context.Context, sku string) (*Kit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanKit(r.db.QueryRow(ctx, `
		SELECT id, sku, name, price::text, stock, created_at, updated_at
		FROM product_kits WHERE sku=$1
	`, sku))
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Kit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT id, sku, name, price::text, stock, created_at, updated_at
		FROM product_kits
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR sku ILIKE '%'||$1||'%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Kit
	for rows.Next() {
		var (
			k     Kit
			price string
		)
		if err := rows.Scan(&k.ID, &k.SKU, &k.Name, &price, &k.Stock, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		if k.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

type row interface {
	Scan(dest ...any) error
}

func scanKit(r row) (*Kit, error) {
	var (
		k     Kit
		price string
	)
	err := r.Scan(&k.ID, &k.SKU, &k.Name, &price, &k.Stock, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if k.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	return &k, nil
}
