package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kit is a configured product bundle sold under a single SKU. The catalog
// owns mutation; this service only reads it.
type Kit struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
	// NUMERIC in Postgres, scanned as text to avoid float rounding
	Price     decimal.Decimal `json:"price"`
	Stock     *int            `json:"stock,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Query struct {
	Q      string
	Limit  int
	Offset int
}

// ListResponse is the paginated kit listing.
type ListResponse struct {
	Q      string `json:"q,omitempty"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Items  []Kit  `json:"items"`
}
