package order

import "github.com/shopspring/decimal"

// CreateOrderItem is one checkout line; price is the unit price the boundary
// snapshotted from the session cart.
type CreateOrderItem struct {
	ProductKitID string          `json:"productKitId"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	CustomerName    string            `json:"customerName"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerPhone   string            `json:"customerPhone"`
	CustomerAddress string            `json:"customerAddress"`
	CustomerCity    string            `json:"customerCity"`
	CustomerZip     string            `json:"customerZip"`
	PaymentMethod   string            `json:"paymentMethod"`
	Items           []CreateOrderItem `json:"items"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
}
