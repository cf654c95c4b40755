package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MethodCashOnDelivery = "cash_on_delivery"
	MethodGateway        = "gateway"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

const (
	FulfillmentNew        = "new"
	FulfillmentProcessing = "processing"
	FulfillmentShipped    = "shipped"
	FulfillmentCompleted  = "completed"
	FulfillmentCancelled  = "cancelled"
)

// Order is append-only: never deleted, only status-transitioned. Total is
// fixed at creation and never recomputed.
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email"`
	CustomerPhone     string          `json:"customer_phone"`
	CustomerAddress   string          `json:"customer_address"`
	CustomerCity      string          `json:"customer_city"`
	CustomerZip       string          `json:"customer_zip"`
	PaymentMethod     string          `json:"payment_method"`
	PaymentStatus     string          `json:"payment_status"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	Total             decimal.Decimal `json:"total"`
	Currency          string          `json:"currency"`
	ExternalPaymentID string          `json:"external_payment_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Item is owned by its order and immutable after creation; price is the
// unit price captured at order time.
type Item struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	ProductKitID string          `json:"product_kit_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

func validFulfillmentStatus(s string) bool {
	switch s {
	case FulfillmentNew, FulfillmentProcessing, FulfillmentShipped, FulfillmentCompleted, FulfillmentCancelled:
		return true
	}
	return false
}
