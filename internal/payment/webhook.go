package payment

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/kitforge/kitshop/internal/order"
)

// Notification is the gateway's asynchronous payment report. Field names are
// the gateway's contract, not ours to change. Delivery is at-least-once and
// unauthenticated: the sign field is the sole trust mechanism.
type Notification struct {
	SessionID string `json:"sessionId"`
	OrderID   int64  `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Sign      string `json:"sign"`
}

var (
	ErrBadSignature   = errors.New("notification signature mismatch")
	ErrAmountMismatch = errors.New("notification amount or currency does not match order")
)

// OrderUpdater is the slice of order.Service the reconciler needs.
type OrderUpdater interface {
	GetByNumber(ctx context.Context, number string) (*order.Order, error)
	UpdatePaymentStatus(ctx context.Context, id, status, externalPaymentID string) error
}

// Reconciler decides whether to believe an inbound payment notification and
// applies the idempotent paid transition when it checks out.
type Reconciler struct {
	orders OrderUpdater
	cfg    Config
	log    *zap.Logger
}

func NewReconciler(orders OrderUpdater, cfg Config, log *zap.Logger) *Reconciler {
	return &Reconciler{orders: orders, cfg: cfg, log: log}
}

// Reconcile verifies and applies one notification. It fails closed: no order
// mutation happens before the signature, order and amount checks all pass,
// and success is only reported after the status write is durably committed.
func (r *Reconciler) Reconcile(ctx context.Context, n Notification) error {
	expected := NotificationSign(n.SessionID, n.OrderID, n.Amount, n.Currency, r.cfg.CRC)
	if !signaturesEqual(expected, n.Sign) {
		r.log.Warn("rejected notification with invalid signature",
			zap.String("session_id", n.SessionID),
			zap.Int64("external_order_id", n.OrderID),
		)
		return ErrBadSignature
	}

	o, err := r.orders.GetByNumber(ctx, n.SessionID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			r.log.Warn("notification for unknown order number", zap.String("session_id", n.SessionID))
		}
		return err
	}

	if MinorUnits(o.Total) != n.Amount || o.Currency != n.Currency {
		r.log.Error("notification amount mismatch, manual reconciliation required",
			zap.String("order_number", o.OrderNumber),
			zap.Int64("notified_amount", n.Amount),
			zap.String("notified_currency", n.Currency),
			zap.String("order_total", o.Total.String()),
			zap.String("order_currency", o.Currency),
		)
		return ErrAmountMismatch
	}

	err = r.orders.UpdatePaymentStatus(ctx, o.ID, order.PaymentPaid, strconv.FormatInt(n.OrderID, 10))
	if errors.Is(err, order.ErrPaymentIDConflict) {
		// Already settled under another transaction id. Acknowledge so the
		// gateway stops retrying; the conflict is logged by the order service.
		return nil
	}
	return err
}
