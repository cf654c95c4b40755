package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service owns order creation and every status transition. Nothing else in
// the codebase writes order rows.
type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

func validateInput(in CreateOrderInput) error {
	required := []struct{ val, name string }{
		{in.CustomerName, "customerName"},
		{in.CustomerEmail, "customerEmail"},
		{in.CustomerPhone, "customerPhone"},
		{in.CustomerAddress, "customerAddress"},
		{in.CustomerCity, "customerCity"},
		{in.CustomerZip, "customerZip"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.val) == "" {
			return validationErrorf(fmt.Sprintf("%s is required", f.name))
		}
	}
	if in.PaymentMethod != MethodCashOnDelivery && in.PaymentMethod != MethodGateway {
		return validationErrorf("paymentMethod must be cash_on_delivery or gateway")
	}
	if len(in.Items) == 0 {
		return validationErrorf("order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.ProductKitID == "" {
			return validationErrorf("item is missing productKitId")
		}
		if it.Quantity < 1 {
			return validationErrorf("item quantity must be at least 1")
		}
		if !it.Price.IsPositive() {
			return validationErrorf("item price must be positive")
		}
	}
	return nil
}

// CreateOrder validates, assigns a unique order number and persists the order
// with its items atomically. Cart clearing for the originating session is the
// boundary's job, not this service's.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput, currency string) (*Order, []Item, error) {
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}

	total := decimal.Zero
	for _, it := range in.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !in.TotalAmount.IsZero() && !in.TotalAmount.Equal(total) {
		return nil, nil, validationErrorf("totalAmount does not match the sum of item prices")
	}

	number, err := s.uniqueOrderNumber(ctx)
	if err != nil {
		return nil, nil, err
	}

	o := &Order{
		ID:                uuid.NewString(),
		OrderNumber:       number,
		CustomerName:      in.CustomerName,
		CustomerEmail:     in.CustomerEmail,
		CustomerPhone:     in.CustomerPhone,
		CustomerAddress:   in.CustomerAddress,
		CustomerCity:      in.CustomerCity,
		CustomerZip:       in.CustomerZip,
		PaymentMethod:     in.PaymentMethod,
		PaymentStatus:     PaymentPending,
		FulfillmentStatus: FulfillmentNew,
		Total:             total,
		Currency:          currency,
		CreatedAt:         s.now(),
		UpdatedAt:         s.now(),
	}
	items := make([]Item, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, Item{
			ID:           uuid.NewString(),
			OrderID:      o.ID,
			ProductKitID: it.ProductKitID,
			SKU:          it.SKU,
			Name:         it.Name,
			Quantity:     it.Quantity,
			Price:        it.Price,
		})
	}

	if err := s.repo.Create(ctx, o, items); err != nil {
		return nil, nil, fmt.Errorf("persist order: %w", err)
	}
	s.log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("payment_method", o.PaymentMethod),
		zap.String("total", o.Total.String()),
	)
	return o, items, nil
}

// uniqueOrderNumber generates a human-readable number and collision-checks it
// against the store. Numbers are never reused, even after cancellation.
func (s *Service) uniqueOrderNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
		number := fmt.Sprintf("KS-%s-%s", s.now().Format("20060102"), suffix)
		_, err := s.repo.GetByNumber(ctx, number)
		if errors.Is(err, ErrNotFound) {
			return number, nil
		}
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
	}
	return "", errors.New("could not generate a unique order number")
}

func (s *Service) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return s.repo.GetByNumber(ctx, number)
}

// UpdateFulfillmentStatus moves the logistics lifecycle only; it never
// touches payment_status.
func (s *Service) UpdateFulfillmentStatus(ctx context.Context, id, status string) error {
	if !validFulfillmentStatus(status) {
		return validationErrorf(fmt.Sprintf("unknown fulfillment status %q", status))
	}
	if err := s.repo.UpdateFulfillmentStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.Info("fulfillment status updated", zap.String("order_id", id), zap.String("status", status))
	return nil
}

// UpdatePaymentStatus is the only path that marks an order paid or failed.
// Re-applying the same terminal status with the same external payment id is
// an idempotent no-op; a different id on a settled order is reported as
// ErrPaymentIDConflict so the caller can log it as a tampering signal.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id, status, externalPaymentID string) error {
	if status != PaymentPaid && status != PaymentFailed {
		return validationErrorf(fmt.Sprintf("unknown payment status %q", status))
	}

	applied, err := s.repo.MarkPayment(ctx, id, status, externalPaymentID)
	if err != nil {
		return fmt.Errorf("mark payment: %w", err)
	}
	if applied {
		s.log.Info("payment status updated",
			zap.String("order_id", id),
			zap.String("status", status),
			zap.String("external_payment_id", externalPaymentID),
		)
		return nil
	}

	// No row transitioned: the order is unknown or already settled.
	o, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.PaymentStatus == status && o.ExternalPaymentID == externalPaymentID {
		s.log.Debug("duplicate payment notification absorbed",
			zap.String("order_id", id),
			zap.String("external_payment_id", externalPaymentID),
		)
		return nil
	}
	s.log.Warn("payment notification conflicts with settled order",
		zap.String("order_id", id),
		zap.String("recorded_status", o.PaymentStatus),
		zap.String("recorded_external_payment_id", o.ExternalPaymentID),
		zap.String("notified_status", status),
		zap.String("notified_external_payment_id", externalPaymentID),
	)
	return ErrPaymentIDConflict
}
