package order

import "errors"

var (
	ErrNotFound = errors.New("order not found")

	// ErrPaymentIDConflict marks a payment notification that targets an
	// already-settled order with a different external payment id. The caller
	// decides whether to absorb it; it is never a retryable condition.
	ErrPaymentIDConflict = errors.New("conflicting external payment id for settled order")
)

// ValidationError is bad caller input; safe to surface verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(msg string) error { return &ValidationError{Msg: msg} }
