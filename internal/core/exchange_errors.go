package core

import "errors"

var (
	// ErrValidation marks malformed or incomplete user input, detected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrAuthentication indicates the exchange refused the credentials or the initial liveness check failed.
	ErrAuthentication = errors.New("authentication failed")
	// ErrOrderRejected indicates the exchange rejected the request on business rules.
	ErrOrderRejected = errors.New("order rejected")
	// ErrTransport indicates a network or API level failure (timeouts, 5xx, rate limits).
	ErrTransport = errors.New("transport error")
	// ErrNotFound indicates the symbol or order does not exist on exchange.
	ErrNotFound = errors.New("not found")
	// ErrDisconnected indicates the gateway is not connected.
	ErrDisconnected = errors.New("gateway disconnected")

	// ErrInsufficientBalance indicates the exchange rejected the action due to insufficient funds.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrDuplicateOrder indicates the client order id has already been accepted before.
	ErrDuplicateOrder = errors.New("duplicate order")
	// ErrOrderNotFound indicates the order does not exist on exchange.
	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError carries the offending field and a human readable reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Kind maps err onto a stable label for logs. Checks run from most to least specific.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDisconnected):
		return "disconnected"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOrderNotFound):
		return "not_found"
	case errors.Is(err, ErrOrderRejected):
		return "rejected"
	case errors.Is(err, ErrTransport):
		return "transport"
	}
	return "unknown"
}
