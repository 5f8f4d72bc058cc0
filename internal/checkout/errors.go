package checkout

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrWrongStep         = errors.New("not allowed at this checkout step")
	ErrPaymentInFlight   = errors.New("a payment is already in progress")
	ErrNoPaymentInFlight = errors.New("no payment in progress")
	ErrStaleResult       = errors.New("payment result does not match the pending transaction")
	ErrInvalidMethod     = errors.New("unknown payment method")
	ErrValidation        = errors.New("validation failed")
)

// ValidationError lists the fields that blocked the details step.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
