package services

import (
	"errors"
	"fmt"
)

// ErrEmptyCart blocks checkout before any pricing breakdown is computed or
// submitted.
var ErrEmptyCart = errors.New("cart is empty, nothing to check out")

// ValidationError carries field-level form errors. Fully recoverable: the
// flow returns to idle and the caller fixes the fields and resubmits.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// GatewayError marks a payment-gateway failure, surfaced distinctly from
// generic backend errors. It never implies any cart mutation.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error { return e.Err }
