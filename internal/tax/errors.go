package tax

import (
	"errors"
	"fmt"
)

// Sentinel errors so callers can branch on the specific business failure.

var (
	ErrEmptyInvoice       = errors.New("invoice must have at least one line item")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrNegativeRate       = errors.New("rate cannot be negative")
	ErrUnknownGSTRate     = errors.New("gst rate is not a recognised slab")
	ErrMissingProductName = errors.New("product name is required")
	ErrMissingHSNCode     = errors.New("hsn code is required")
)

// ValidationError wraps a sentinel error with human-readable details.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
