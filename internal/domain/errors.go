package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrBrandNotFound      = errors.New("brand not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidColor       = errors.New("color is not offered for this product")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrSubmissionInFlight = errors.New("an order submission is already in progress")
	ErrDuplicateOrder     = errors.New("order already exists for idempotency key")
	ErrPersistence        = errors.New("order could not be saved")
)

// ValidationError carries one message per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
