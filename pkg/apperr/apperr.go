package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a business-rule failure. Handlers map kinds to HTTP
// statuses; services return them instead of raw errors so callers can
// tell a bad request from a broken invariant.
type Kind int

const (
	KindValidation Kind = iota
	KindInvalidTransition
	KindInsufficientStock
	KindNegativeStock
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindNegativeStock:
		return "negative_stock"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// Error is a structured domain error. A rejected operation carrying an
// *Error guarantees no entity was mutated.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field detail for validation failures.
	Fields map[string]string
	// SKUs names the offending variations for insufficient-stock failures.
	SKUs []string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the Kind from err, or ok=false if err is not a domain error.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationFields builds a validation error with per-field detail.
func ValidationFields(fields map[string]string) *Error {
	parts := make([]string, 0, len(fields))
	for f, msg := range fields {
		parts = append(parts, f+": "+msg)
	}
	return &Error{
		Kind:    KindValidation,
		Message: "validation failed: " + strings.Join(parts, "; "),
		Fields:  fields,
	}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("invalid status transition from '%s' to '%s'", from, to),
	}
}

// InsufficientStock names every SKU that blocked a fulfillment.
func InsufficientStock(skus []string) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: "insufficient stock for " + strings.Join(skus, ", "),
		SKUs:    skus,
	}
}

// NegativeStock is the last-line invariant guard. It should be unreachable
// given engine-level checks; seeing one means a concurrency bug.
func NegativeStock(sku string) *Error {
	return &Error{
		Kind:    KindNegativeStock,
		Message: fmt.Sprintf("stock adjustment for '%s' would go negative", sku),
		SKUs:    []string{sku},
	}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}
