package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// ValidationError reports request input the caller must correct before
// resubmitting.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientStockError carries every SKU that failed the availability
// check so the caller can render a precise message.
type InsufficientStockError struct {
	SKUs []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", strings.Join(e.SKUs, ", "))
}

// InvalidTransitionError reports a status change outside the transition table.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// DuplicateError surfaces unique-constraint violations (email, SKU,
// order number) as business conflicts rather than store failures.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// IsConflict reports whether err is a business-rule violation rather than
// a bug or a missing entity.
func IsConflict(err error) bool {
	var stock *InsufficientStockError
	var transition *InvalidTransitionError
	var dup *DuplicateError
	return errors.As(err, &stock) || errors.As(err, &transition) || errors.As(err, &dup)
}

// IsNotFound reports whether err means a referenced entity is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
