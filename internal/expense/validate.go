package expense

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendlog-dev/spendlog/internal/model"
)

// ValidationError describes one problem with an entry.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// MethodChecker tests whether a payment method is configured.
type MethodChecker interface {
	Exists(id model.PaymentMethod) bool
}

// Validate checks an entry before it is stored.
func Validate(e model.Entry, methods MethodChecker) []ValidationError {
	var errs []ValidationError

	if e.Datetime.IsZero() {
		errs = append(errs, ValidationError{Field: "datetime", Description: "must be set"})
	}

	// Amounts are displayed with two decimals; anything finer would be hidden.
	hundred := decimal.NewFromInt(100)
	if scaled := e.Amount.Mul(hundred); !scaled.Equal(scaled.Truncate(0)) {
		errs = append(errs, ValidationError{
			Field:       "amount",
			Description: fmt.Sprintf("%s has more than 2 decimal places", e.Amount),
		})
	}

	if !methods.Exists(e.PaymentMethod) {
		errs = append(errs, ValidationError{
			Field:       "paymentMethod",
			Description: fmt.Sprintf("unknown payment method %q", e.PaymentMethod),
		})
	}

	if s, ok := e.SharedFor.Get(); ok && !s.Valid() {
		errs = append(errs, ValidationError{
			Field:       "sharedFor",
			Description: fmt.Sprintf("must be %q or %q, got %q", model.SharingFor, model.SharingShared, s),
		})
	}

	return errs
}

// ValidationErrors collects every problem found with one entry.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, ve := range v {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// asError returns nil for an empty slice, so callers can return it directly.
func asError(verrs []ValidationError) error {
	if len(verrs) == 0 {
		return nil
	}
	return ValidationErrors(verrs)
}
