package expense

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog-dev/spendlog/internal/model"
)

// ErrInvalidAmount is returned for amount input that is not a number.
var ErrInvalidAmount = errors.New("please enter a valid number for amount")

// ParseAmount parses user input such as "-1200" or "35.5".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q: %w", s, ErrInvalidAmount)
	}
	return d, nil
}

// Form is raw registration input. Unset fields are left out of the entry or
// patch built from it.
type Form struct {
	Datetime          model.Optional[time.Time]
	Amount            model.Optional[string]
	Reason            model.Optional[string]
	PaymentMethod     model.Optional[string]
	Details           model.Optional[string]
	Store             model.Optional[string]
	SharedFor         model.Optional[string] // empty means not shared
	AdditionalDetails model.Optional[string] // empty means nobody
}

// Patch parses and checks the fields that are set.
func (f Form) Patch(methods MethodChecker) (model.Patch, error) {
	var p model.Patch

	if raw, ok := f.Amount.Get(); ok {
		amount, err := ParseAmount(raw)
		if err != nil {
			return model.Patch{}, err
		}
		p.Amount = model.Some(amount)
	}

	var verrs []ValidationError
	if raw, ok := f.PaymentMethod.Get(); ok {
		m := model.PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
		if !methods.Exists(m) {
			verrs = append(verrs, ValidationError{Field: "paymentMethod", Description: fmt.Sprintf("unknown payment method %q", raw)})
		}
		p.PaymentMethod = model.Some(m)
	}
	if raw, ok := f.SharedFor.Get(); ok {
		if strings.TrimSpace(raw) == "" {
			p.SharedFor = model.Clear[model.Sharing]()
			// People only describe a sharing; they go with it.
			if !f.AdditionalDetails.IsSet() {
				p.AdditionalDetails = model.Clear[string]()
			}
		} else {
			s := model.Sharing(strings.ToLower(strings.TrimSpace(raw)))
			if !s.Valid() {
				verrs = append(verrs, ValidationError{Field: "sharedFor", Description: fmt.Sprintf("must be %q or %q, got %q", model.SharingFor, model.SharingShared, raw)})
			}
			p.SharedFor = model.Some(model.Some(s))
		}
	}
	if err := asError(verrs); err != nil {
		return model.Patch{}, err
	}

	if t, ok := f.Datetime.Get(); ok {
		p.Datetime = model.Some(model.Timestamp(t))
	}
	p.Reason = f.Reason
	p.Details = f.Details
	p.Store = f.Store
	if raw, ok := f.AdditionalDetails.Get(); ok {
		if strings.TrimSpace(raw) == "" {
			p.AdditionalDetails = model.Clear[string]()
		} else {
			p.AdditionalDetails = model.Some(model.Some(raw))
		}
	}
	return p, nil
}

// Entry builds a new entry dated now, paid with defaultMethod unless the form
// names one. The amount is required.
func (f Form) Entry(now time.Time, defaultMethod model.PaymentMethod, methods MethodChecker) (model.Entry, error) {
	if !f.Amount.IsSet() {
		return model.Entry{}, ErrInvalidAmount
	}
	p, err := f.Patch(methods)
	if err != nil {
		return model.Entry{}, err
	}

	e := model.Entry{
		Datetime:      model.Timestamp(now),
		PaymentMethod: defaultMethod,
	}.Apply(p)

	if err := asError(Validate(e, methods)); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}
