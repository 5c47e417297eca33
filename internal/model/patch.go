package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patch is a partial entry. Set fields replace the entry's, unset fields are kept.
// The ID is deliberately absent: an update never changes an entry's identity.
// SharedFor and AdditionalDetails nest an Optional so a patch can clear them:
// Some(None) removes the value.
type Patch struct {
	Datetime          Optional[time.Time]
	Amount            Optional[decimal.Decimal]
	Reason            Optional[string]
	PaymentMethod     Optional[PaymentMethod]
	Details           Optional[string]
	Store             Optional[string]
	SharedFor         Optional[Optional[Sharing]]
	AdditionalDetails Optional[Optional[string]]
}

// Clear returns the patch value that removes an optional field.
func Clear[T any]() Optional[Optional[T]] {
	return Some(None[T]())
}

// IsEmpty reports whether the patch sets no field.
func (p Patch) IsEmpty() bool {
	return !p.Datetime.IsSet() &&
		!p.Amount.IsSet() &&
		!p.Reason.IsSet() &&
		!p.PaymentMethod.IsSet() &&
		!p.Details.IsSet() &&
		!p.Store.IsSet() &&
		!p.SharedFor.IsSet() &&
		!p.AdditionalDetails.IsSet()
}

// Apply returns e with every field set in p overlaid.
func (e Entry) Apply(p Patch) Entry {
	if v, ok := p.Datetime.Get(); ok {
		e.Datetime = Timestamp(v)
	}
	if v, ok := p.Amount.Get(); ok {
		e.Amount = v
	}
	if v, ok := p.Reason.Get(); ok {
		e.Reason = v
	}
	if v, ok := p.PaymentMethod.Get(); ok {
		e.PaymentMethod = v
	}
	if p.Details.IsSet() {
		e.Details = p.Details
	}
	if p.Store.IsSet() {
		e.Store = p.Store
	}
	if v, ok := p.SharedFor.Get(); ok {
		e.SharedFor = v
	}
	if v, ok := p.AdditionalDetails.Get(); ok {
		e.AdditionalDetails = v
	}
	return e
}
