package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies a payment channel from the configured catalog.
type PaymentMethod string

// Sharing qualifies an entry paid for, or split with, other people.
type Sharing string

const (
	SharingFor    Sharing = "for"
	SharingShared Sharing = "shared"
)

// Valid reports whether s is one of the known sharing modes.
func (s Sharing) Valid() bool {
	return s == SharingFor || s == SharingShared
}

// Entry is one recorded expense or income.
type Entry struct {
	ID            string
	Datetime      time.Time       // creation time, UTC, millisecond precision
	Amount        decimal.Decimal // negative = expense, otherwise income
	Reason        string
	PaymentMethod PaymentMethod

	// Set only for shared or itemized entries.
	Details           Optional[string]
	Store             Optional[string]
	SharedFor         Optional[Sharing]
	AdditionalDetails Optional[string]
}

// IsExpense reports whether the entry is an outflow.
func (e Entry) IsExpense() bool {
	return e.Amount.IsNegative()
}

// Millis returns the datetime as Unix milliseconds, the legacy entry key.
func (e Entry) Millis() int64 {
	return e.Datetime.UnixMilli()
}

// Timestamp normalizes t to the precision entries are stored with.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
