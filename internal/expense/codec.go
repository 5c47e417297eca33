package expense

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog-dev/spendlog/internal/id"
	"github.com/spendlog-dev/spendlog/internal/model"
)

// DatetimeLayout is the ISO-8601 form datetimes are persisted in.
const DatetimeLayout = "2006-01-02T15:04:05.000Z07:00"

// record is the persisted shape of one entry.
type record struct {
	ID                string                        `json:"id,omitempty"`
	Datetime          string                        `json:"datetime"`
	Amount            json.Number                   `json:"amount"`
	Reason            string                        `json:"reason"`
	PaymentMethod     model.PaymentMethod           `json:"paymentMethod"`
	Details           model.Optional[string]        `json:"details,omitzero"`
	Store             model.Optional[string]        `json:"store,omitzero"`
	SharedFor         model.Optional[model.Sharing] `json:"sharedFor,omitzero"`
	AdditionalDetails model.Optional[string]        `json:"additionalDetails,omitzero"`
}

// Encode serializes entries as a JSON array.
func Encode(entries []model.Entry) ([]byte, error) {
	recs := make([]record, len(entries))
	for i, e := range entries {
		recs[i] = record{
			ID:                e.ID,
			Datetime:          e.Datetime.UTC().Format(DatetimeLayout),
			Amount:            json.Number(e.Amount.String()),
			Reason:            e.Reason,
			PaymentMethod:     e.PaymentMethod,
			Details:           e.Details,
			Store:             e.Store,
			SharedFor:         e.SharedFor,
			AdditionalDetails: e.AdditionalDetails,
		}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("marshaling entries: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array written by Encode. Records saved before entries
// carried an ID get one derived from their timestamp. A repeated ID is
// suffixed so every entry stays addressable.
func Decode(data []byte) ([]model.Entry, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("unmarshaling entries: %w", err)
	}

	entries := make([]model.Entry, 0, len(recs))
	seen := make(map[string]bool, len(recs))
	for i, r := range recs {
		e, err := r.entry()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		switch {
		case e.ID == "":
			for dup := 0; e.ID == "" || seen[e.ID]; dup++ {
				e.ID = id.FromMillis(e.Millis(), dup)
			}
		case seen[e.ID]:
			base := e.ID
			for dup := 1; seen[e.ID]; dup++ {
				e.ID = fmt.Sprintf("%s#%d", base, dup)
			}
		}
		seen[e.ID] = true
		entries = append(entries, e)
	}
	return entries, nil
}

func (r record) entry() (model.Entry, error) {
	at, err := time.Parse(time.RFC3339Nano, r.Datetime)
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing datetime %q: %w", r.Datetime, err)
	}
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing amount %q: %w", r.Amount, err)
	}
	return model.Entry{
		ID:                r.ID,
		Datetime:          model.Timestamp(at),
		Amount:            amount,
		Reason:            r.Reason,
		PaymentMethod:     r.PaymentMethod,
		Details:           r.Details,
		Store:             r.Store,
		SharedFor:         nonBlank(r.SharedFor),
		AdditionalDetails: nonBlank(r.AdditionalDetails),
	}, nil
}

// nonBlank drops empty strings, which older data stored for "not shared".
func nonBlank[T ~string](o model.Optional[T]) model.Optional[T] {
	if v, ok := o.Get(); ok && strings.TrimSpace(string(v)) == "" {
		return model.None[T]()
	}
	return o
}
