package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog-dev/spendlog/internal/model"
)

// Header is the CSV header for exported entries.
const Header = "id,datetime,amount,reason,payment_method,details,store,shared_for,additional_details"

const (
	numFields    = 9
	timeLayout   = "2006-01-02T15:04:05.000Z07:00"
	colID        = 0
	colDatetime  = 1
	colAmount    = 2
	colReason    = 3
	colMethod    = 4
	colDetails   = 5
	colStore     = 6
	colSharedFor = 7
	colPeople    = 8
)

// ReadEntries reads all entries from an exported CSV, header included.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading entries CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries with a header row.
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row. Absent fields are blank.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colID] = e.ID
	row[colDatetime] = e.Datetime.UTC().Format(timeLayout)
	row[colAmount] = e.Amount.StringFixed(2)
	row[colReason] = e.Reason
	row[colMethod] = string(e.PaymentMethod)
	row[colDetails] = e.Details.OrElse("")
	row[colStore] = e.Store.OrElse("")
	row[colSharedFor] = string(e.SharedFor.OrElse(""))
	row[colPeople] = e.AdditionalDetails.OrElse("")
	return row
}

// UnmarshalEntry converts a CSV row to an Entry. Blank optional columns are absent.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	at, err := time.Parse(time.RFC3339Nano, record[colDatetime])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing datetime %q: %w", record[colDatetime], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	e := model.Entry{
		ID:                record[colID],
		Datetime:          model.Timestamp(at),
		Amount:            amount,
		Reason:            record[colReason],
		PaymentMethod:     model.PaymentMethod(record[colMethod]),
		Details:           optional(record[colDetails]),
		Store:             optional(record[colStore]),
		AdditionalDetails: optional(record[colPeople]),
	}
	if s := record[colSharedFor]; s != "" {
		e.SharedFor = model.Some(model.Sharing(s))
	}
	return e, nil
}

func optional(s string) model.Optional[string] {
	if s == "" {
		return model.None[string]()
	}
	return model.Some(s)
}
