package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog-dev/spendlog/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. Each row becomes an entry paid with opts.Method,
// dated at UTC midnight of its posting date.
func (p *ChaseParser) Parse(r io.Reader, opts Options) ([]model.Entry, error) {
	if opts.Method == "" {
		return nil, fmt.Errorf("chase import needs a payment method")
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.Entry
	for i, rec := range records[1:] {
		e, err := parseChaseRow(rec, opts.Method)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseChaseRow(rec []string, method model.PaymentMethod) (model.Entry, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	e := model.Entry{
		Datetime:      model.Timestamp(date),
		Amount:        amount,
		Reason:        rec[chaseColDesc],
		PaymentMethod: method,
	}
	if t := rec[chaseColType]; t != "" {
		e.Details = model.Some(t)
	}
	return e, nil
}
