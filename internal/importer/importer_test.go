package importer

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlog-dev/spendlog/internal/csvio"
	"github.com/spendlog-dev/spendlog/internal/model"
)

func readChase(t *testing.T) []model.Entry {
	t.Helper()
	f, err := os.Open("testdata/chase_checking.csv")
	require.NoError(t, err)
	defer f.Close()

	entries, err := (&ChaseParser{}).Parse(f, Options{Method: "jpbank"})
	require.NoError(t, err)
	return entries
}

func TestChaseParser_Parse(t *testing.T) {
	entries := readChase(t)
	require.Len(t, entries, 6)

	// First: GITHUB subscription
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", entries[0].Reason)
	assert.Equal(t, "-4.00", entries[0].Amount.StringFixed(2))
	assert.Equal(t, model.PaymentMethod("jpbank"), entries[0].PaymentMethod)
	assert.Equal(t, model.Some("ACH_DEBIT"), entries[0].Details)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), entries[0].Datetime)
	assert.Empty(t, entries[0].ID)

	// Quoted description with a comma.
	assert.Equal(t, "UBER *TRIP, SAN FRANCISCO", entries[2].Reason)

	// Fourth: income is positive.
	assert.False(t, entries[3].IsExpense())
	assert.Equal(t, "3500.00", entries[3].Amount.StringFixed(2))
}

func TestChaseParser_NegativePositiveAmounts(t *testing.T) {
	for _, e := range readChase(t) {
		if e.Reason == "ACME CONSULTING INVOICE 1042" {
			assert.True(t, e.Amount.IsPositive())
		} else {
			assert.True(t, e.Amount.IsNegative(), "expected negative for %s", e.Reason)
		}
	}
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	entries, err := p.Parse(strings.NewReader("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"), Options{Method: "cash"})
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestChaseParser_Errors(t *testing.T) {
	p := &ChaseParser{}
	header := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

	_, err := p.Parse(strings.NewReader(header+"DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n"), Options{Method: "cash"})
	assert.ErrorContains(t, err, "parsing date")

	_, err = p.Parse(strings.NewReader(header+"DEBIT,01/03/2025,desc,four,ACH_DEBIT,100.00,\n"), Options{Method: "cash"})
	assert.ErrorContains(t, err, "parsing amount")

	_, err = p.Parse(strings.NewReader(header), Options{})
	assert.ErrorContains(t, err, "needs a payment method")
}

func TestSpendlogParser(t *testing.T) {
	want := []model.Entry{{
		ID:            "a1b2c3d4",
		Datetime:      time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		Amount:        decimal.RequireFromString("-500"),
		Reason:        "coffee",
		PaymentMethod: "cash",
	}}
	var buf bytes.Buffer
	require.NoError(t, csvio.WriteEntries(&buf, want))

	got, err := DefaultRegistry().Get("Spendlog").Parse(&buf, Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1b2c3d4", got[0].ID)
	assert.Equal(t, "coffee", got[0].Reason)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"chase", "spendlog"}, r.Formats())
	assert.NotNil(t, r.Get("CHASE"))
	assert.Nil(t, r.Get("ofx"))

	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}

func TestDedupe(t *testing.T) {
	day := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	existing := []model.Entry{
		{ID: "a", Datetime: day, Amount: decimal.RequireFromString("-4"), Reason: "GITHUB"},
	}
	incoming := []model.Entry{
		{ID: "a", Datetime: day, Reason: "same id"},
		{Datetime: day, Amount: decimal.RequireFromString("-4.00"), Reason: "GITHUB"},
		{Datetime: day, Amount: decimal.RequireFromString("-5"), Reason: "GITHUB"},
		{Datetime: day, Amount: decimal.RequireFromString("-5"), Reason: "GITHUB"},
		{ID: "b", Datetime: day, Reason: "new"},
	}

	fresh, skipped := Dedupe(existing, incoming)
	assert.Equal(t, 3, skipped)
	require.Len(t, fresh, 2)
	assert.True(t, fresh[0].Amount.Equal(decimal.RequireFromString("-5")))
	assert.Equal(t, "b", fresh[1].ID)
}
