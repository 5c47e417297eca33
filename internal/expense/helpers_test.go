package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/spendlog-dev/spendlog/internal/model"
)

type mockMethods map[model.PaymentMethod]bool

func (m mockMethods) Exists(id model.PaymentMethod) bool { return m[id] }

func newMockMethods(ids ...model.PaymentMethod) mockMethods {
	m := make(mockMethods, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func entry(id string, ms int64, amount string) model.Entry {
	return model.Entry{
		ID:            id,
		Datetime:      at(ms),
		Amount:        dec(amount),
		Reason:        "reason " + id,
		PaymentMethod: "cash",
	}
}

// assertSameEntry compares amounts numerically; decimal's internal scale may differ.
func assertSameEntry(t *testing.T, want, got model.Entry) {
	t.Helper()
	assert.True(t, want.Amount.Equal(got.Amount), "amount: want %s, got %s", want.Amount, got.Amount)
	want.Amount, got.Amount = decimal.Zero, decimal.Zero
	assert.Equal(t, want, got)
}

func ids(entries []model.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

var errStorage = errors.New("storage unavailable")

// failingKV fails reads and/or writes on demand.
type failingKV struct {
	failGet bool
	failSet bool
	data    map[string]string
	sets    int
}

func newFailingKV() *failingKV {
	return &failingKV{data: make(map[string]string)}
}

func (f *failingKV) Get(_ context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errStorage
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *failingKV) Set(_ context.Context, key, value string) error {
	f.sets++
	if f.failSet {
		return errStorage
	}
	f.data[key] = value
	return nil
}

func (f *failingKV) Close() error { return nil }
