package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	var absent Optional[string]
	_, ok := absent.Get()
	assert.False(t, ok)
	assert.True(t, absent.IsZero())
	assert.Equal(t, "fallback", absent.OrElse("fallback"))

	present := Some("")
	v, ok := present.Get()
	assert.True(t, ok, "empty string is still present")
	assert.Equal(t, "", v)
	assert.False(t, present.IsZero())
	assert.Equal(t, None[string](), absent)
}

func TestOptionalJSON(t *testing.T) {
	type wrapper struct {
		Store Optional[string] `json:"store,omitzero"`
	}

	data, err := json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	data, err = json.Marshal(wrapper{Store: Some("Lawson")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"store":"Lawson"}`, string(data))

	var got wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"store":null}`), &got))
	assert.False(t, got.Store.IsSet())

	require.NoError(t, json.Unmarshal([]byte(`{"store":"Aeon"}`), &got))
	assert.Equal(t, Some("Aeon"), got.Store)
}

func TestApply(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	e := Entry{
		ID:            "abc",
		Datetime:      created,
		Amount:        decimal.RequireFromString("-1200"),
		Reason:        "lunch",
		PaymentMethod: "cash",
		Store:         Some("Matsuya"),
	}

	got := e.Apply(Patch{
		Amount:    Some(decimal.RequireFromString("-980")),
		SharedFor: Some(Some(SharingShared)),
	})

	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, created, got.Datetime)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("-980")))
	assert.Equal(t, "lunch", got.Reason)
	assert.Equal(t, PaymentMethod("cash"), got.PaymentMethod)
	assert.Equal(t, Some("Matsuya"), got.Store)
	assert.Equal(t, Some(SharingShared), got.SharedFor)
	assert.False(t, got.Details.IsSet())

	// The receiver is not modified.
	assert.False(t, e.SharedFor.IsSet())
}

func TestApply_ClearsSharing(t *testing.T) {
	e := Entry{
		ID:                "x",
		SharedFor:         Some(SharingFor),
		AdditionalDetails: Some("Mika"),
	}

	got := e.Apply(Patch{SharedFor: Clear[Sharing](), AdditionalDetails: Clear[string]()})
	assert.False(t, got.SharedFor.IsSet())
	assert.False(t, got.AdditionalDetails.IsSet())

	assert.False(t, Patch{SharedFor: Clear[Sharing]()}.IsEmpty(), "a clear is a change")
}

func TestApply_EmptyPatch(t *testing.T) {
	e := Entry{ID: "x", Reason: "coffee", Details: Some("latte")}
	assert.True(t, Patch{}.IsEmpty())
	assert.Equal(t, e, e.Apply(Patch{}))
}

func TestApply_DatetimeNormalized(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	at := time.Date(2025, 3, 1, 18, 0, 0, 123456789, loc)

	got := Entry{ID: "x"}.Apply(Patch{Datetime: Some(at)})
	assert.Equal(t, time.UTC, got.Datetime.Location())
	assert.Equal(t, 123000000, got.Datetime.Nanosecond())
	assert.Equal(t, "x", got.ID)
}

func TestSharingValid(t *testing.T) {
	assert.True(t, SharingFor.Valid())
	assert.True(t, SharingShared.Valid())
	assert.False(t, Sharing("").Valid())
	assert.False(t, Sharing("split").Valid())
}

func TestIsExpense(t *testing.T) {
	assert.True(t, Entry{Amount: decimal.RequireFromString("-1")}.IsExpense())
	assert.False(t, Entry{Amount: decimal.Zero}.IsExpense())
	assert.False(t, Entry{Amount: decimal.RequireFromString("3000")}.IsExpense())
}
