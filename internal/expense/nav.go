package expense

import (
	"cmp"
	"slices"
	"time"

	"github.com/spendlog-dev/spendlog/internal/model"
)

// Neighbors is an entry with its chronological predecessor and successor.
type Neighbors struct {
	Current model.Entry
	Prev    model.Optional[model.Entry]
	Next    model.Optional[model.Entry]
}

// Chronological returns a copy of entries sorted oldest first. Entries sharing
// a datetime are ordered by ID so the ordering is stable across calls.
func Chronological(entries []model.Entry) []model.Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b model.Entry) int {
		if c := a.Datetime.Compare(b.Datetime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// Adjacent locates the entry with the given ID in chronological order.
// Reports false when no entry has that ID.
func Adjacent(entries []model.Entry, entryID string) (Neighbors, bool) {
	sorted := Chronological(entries)
	return neighborsAt(sorted, slices.IndexFunc(sorted, func(e model.Entry) bool {
		return e.ID == entryID
	}))
}

// AdjacentAt locates the first entry created exactly at t.
func AdjacentAt(entries []model.Entry, t time.Time) (Neighbors, bool) {
	sorted := Chronological(entries)
	return neighborsAt(sorted, slices.IndexFunc(sorted, func(e model.Entry) bool {
		return e.Datetime.Equal(t)
	}))
}

func neighborsAt(sorted []model.Entry, i int) (Neighbors, bool) {
	if i < 0 {
		return Neighbors{}, false
	}
	n := Neighbors{Current: sorted[i]}
	if i > 0 {
		n.Prev = model.Some(sorted[i-1])
	}
	if i < len(sorted)-1 {
		n.Next = model.Some(sorted[i+1])
	}
	return n, true
}

// Neighbors returns the chronological neighbors of an entry in the store.
func (s *Store) Neighbors(entryID string) (Neighbors, bool) {
	return Adjacent(s.Entries(), entryID)
}
