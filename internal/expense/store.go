package expense

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spendlog-dev/spendlog/internal/id"
	"github.com/spendlog-dev/spendlog/internal/kvstore"
	"github.com/spendlog-dev/spendlog/internal/log"
	"github.com/spendlog-dev/spendlog/internal/model"
)

// Action names the kind of change a mutation made.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Change describes one persisted mutation.
type Change struct {
	Action Action
	Entry  model.Entry // the entry after the change; before it for deletes
}

// Observer is notified after a mutation has been persisted.
type Observer func(ctx context.Context, changes []Change)

// Store owns the entry list, newest first, and keeps the storage slot in sync
// with it. Every mutation persists before returning.
type Store struct {
	kv     kvstore.KV
	key    string
	logger *log.Logger

	mu        sync.Mutex
	entries   []model.Entry
	observers []Observer
}

// NewStore creates an empty Store persisting to key in kv. Call Load to read
// existing entries.
func NewStore(kv kvstore.KV, key string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		kv:     kv,
		key:    key,
		logger: logger.WithComponent(log.ComponentStore),
	}
}

// OnChange registers an observer for persisted mutations.
func (s *Store) OnChange(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Load replaces the in-memory list with the persisted one. A missing slot
// yields an empty list; read and decode failures are logged and also yield an
// empty list.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load expenses from storage",
			log.FieldOperation, log.OpLoad, log.FieldKey, s.key, log.FieldError, err)
		return
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}

	entries, err := Decode([]byte(raw))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to decode stored expenses",
			log.FieldOperation, log.OpLoad, log.FieldKey, s.key, log.FieldError, err)
		return
	}
	s.entries = entries
	s.logger.DebugContext(ctx, "expenses loaded", log.FieldOperation, log.OpLoad, log.FieldCount, len(entries))
}

// Entries returns a snapshot of the list, newest first.
func (s *Store) Entries() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get returns the entry with the given ID.
func (s *Store) Get(entryID string) (model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(entryID)
	if i < 0 {
		return model.Entry{}, false
	}
	return s.entries[i], true
}

// FindByMillis returns the first entry created at the given Unix millisecond,
// the key entries were addressed by before they had IDs.
func (s *Store) FindByMillis(ms int64) (model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Millis() == ms {
			return e, true
		}
	}
	return model.Entry{}, false
}

// Resolve finds an entry from a user reference: "@<millis>" or an ID prefix.
func (s *Store) Resolve(ref string) (model.Entry, error) {
	if ms, ok := strings.CutPrefix(strings.TrimSpace(ref), "@"); ok {
		n, err := strconv.ParseInt(ms, 10, 64)
		if err != nil {
			return model.Entry{}, fmt.Errorf("invalid timestamp reference %q: %w", ref, err)
		}
		e, found := s.FindByMillis(n)
		if !found {
			return model.Entry{}, fmt.Errorf("%q: %w", ref, id.ErrNotFound)
		}
		return e, nil
	}

	entries := s.Entries()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	match, err := id.Resolve(ref, ids)
	if err != nil {
		return model.Entry{}, err
	}
	e, _ := s.Get(match)
	return e, nil
}

// Add prepends e and persists. An empty or already used ID is replaced with a
// fresh one. Returns the entry as stored.
func (s *Store) Add(ctx context.Context, e model.Entry) model.Entry {
	added := s.AddAll(ctx, []model.Entry{e})
	return added[0]
}

// AddAll prepends entries in order, so the last one ends up first, and
// persists once.
func (s *Store) AddAll(ctx context.Context, entries []model.Entry) []model.Entry {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	added := make([]model.Entry, len(entries))
	changes := make([]Change, len(entries))
	next := make([]model.Entry, 0, len(s.entries)+len(entries))
	for i, e := range entries {
		if e.ID == "" || s.indexLocked(e.ID) >= 0 || containsID(added[:i], e.ID) {
			e.ID = id.New()
		}
		e.Datetime = model.Timestamp(e.Datetime)
		added[i] = e
		changes[i] = Change{Action: ActionCreated, Entry: e}
	}
	for i := len(added) - 1; i >= 0; i-- {
		next = append(next, added[i])
	}
	s.entries = append(next, s.entries...)
	ok := s.persistLocked(ctx, log.OpCreate)
	s.mu.Unlock()

	if ok {
		s.notify(ctx, changes)
	}
	return added
}

// Update merges p into the entry with the given ID and persists. Reports
// false, changing nothing, when no entry has that ID.
func (s *Store) Update(ctx context.Context, entryID string, p model.Patch) (model.Entry, bool) {
	s.mu.Lock()
	i := s.indexLocked(entryID)
	if i < 0 {
		s.mu.Unlock()
		return model.Entry{}, false
	}

	next := make([]model.Entry, len(s.entries))
	copy(next, s.entries)
	next[i] = next[i].Apply(p)
	updated := next[i]
	s.entries = next
	ok := s.persistLocked(ctx, log.OpUpdate)
	s.mu.Unlock()

	if ok {
		s.notify(ctx, []Change{{Action: ActionUpdated, Entry: updated}})
	}
	return updated, true
}

// Delete removes the entry with the given ID and persists, keeping the order
// of the rest. Reports false, changing nothing, when no entry has that ID.
func (s *Store) Delete(ctx context.Context, entryID string) (model.Entry, bool) {
	s.mu.Lock()
	i := s.indexLocked(entryID)
	if i < 0 {
		s.mu.Unlock()
		return model.Entry{}, false
	}

	removed := s.entries[i]
	next := make([]model.Entry, 0, len(s.entries)-1)
	next = append(next, s.entries[:i]...)
	next = append(next, s.entries[i+1:]...)
	s.entries = next
	ok := s.persistLocked(ctx, log.OpDelete)
	s.mu.Unlock()

	if ok {
		s.notify(ctx, []Change{{Action: ActionDeleted, Entry: removed}})
	}
	return removed, true
}

// Persist writes the current list to storage, overwriting the slot.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx)
}

// persistLocked writes after a mutation. Failures are logged, not returned:
// the in-memory change stands either way.
func (s *Store) persistLocked(ctx context.Context, op string) bool {
	if err := s.writeLocked(ctx); err != nil {
		s.logger.ErrorContext(ctx, "persist expenses error",
			log.FieldOperation, op, log.FieldKey, s.key, log.FieldError, err)
		return false
	}
	return true
}

func (s *Store) writeLocked(ctx context.Context) error {
	data, err := Encode(s.entries)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) notify(ctx context.Context, changes []Change) {
	s.mu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o(ctx, changes)
	}
}

func (s *Store) indexLocked(entryID string) int {
	for i, e := range s.entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}

func containsID(entries []model.Entry, entryID string) bool {
	for _, e := range entries {
		if e.ID == entryID {
			return true
		}
	}
	return false
}
