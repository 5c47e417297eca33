package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spendlog-dev/spendlog/internal/csvio"
	"github.com/spendlog-dev/spendlog/internal/model"
)

// Options carries per-import choices a source file cannot express.
type Options struct {
	// Method is the payment method for formats that do not record one.
	Method model.PaymentMethod
}

// Parser converts a file into entries.
type Parser interface {
	Parse(r io.Reader, opts Options) ([]model.Entry, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&SpendlogParser{})
	r.Register(&ChaseParser{})
	return r
}

// SpendlogParser reads files written by the export command.
type SpendlogParser struct{}

// Format returns the parser name.
func (p *SpendlogParser) Format() string { return "spendlog" }

// Parse reads exported entries. Options are ignored; the file carries everything.
func (p *SpendlogParser) Parse(r io.Reader, _ Options) ([]model.Entry, error) {
	entries, err := csvio.ReadEntries(r)
	if err != nil {
		return nil, fmt.Errorf("reading spendlog CSV: %w", err)
	}
	return entries, nil
}

// Dedupe drops incoming entries already present: same ID, or for entries
// without an ID, same datetime, amount and reason. Returns the new entries and
// how many were skipped.
func Dedupe(existing, incoming []model.Entry) ([]model.Entry, int) {
	byID := make(map[string]bool, len(existing))
	bySig := make(map[string]bool, len(existing))
	for _, e := range existing {
		byID[e.ID] = true
		bySig[signature(e)] = true
	}

	var fresh []model.Entry
	skipped := 0
	for _, e := range incoming {
		dup := false
		if e.ID != "" {
			dup = byID[e.ID]
		} else {
			dup = bySig[signature(e)]
		}
		if dup {
			skipped++
			continue
		}
		if e.ID != "" {
			byID[e.ID] = true
		}
		bySig[signature(e)] = true
		fresh = append(fresh, e)
	}
	return fresh, skipped
}

func signature(e model.Entry) string {
	return fmt.Sprintf("%d|%s|%s", e.Millis(), e.Amount.StringFixed(2), e.Reason)
}
