package payment

import (
	"fmt"
	"strings"

	"github.com/spendlog-dev/spendlog/internal/model"
)

// Kind classifies a payment channel.
type Kind string

const (
	KindCash    Kind = "cash"
	KindDebit   Kind = "debit"
	KindCredit  Kind = "credit"
	KindDigital Kind = "digital"
)

// Method is one payment channel an entry can be paid with.
type Method struct {
	ID    model.PaymentMethod
	Label string
	Kind  Kind
}

// Catalog provides lookup over the configured payment methods.
type Catalog struct {
	methods []Method
	byID    map[model.PaymentMethod]Method
	byLabel map[model.PaymentMethod]Method
}

// NewCatalog creates a Catalog. IDs are matched case-insensitively. Labels
// resolve too, since older entries stored the label instead of the ID.
func NewCatalog(methods []Method) (*Catalog, error) {
	byID := make(map[model.PaymentMethod]Method, len(methods))
	for _, m := range methods {
		key := normalize(m.ID)
		if key == "" {
			return nil, fmt.Errorf("payment method %q has an empty id", m.Label)
		}
		if _, dup := byID[key]; dup {
			return nil, fmt.Errorf("duplicate payment method %q", m.ID)
		}
		m.ID = key
		byID[key] = m
	}
	normalized := make([]Method, 0, len(methods))
	byLabel := make(map[model.PaymentMethod]Method, len(methods))
	for _, m := range methods {
		m = byID[normalize(m.ID)]
		normalized = append(normalized, m)
		if key := normalize(model.PaymentMethod(m.Label)); key != "" {
			if _, taken := byLabel[key]; !taken {
				byLabel[key] = m
			}
		}
	}
	return &Catalog{methods: normalized, byID: byID, byLabel: byLabel}, nil
}

// All returns the methods in configured order.
func (c *Catalog) All() []Method {
	return c.methods
}

// Get returns a method by ID, or failing that by label.
func (c *Catalog) Get(id model.PaymentMethod) (Method, bool) {
	key := normalize(id)
	if m, ok := c.byID[key]; ok {
		return m, true
	}
	m, ok := c.byLabel[key]
	return m, ok
}

// Exists reports whether id names a configured method by ID or label.
func (c *Catalog) Exists(id model.PaymentMethod) bool {
	_, ok := c.Get(id)
	return ok
}

// Default returns the first configured method, preselected on new entries.
func (c *Catalog) Default() (Method, bool) {
	if len(c.methods) == 0 {
		return Method{}, false
	}
	return c.methods[0], true
}

// Label returns the display label for id, falling back to the ID itself.
func (c *Catalog) Label(id model.PaymentMethod) string {
	if m, ok := c.Get(id); ok && m.Label != "" {
		return m.Label
	}
	return string(id)
}

func normalize(id model.PaymentMethod) model.PaymentMethod {
	return model.PaymentMethod(strings.ToLower(strings.TrimSpace(string(id))))
}
