package id

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ShortLen is the number of characters shown for an entry ID.
const ShortLen = 8

var (
	// ErrNotFound is returned when no ID matches a prefix.
	ErrNotFound = errors.New("no matching entry")
	// ErrAmbiguous is returned when more than one ID matches a prefix.
	ErrAmbiguous = errors.New("ambiguous entry prefix")
)

// legacyNamespace scopes IDs derived from timestamps of entries saved before IDs existed.
var legacyNamespace = uuid.MustParse("6f1d2c4e-8a5b-4f0e-9c3d-2b7a1e5f9d60")

// New returns a fresh random entry ID.
func New() string {
	return uuid.NewString()
}

// FromMillis derives a stable ID from a legacy millisecond timestamp key.
// dup separates entries that share a timestamp; the first one uses 0.
func FromMillis(ms int64, dup int) string {
	name := strconv.FormatInt(ms, 10)
	if dup > 0 {
		name += "#" + strconv.Itoa(dup)
	}
	return uuid.NewSHA1(legacyNamespace, []byte(name)).String()
}

// Short returns the display prefix of an ID.
func Short(id string) string {
	if len(id) <= ShortLen {
		return id
	}
	return id[:ShortLen]
}

// Resolve returns the single ID in ids starting with prefix.
// An exact match wins over longer IDs sharing the prefix.
func Resolve(prefix string, ids []string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("empty entry ID: %w", ErrNotFound)
	}

	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%q: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d entries: %w", prefix, len(matches), ErrAmbiguous)
	}
}
