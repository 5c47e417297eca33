// Package kvstore provides the local key-value storage the expense store
// persists its single JSON slot into.
package kvstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// KV is a string key-value store.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Supported backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// sqliteFile is the database file name used by the sqlite backend.
const sqliteFile = "spendlog.db"

// Options selects and locates a backend.
type Options struct {
	Backend string
	Dir     string
}

// Open returns the backend named in opts, rooted at opts.Dir.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendFile, "":
		return NewFile(opts.Dir)
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(opts.Dir, sqliteFile))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
