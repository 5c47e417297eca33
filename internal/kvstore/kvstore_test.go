package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV checks the contract every backend must satisfy.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "@expenses_list")
	require.NoError(t, err)
	assert.False(t, ok, "missing key reports absent")

	require.NoError(t, kv.Set(ctx, "@expenses_list", `[{"reason":"lunch"}]`))
	got, ok, err := kv.Get(ctx, "@expenses_list")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"reason":"lunch"}]`, got)

	require.NoError(t, kv.Set(ctx, "@expenses_list", `[]`))
	got, ok, err = kv.Get(ctx, "@expenses_list")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, got, "set overwrites")

	require.NoError(t, kv.Set(ctx, "other", ""))
	got, ok, err = kv.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok, "empty value is still present")
	assert.Empty(t, got)
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv, err := NewFile(dir)
	require.NoError(t, err)
	exerciseKV(t, kv)

	_, err = os.Stat(kv.Path("@expenses_list"))
	require.NoError(t, err)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestFile_KeyEscaping(t *testing.T) {
	kv, err := NewFile(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "a%2Fb.json", filepath.Base(kv.Path("a/b")))
}

func TestFile_CanceledContext(t *testing.T) {
	kv, err := NewFile(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, kv.Set(ctx, "k", "v"), context.Canceled)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "spendlog.db")
	kv, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	exerciseKV(t, kv)
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spendlog.db")

	kv, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", "persisted"))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer kv.Close()

	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", got)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := Open(ctx, Options{Backend: "file", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)

	kv, err = Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(ctx, Options{Backend: "SQLite", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	require.NoError(t, kv.Close())
	_, err = os.Stat(filepath.Join(dir, "spendlog.db"))
	require.NoError(t, err)

	_, err = Open(ctx, Options{Backend: "redis"})
	assert.ErrorContains(t, err, "unknown storage backend")
}
