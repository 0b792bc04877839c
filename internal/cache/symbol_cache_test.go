package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cortexcore/cortexcore/internal/symbol"
)

func TestSymbolCachePutThenGetRoundTrips(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "symbols.db")
	c, err := Open(dbPath)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	summary := &symbol.FileSummary{Language: "go", TotalLines: 42, Functions: []symbol.Function{{Name: "f"}}}

	require.NoError(t, c.Put(ctx, "hash1", "go", summary))

	got, ok, err := c.Get(ctx, "hash1", "go")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, summary.TotalLines, got.TotalLines)
	require.Equal(t, "f", got.Functions[0].Name)
}

func TestSymbolCacheMissReturnsFalse(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "symbols.db")
	c, err := Open(dbPath)
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "nope", "go")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSymbolCacheServesFromMemoryAfterFirstGet(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "symbols.db")
	c, err := Open(dbPath)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	summary := &symbol.FileSummary{Language: "python", TotalLines: 7}
	require.NoError(t, c.Put(ctx, "hash2", "python", summary))

	first, ok, err := c.Get(ctx, "hash2", "python")
	require.NoError(t, err)
	require.True(t, ok)

	second, ok, err := c.Get(ctx, "hash2", "python")
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, first, second, "second Get should be served from the in-memory layer")
}
