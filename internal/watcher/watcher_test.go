package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/platform"
	"github.com/cortexcore/cortexcore/internal/policy"
)

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default(root)
	pol, err := policy.New(cfg)
	require.NoError(t, err)

	w, err := New(root, pol, platform.PollingHints{})
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	return w, root
}

func TestDebounceCollapsesRapidRepeatsToLastOp(t *testing.T) {
	w, root := newTestWatcher(t)

	absPath := filepath.Join(root, "f.go")
	require.NoError(t, os.WriteFile(absPath, []byte("package main\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _ := w.Run(ctx)

	w.debounce(ctx, "f.go", OpAdd)
	w.debounce(ctx, "f.go", OpChange)
	w.debounce(ctx, "f.go", OpChange)

	select {
	case ev := <-events:
		require.Equal(t, "f.go", ev.Path)
		require.Equal(t, OpChange, ev.Op)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced event")
	}
}

func TestRelPathUsesForwardSlashes(t *testing.T) {
	w, root := newTestWatcher(t)
	abs := filepath.Join(root, "a", "b.go")
	require.Equal(t, "a/b.go", w.relPath(abs))
}
