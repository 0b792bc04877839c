package fingerprint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cortexcore/cortexcore/internal/chunk"
	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/policy"
)

func TestCheckDriftAddedModifiedRemoved(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	pol, err := policy.New(cfg)
	require.NoError(t, err)

	m, err := Load(filepath.Join(root, "fingerprints.json"))
	require.NoError(t, err)
	m.Set("stale.go", "old-hash-that-no-longer-exists", 0)
	m.Set("unchanged.go", "", 0)

	unchangedAbs := filepath.Join(root, "unchanged.go")
	require.NoError(t, os.WriteFile(unchangedAbs, []byte("package main\n"), 0o644))
	unchangedHash := hashFile(t, unchangedAbs)
	m.Set("unchanged.go", unchangedHash, statMtime(t, unchangedAbs))

	newAbs := filepath.Join(root, "new.go")
	require.NoError(t, os.WriteFile(newAbs, []byte("package main\n\nfunc f() {}\n"), 0o644))

	eligible := map[string]string{
		"unchanged.go": unchangedAbs,
		"new.go":       newAbs,
	}

	drift, err := CheckDrift(context.Background(), m, pol, eligible)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"new.go"}, drift.Added)
	require.Empty(t, drift.Modified)
	require.ElementsMatch(t, []string{"stale.go"}, drift.Removed)
}

func hashFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return chunk.HashContent(data)
}

func statMtime(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime().UnixNano()
}
