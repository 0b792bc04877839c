package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/embed"
	"github.com/cortexcore/cortexcore/internal/fingerprint"
	"github.com/cortexcore/cortexcore/internal/store"
)

// memStore is a minimal in-memory ChunkStore for pipeline tests.
type memStore struct {
	byPath map[string][]store.Record
}

func newMemStore() *memStore { return &memStore{byPath: map[string][]store.Record{}} }

func (m *memStore) Open(ctx context.Context) error  { return nil }
func (m *memStore) Close() error                    { return nil }
func (m *memStore) Delete(ctx context.Context) error { m.byPath = map[string][]store.Record{}; return nil }

func (m *memStore) InsertChunks(ctx context.Context, records []store.Record) error {
	for _, r := range records {
		m.removeID(r.ID)
		m.byPath[r.Path] = append(m.byPath[r.Path], r)
	}
	return nil
}

func (m *memStore) DeleteByPath(ctx context.Context, relPath string) error {
	delete(m.byPath, relPath)
	return nil
}

func (m *memStore) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		m.removeID(id)
	}
	return nil
}

func (m *memStore) removeID(id string) {
	for path, recs := range m.byPath {
		for i, r := range recs {
			if r.ID == id {
				m.byPath[path] = append(recs[:i], recs[i+1:]...)
				break
			}
		}
	}
}

func (m *memStore) ListChunksByPath(ctx context.Context, relPath string) ([]store.Record, error) {
	return m.byPath[relPath], nil
}

func (m *memStore) CountFiles(ctx context.Context) (int, error) { return len(m.byPath), nil }

func (m *memStore) CountChunks(ctx context.Context) (int, error) {
	n := 0
	for _, recs := range m.byPath {
		n += len(recs)
	}
	return n, nil
}

func (m *memStore) GetStorageSize(ctx context.Context) (int64, error) { return 0, nil }

func (m *memStore) HasData(ctx context.Context) (bool, error) {
	n, _ := m.CountChunks(ctx)
	return n > 0, nil
}

func newTestPipeline(t *testing.T, root string) (*Pipeline, *memStore) {
	t.Helper()
	st := newMemStore()
	fps, err := fingerprint.Load(filepath.Join(root, "fingerprints.json"))
	require.NoError(t, err)

	provider := &embed.MockProvider{Dim: 8}
	profile := config.DefaultCodeProfile()

	p := New(KindCode, root, nil, profile, provider, st, fps)
	p.MemoryPressure = func() bool { return false }
	return p, st
}

func TestIndexFilesWritesChunksAndFingerprints(t *testing.T) {
	root := t.TempDir()
	p, st := newTestPipeline(t, root)

	absPath := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(absPath, []byte("package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"), 0o644))

	result, err := p.IndexFiles(context.Background(), map[string]string{"main.go": absPath}, nil)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Equal(t, 1, result.FilesProcessed)
	require.NotZero(t, result.ChunksWritten)

	recs, err := st.ListChunksByPath(context.Background(), "main.go")
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	_, ok := p.Fps.Get("main.go")
	require.True(t, ok)
}

func TestIndexFilesRecordsPerFileErrorAndContinues(t *testing.T) {
	root := t.TempDir()
	p, _ := newTestPipeline(t, root)

	goodAbs := filepath.Join(root, "good.go")
	require.NoError(t, os.WriteFile(goodAbs, []byte("package main\n"), 0o644))

	result, err := p.IndexFiles(context.Background(), map[string]string{
		"good.go":    goodAbs,
		"missing.go": filepath.Join(root, "missing.go"),
	}, nil)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "missing.go", result.Errors[0].Path)
	require.Equal(t, 1, result.FilesProcessed)
}

func TestReindexFileFallsBackToFullReplaceBelowThreshold(t *testing.T) {
	root := t.TempDir()
	p, _ := newTestPipeline(t, root)

	abs := filepath.Join(root, "small.go")
	require.NoError(t, os.WriteFile(abs, []byte("package main\n\nfunc f() {}\n"), 0o644))

	mode, written, err := p.ReindexFile(context.Background(), "small.go", abs)
	require.NoError(t, err)
	require.Equal(t, ReindexFull, mode)
	require.NotZero(t, written)
}
