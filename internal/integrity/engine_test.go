package integrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/embed"
	"github.com/cortexcore/cortexcore/internal/fingerprint"
	"github.com/cortexcore/cortexcore/internal/pipeline"
	"github.com/cortexcore/cortexcore/internal/policy"
	"github.com/cortexcore/cortexcore/internal/store"
)

type memStore struct{ byPath map[string][]store.Record }

func newMemStore() *memStore { return &memStore{byPath: map[string][]store.Record{}} }

func (m *memStore) Open(context.Context) error  { return nil }
func (m *memStore) Close() error                { return nil }
func (m *memStore) Delete(context.Context) error { m.byPath = map[string][]store.Record{}; return nil }
func (m *memStore) InsertChunks(_ context.Context, records []store.Record) error {
	for _, r := range records {
		m.removeID(r.ID)
		m.byPath[r.Path] = append(m.byPath[r.Path], r)
	}
	return nil
}
func (m *memStore) DeleteByPath(_ context.Context, relPath string) error {
	delete(m.byPath, relPath)
	return nil
}
func (m *memStore) DeleteByIDs(_ context.Context, ids []string) error {
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
func (m *memStore) ListChunksByPath(_ context.Context, relPath string) ([]store.Record, error) {
	return m.byPath[relPath], nil
}
func (m *memStore) CountFiles(context.Context) (int, error) { return len(m.byPath), nil }
func (m *memStore) CountChunks(context.Context) (int, error) {
	n := 0
	for _, r := range m.byPath {
		n += len(r)
	}
	return n, nil
}
func (m *memStore) GetStorageSize(context.Context) (int64, error) { return 0, nil }
func (m *memStore) HasData(context.Context) (bool, error) {
	n, _ := m.CountChunks(context.Background())
	return n > 0, nil
}

func newTestEngine(t *testing.T, root string) (*Engine, *memStore, *fingerprint.Map) {
	t.Helper()
	cfg := config.Default(root)
	pol, err := policy.New(cfg)
	require.NoError(t, err)
	fps, err := fingerprint.Load(filepath.Join(root, "fingerprints.json"))
	require.NoError(t, err)

	st := newMemStore()
	p := pipeline.New(pipeline.KindCode, root, pol, config.DefaultCodeProfile(), &embed.MockProvider{Dim: 8}, st, fps)
	p.MemoryPressure = func() bool { return false }

	eng := NewEngine(root, pol, fps, map[pipeline.Kind]*pipeline.Pipeline{pipeline.KindCode: p}, nil)
	return eng, st, fps
}

func TestReconcileIndexesNewFileAndUpdatesFingerprint(t *testing.T) {
	root := t.TempDir()
	eng, st, fps := newTestEngine(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "new.go"), []byte("package main\n\nfunc f() {}\n"), 0o644))

	require.NoError(t, eng.Reconcile(context.Background(), nil))

	_, ok := fps.Get("new.go")
	require.True(t, ok)

	recs, err := st.ListChunksByPath(context.Background(), "new.go")
	require.NoError(t, err)
	require.NotEmpty(t, recs)
}

func TestReconcileGuardsAgainstOverlap(t *testing.T) {
	root := t.TempDir()
	eng, _, _ := newTestEngine(t, root)

	eng.indexingActive.Store(true)
	err := eng.Reconcile(context.Background(), nil)
	require.Error(t, err)
}

func TestStartSchedulerIsIdempotent(t *testing.T) {
	root := t.TempDir()
	eng, _, _ := newTestEngine(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng.StartScheduler(ctx, time.Hour)
	first := eng.cancelTimer
	eng.StartScheduler(ctx, time.Minute)
	require.NotNil(t, eng.cancelTimer)
	require.Equal(t, fnPtrEqual(first, eng.cancelTimer), true)

	eng.StopScheduler()
	require.Nil(t, eng.cancelTimer)
}

// fnPtrEqual reports whether two context.CancelFunc values are both nil or
// both non-nil. CancelFunc isn't comparable directly, so this cannot tell
// whether StartScheduler's second call left the field untouched.
func fnPtrEqual(a, b context.CancelFunc) bool {
	return (a == nil) == (b == nil)
}
