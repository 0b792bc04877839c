package strategy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/embed"
	"github.com/cortexcore/cortexcore/internal/fingerprint"
	"github.com/cortexcore/cortexcore/internal/pipeline"
	"github.com/cortexcore/cortexcore/internal/platform"
	"github.com/cortexcore/cortexcore/internal/policy"
	"github.com/cortexcore/cortexcore/internal/store"
	"github.com/cortexcore/cortexcore/internal/watcher"
)

type nullStore struct{}

func (nullStore) Open(context.Context) error          { return nil }
func (nullStore) Close() error                        { return nil }
func (nullStore) Delete(context.Context) error        { return nil }
func (nullStore) InsertChunks(context.Context, []store.Record) error { return nil }
func (nullStore) DeleteByPath(context.Context, string) error         { return nil }
func (nullStore) DeleteByIDs(context.Context, []string) error        { return nil }
func (nullStore) ListChunksByPath(context.Context, string) ([]store.Record, error) {
	return nil, nil
}
func (nullStore) CountFiles(context.Context) (int, error)       { return 0, nil }
func (nullStore) CountChunks(context.Context) (int, error)      { return 0, nil }
func (nullStore) GetStorageSize(context.Context) (int64, error) { return 0, nil }
func (nullStore) HasData(context.Context) (bool, error)         { return false, nil }

func newTestPipelines(t *testing.T, root string) map[pipeline.Kind]*pipeline.Pipeline {
	t.Helper()
	fps, err := fingerprint.Load(filepath.Join(root, "fingerprints.json"))
	require.NoError(t, err)

	p := pipeline.New(pipeline.KindCode, root, nil, config.DefaultCodeProfile(), &embed.MockProvider{Dim: 8}, nullStore{}, fps)
	p.MemoryPressure = func() bool { return false }
	return map[pipeline.Kind]*pipeline.Pipeline{pipeline.KindCode: p}
}

func newTestOrchestrator(t *testing.T, root string) (*Orchestrator, *policy.Policy) {
	t.Helper()
	cfg := config.Default(root)
	pol, err := policy.New(cfg)
	require.NoError(t, err)

	w, err := watcher.New(root, pol, platform.PollingHints{})
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	return NewOrchestrator(w), pol
}

func TestOrchestratorSetStrategyIdempotent(t *testing.T) {
	root := t.TempDir()
	orch, pol := newTestOrchestrator(t, root)
	pipelines := newTestPipelines(t, root)

	fps, err := fingerprint.Load(filepath.Join(root, "fingerprints.json"))
	require.NoError(t, err)

	rt := NewRealtime(root, pol, pipelines, nil, fps)
	ctx := context.Background()

	require.NoError(t, orch.SetStrategy(ctx, rt))
	require.Equal(t, "realtime", orch.Current().Name())
	require.True(t, rt.IsActive())

	// Setting the same strategy again by name must be a no-op: the
	// original instance stays active rather than being stopped/restarted.
	require.NoError(t, orch.SetStrategy(ctx, rt))
	require.True(t, rt.IsActive())
}

func TestOrchestratorSwitchStopsPreviousStrategy(t *testing.T) {
	root := t.TempDir()
	orch, pol := newTestOrchestrator(t, root)
	pipelines := newTestPipelines(t, root)

	fps, err := fingerprint.Load(filepath.Join(root, "fingerprints.json"))
	require.NoError(t, err)

	rt := NewRealtime(root, pol, pipelines, nil, fps)
	lazy, err := NewLazy(root, pol, pipelines, nil, fps, filepath.Join(root, "dirty.json"), 0)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, orch.SetStrategy(ctx, rt))
	require.NoError(t, orch.SetStrategy(ctx, lazy))

	require.False(t, rt.IsActive())
	require.True(t, lazy.IsActive())
	require.Equal(t, "lazy", orch.Current().Name())
}

func TestLazyFlushProcessesAndClearsDirtySet(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	pol, err := policy.New(cfg)
	require.NoError(t, err)
	pipelines := newTestPipelines(t, root)
	fps, err := fingerprint.Load(filepath.Join(root, "fingerprints.json"))
	require.NoError(t, err)

	absPath := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(absPath, []byte("package main\n"), 0o644))

	lazy, err := NewLazy(root, pol, pipelines, nil, fps, filepath.Join(root, "dirty.json"), 0)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, lazy.Initialize(ctx))
	require.NoError(t, lazy.Start(ctx))

	require.NoError(t, lazy.OnFileEvent(ctx, watcher.Event{Path: "a.go", Op: watcher.OpChange}))
	require.Equal(t, 1, lazy.dirty.Len())

	require.NoError(t, lazy.Flush(ctx))
	require.Equal(t, 0, lazy.dirty.Len())
	require.Equal(t, 1, lazy.GetStats().FilesIndexed)
}

type stubReconciler struct{ calls int }

func (s *stubReconciler) Reconcile(ctx context.Context, sink pipeline.ProgressSink) error {
	s.calls++
	return nil
}

func TestGitStrategyFlushRunsReconciliationOnly(t *testing.T) {
	rec := &stubReconciler{}
	g := NewGit(rec)
	ctx := context.Background()

	require.NoError(t, g.Initialize(ctx))
	require.NoError(t, g.Start(ctx))

	require.NoError(t, g.OnFileEvent(ctx, watcher.Event{Path: "whatever.go", Op: watcher.OpChange}))
	require.Equal(t, 0, rec.calls, "git strategy must ignore individual file events")

	require.NoError(t, g.Flush(ctx))
	require.Equal(t, 1, rec.calls)
}
