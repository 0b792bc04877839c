package strategy

import (
	"context"
	"sync"
	"time"

	"github.com/cortexcore/cortexcore/internal/pipeline"
	"github.com/cortexcore/cortexcore/internal/watcher"
)

// Reconciler is the subset of the Integrity Engine the git strategy needs:
// a full drift-then-apply pass. Declared here (not imported from
// internal/integrity) so strategy and integrity don't depend on each
// other; internal/integrity.Engine implements it.
type Reconciler interface {
	Reconcile(ctx context.Context, sink pipeline.ProgressSink) error
}

// Git ignores individual file events entirely — commits are the unit of
// change for this strategy — and instead runs a full drift reconciliation
// on Flush, per spec §4.9's strategy table.
type Git struct {
	reconciler Reconciler

	mu    sync.Mutex
	state State
	stats Stats
}

func NewGit(reconciler Reconciler) *Git {
	return &Git{reconciler: reconciler, state: Created}
}

func (g *Git) Name() string { return "git" }

func (g *Git) Initialize(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Initialized
	return nil
}

func (g *Git) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Active
	return nil
}

func (g *Git) Stop(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Stopped
	return nil
}

func (g *Git) IsActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == Active
}

// OnFileEvent is a no-op: git strategy tracks commits, not raw fs events.
func (g *Git) OnFileEvent(ctx context.Context, ev watcher.Event) error { return nil }

func (g *Git) Flush(ctx context.Context) error {
	if !g.IsActive() {
		return nil
	}
	err := g.reconciler.Reconcile(ctx, pipeline.NoopSink{})

	g.mu.Lock()
	if err != nil {
		g.stats.Errors++
	}
	g.stats.LastRun = time.Now()
	g.mu.Unlock()
	return err
}

func (g *Git) GetStats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}
