// Package integrity implements the Integrity Engine: an on-demand and
// scheduled drift check/reconcile pass that routes filesystem changes
// missed by the filewatcher back through the indexing pipeline (spec
// §4.10).
package integrity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cortexcore/cortexcore/internal/corerr"
	"github.com/cortexcore/cortexcore/internal/fingerprint"
	"github.com/cortexcore/cortexcore/internal/pipeline"
	"github.com/cortexcore/cortexcore/internal/policy"
)

// Classifier picks which pipeline owns a given relative path; duplicated
// here (rather than imported from internal/strategy) to keep integrity and
// strategy independent of each other; only the function type is declared
// here, and callers pass strategy.DefaultClassifier converted to it.
type Classifier func(relPath string) pipeline.Kind

// Engine owns the fingerprint map, policy, and per-kind pipelines needed
// to reconcile the filesystem against the index on demand or on a
// schedule.
type Engine struct {
	root      string
	policy    *policy.Policy
	fps       *fingerprint.Map
	pipelines map[pipeline.Kind]*pipeline.Pipeline
	classify  Classifier

	indexingActive atomic.Bool

	mu          sync.Mutex
	cancelTimer context.CancelFunc
}

// NewEngine constructs an Engine. classify defaults to routing everything
// to pipeline.KindCode when nil (callers with a docs pipeline should
// always supply one).
func NewEngine(root string, pol *policy.Policy, fps *fingerprint.Map, pipelines map[pipeline.Kind]*pipeline.Pipeline, classify Classifier) *Engine {
	if classify == nil {
		classify = func(string) pipeline.Kind { return pipeline.KindCode }
	}
	return &Engine{root: root, policy: pol, fps: fps, pipelines: pipelines, classify: classify}
}

// CheckDrift scans the project and reports added/modified/removed paths
// relative to the fingerprint map, without applying anything. Returns a
// *corerr.BusyError if a reconcile is already running (drift checks do not
// mark themselves busy, so two checks can run at once),
// matching spec §4.6's "skipped when indexing active" rule.
func (e *Engine) CheckDrift(ctx context.Context) (fingerprint.Drift, error) {
	if e.indexingActive.Load() {
		return fingerprint.Drift{}, &corerr.BusyError{Operation: "drift check"}
	}

	eligible, err := ScanEligible(e.root, e.policy)
	if err != nil {
		return fingerprint.Drift{}, err
	}
	return fingerprint.CheckDrift(ctx, e.fps, e.policy, eligible)
}

// Reconcile drives a full drift-then-apply pass: scan, diff against the
// fingerprint map, route added/modified files through the matching
// pipeline's ReindexFile, delete removed ones, and persist the fingerprint
// map. Guarded against overlap with another reconcile via the engine's
// indexingActive flag. The indexing pipeline does not set that flag, so a
// reconcile is not blocked by a pipeline IndexFiles call in progress.
func (e *Engine) Reconcile(ctx context.Context, sink pipeline.ProgressSink) error {
	if sink == nil {
		sink = pipeline.NoopSink{}
	}
	if !e.indexingActive.CompareAndSwap(false, true) {
		return &corerr.BusyError{Operation: "reconcile"}
	}
	defer e.indexingActive.Store(false)

	eligible, err := ScanEligible(e.root, e.policy)
	if err != nil {
		return err
	}
	drift, err := fingerprint.CheckDrift(ctx, e.fps, e.policy, eligible)
	if err != nil {
		return err
	}
	if drift.IsEmpty() {
		return nil
	}

	changed := append(append([]string{}, drift.Added...), drift.Modified...)
	total := len(changed) + len(drift.Removed)
	cur := 0

	for _, relPath := range changed {
		cur++
		sink.OnProgress(pipeline.Event{Kind: pipeline.Chunking, Cur: cur, Total: total, File: relPath})

		absPath, ok := eligible[relPath]
		if !ok {
			continue
		}
		p, ok := e.pipelines[e.classify(relPath)]
		if !ok {
			continue
		}
		if _, _, rerr := p.ReindexFile(ctx, relPath, absPath); rerr != nil {
			continue
		}
	}

	for _, relPath := range drift.Removed {
		cur++
		sink.OnProgress(pipeline.Event{Kind: pipeline.Storing, Cur: cur, Total: total, File: relPath})

		p, ok := e.pipelines[e.classify(relPath)]
		if ok {
			_ = p.Store.DeleteByPath(ctx, relPath)
		}
		e.fps.Delete(relPath)
	}

	return e.fps.Save()
}

// RunNow is the manual-trigger entry point named in spec §4.10.
func (e *Engine) RunNow(ctx context.Context) error {
	return e.Reconcile(ctx, pipeline.NoopSink{})
}
