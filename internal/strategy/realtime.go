package strategy

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cortexcore/cortexcore/internal/chunk"
	"github.com/cortexcore/cortexcore/internal/fingerprint"
	"github.com/cortexcore/cortexcore/internal/pipeline"
	"github.com/cortexcore/cortexcore/internal/policy"
	"github.com/cortexcore/cortexcore/internal/watcher"
)

// Realtime reindexes a file as soon as its debounced watcher event fires,
// provided the fingerprint comparison shows the content actually changed.
type Realtime struct {
	root       string
	policy     *policy.Policy
	pipelines  map[pipeline.Kind]*pipeline.Pipeline
	classify   Classifier
	fps        *fingerprint.Map

	mu     sync.Mutex
	state  State
	stats  Stats
}

// NewRealtime constructs the realtime strategy. fps is the fingerprint map
// used to skip reindexing files whose content hash hasn't actually moved
// (a Write event without a content change is common under some editors).
func NewRealtime(root string, pol *policy.Policy, pipelines map[pipeline.Kind]*pipeline.Pipeline, classify Classifier, fps *fingerprint.Map) *Realtime {
	if classify == nil {
		classify = DefaultClassifier
	}
	return &Realtime{root: root, policy: pol, pipelines: pipelines, classify: classify, fps: fps, state: Created}
}

func (r *Realtime) Name() string { return "realtime" }

func (r *Realtime) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Initialized
	return nil
}

func (r *Realtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Active
	return nil
}

func (r *Realtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Stopped
	return nil
}

func (r *Realtime) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == Active
}

// OnFileEvent implements the realtime onFileEvent contract from spec §4.9's
// table: debounce already happened in the watcher, so this just compares
// the fingerprint and reindexes on a real content change.
func (r *Realtime) OnFileEvent(ctx context.Context, ev watcher.Event) error {
	if !r.IsActive() {
		return nil
	}

	if ev.Op == watcher.OpRemove {
		return r.handleRemove(ctx, ev.Path)
	}

	absPath := filepath.Join(r.root, filepath.FromSlash(ev.Path))
	decision, err := r.policy.ShouldIndex(ev.Path, absPath)
	if err != nil {
		r.recordError()
		return err
	}
	if !decision.ShouldIndex {
		return nil
	}

	if data, rerr := os.ReadFile(absPath); rerr == nil {
		if recorded, ok := r.fps.Get(ev.Path); ok && recorded == chunk.HashContent(data) {
			return nil
		}
	}

	p, ok := r.pipelines[r.classify(ev.Path)]
	if !ok {
		return nil
	}

	mode, written, err := p.ReindexFile(ctx, ev.Path, absPath)
	if err != nil {
		r.recordError()
		return err
	}
	_ = mode

	r.mu.Lock()
	r.stats.FilesIndexed++
	r.stats.ChunksWritten += written
	r.stats.LastRun = time.Now()
	r.mu.Unlock()
	return nil
}

func (r *Realtime) handleRemove(ctx context.Context, relPath string) error {
	p, ok := r.pipelines[r.classify(relPath)]
	if !ok {
		return nil
	}
	if err := p.Store.DeleteByPath(ctx, relPath); err != nil {
		r.recordError()
		return err
	}
	r.fps.Delete(relPath)

	r.mu.Lock()
	r.stats.FilesIndexed++
	r.stats.LastRun = time.Now()
	r.mu.Unlock()
	return nil
}

func (r *Realtime) recordError() {
	r.mu.Lock()
	r.stats.Errors++
	r.mu.Unlock()
}

// Flush is a no-op for realtime: every event is already applied as it
// arrives, per spec §4.9's strategy table.
func (r *Realtime) Flush(ctx context.Context) error { return nil }

func (r *Realtime) GetStats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
