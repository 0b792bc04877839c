package strategy

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cortexcore/cortexcore/internal/fingerprint"
	"github.com/cortexcore/cortexcore/internal/pipeline"
	"github.com/cortexcore/cortexcore/internal/policy"
	"github.com/cortexcore/cortexcore/internal/watcher"
)

// Lazy defers reindexing: file events only mark a path dirty, and Flush
// processes the whole dirty set in one pass. An optional idle-threshold
// timer auto-flushes after a period of no new events.
type Lazy struct {
	root      string
	policy    *policy.Policy
	pipelines map[pipeline.Kind]*pipeline.Pipeline
	classify  Classifier
	fps       *fingerprint.Map
	dirty     *dirtySet

	idleThreshold time.Duration

	mu        sync.Mutex
	state     State
	stats     Stats
	idleTimer *time.Timer
}

// NewLazy constructs the lazy strategy. idleThreshold of zero disables the
// auto-flush timer; callers must invoke Flush explicitly.
func NewLazy(root string, pol *policy.Policy, pipelines map[pipeline.Kind]*pipeline.Pipeline, classify Classifier, fps *fingerprint.Map, dirtySetPath string, idleThreshold time.Duration) (*Lazy, error) {
	dirty, err := loadDirtySet(dirtySetPath)
	if err != nil {
		return nil, err
	}
	if classify == nil {
		classify = DefaultClassifier
	}
	return &Lazy{
		root: root, policy: pol, pipelines: pipelines, classify: classify,
		fps: fps, dirty: dirty, idleThreshold: idleThreshold, state: Created,
	}, nil
}

func (l *Lazy) Name() string { return "lazy" }

func (l *Lazy) Initialize(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Initialized
	return nil
}

func (l *Lazy) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Active
	return nil
}

func (l *Lazy) Stop(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idleTimer != nil {
		l.idleTimer.Stop()
	}
	l.state = Stopped
	return l.dirty.Save()
}

func (l *Lazy) IsActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == Active
}

// OnFileEvent only records relPath as dirty; the actual reindex happens in
// Flush, per spec §4.9's strategy table.
func (l *Lazy) OnFileEvent(ctx context.Context, ev watcher.Event) error {
	if !l.IsActive() {
		return nil
	}
	l.dirty.Add(ev.Path)
	if err := l.dirty.Save(); err != nil {
		return err
	}
	l.resetIdleTimer(ctx)
	return nil
}

func (l *Lazy) resetIdleTimer(ctx context.Context) {
	if l.idleThreshold <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idleTimer != nil {
		l.idleTimer.Stop()
	}
	l.idleTimer = time.AfterFunc(l.idleThreshold, func() {
		_ = l.Flush(ctx)
	})
}

// Flush reindexes every dirty path, then clears the set, matching spec
// §4.9's "process all dirty entries; clear set" semantics.
func (l *Lazy) Flush(ctx context.Context) error {
	if !l.IsActive() {
		return nil
	}

	paths := l.dirty.Snapshot()
	var lastErr error
	for _, relPath := range paths {
		absPath := filepath.Join(l.root, filepath.FromSlash(relPath))
		decision, err := l.policy.ShouldIndex(relPath, absPath)
		if err != nil || !decision.ShouldIndex {
			continue
		}

		p, ok := l.pipelines[l.classify(relPath)]
		if !ok {
			continue
		}

		_, written, err := p.ReindexFile(ctx, relPath, absPath)
		l.mu.Lock()
		if err != nil {
			l.stats.Errors++
			lastErr = err
		} else {
			l.stats.FilesIndexed++
			l.stats.ChunksWritten += written
		}
		l.stats.LastRun = time.Now()
		l.mu.Unlock()
	}

	l.dirty.Clear()
	if err := l.dirty.Save(); err != nil {
		return err
	}
	return lastErr
}

func (l *Lazy) GetStats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}
