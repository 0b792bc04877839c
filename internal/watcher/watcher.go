// Package watcher wraps fsnotify with the per-path debounce, write-finish
// stability window, and bounded restart-with-backoff policy the three
// indexing strategies share (spec §4.9). One watcher instance serves all
// three strategies; the orchestrator is the only thing that differs.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cortexcore/cortexcore/internal/platform"
	"github.com/cortexcore/cortexcore/internal/policy"
)

const (
	debounceInterval = 500 * time.Millisecond
	stabilityWindow  = 500 * time.Millisecond
	stabilityPoll    = 100 * time.Millisecond
	maxRestarts      = 3
	restartBackoff   = 5 * time.Second
)

// Op classifies a filesystem change.
type Op int

const (
	OpAdd Op = iota
	OpChange
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpChange:
		return "change"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is one debounced, forward-slash relative-path change notification.
type Event struct {
	Path string
	Op   Op
}

// Watcher observes a project root for add/change/unlink events, filtering
// hard-denies synchronously and debouncing the rest.
type Watcher struct {
	root  string
	pol   *policy.Policy
	hints platform.PollingHints

	fs     *fsnotify.Watcher
	events chan Event
	errs   chan error

	mu       sync.Mutex
	timers   map[string]*time.Timer
	pendOp   map[string]Op
	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a Watcher rooted at root, recursively registering every
// directory the Policy does not hard-deny. Symlinks are never followed.
func New(root string, pol *policy.Policy, hints platform.PollingHints) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:   root,
		pol:    pol,
		hints:  hints,
		fs:     fsw,
		events: make(chan Event, 256),
		errs:   make(chan error, 16),
		timers: map[string]*time.Timer{},
		pendOp: map[string]Op{},
		stopCh: make(chan struct{}),
	}

	if err := w.addDirsRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run starts the event loop and returns the (events, errors) channels. Both
// channels are closed once ctx is canceled or Stop is called.
func (w *Watcher) Run(ctx context.Context) (<-chan Event, <-chan error) {
	go w.loop(ctx)
	return w.events, w.errs
}

// Stop cancels any pending debounce timers and closes the output channels.
// Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()
		w.fs.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)
	defer close(w.errs)

	restarts := 0
	for {
		err := w.runOnce(ctx)
		if err == nil {
			return
		}
		select {
		case w.errs <- err:
		default:
		}

		if restarts >= maxRestarts {
			return
		}
		restarts++

		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-time.After(restartBackoff):
		}

		fsw, rerr := fsnotify.NewWatcher()
		if rerr != nil {
			select {
			case w.errs <- rerr:
			default:
			}
			return
		}
		w.fs = fsw
		if aerr := w.addDirsRecursive(w.root); aerr != nil {
			select {
			case w.errs <- aerr:
			default:
			}
			return
		}
	}
}

// runOnce drains fsnotify until ctx cancellation (clean exit, nil error),
// Stop() (clean exit, nil error), or the underlying channels close
// (restartable error).
func (w *Watcher) runOnce(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopCh:
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher: events channel closed")
			}
			w.handleRaw(ctx, ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher: errors channel closed")
			}
			return err
		}
	}
}

func (w *Watcher) handleRaw(ctx context.Context, ev fsnotify.Event) {
	relPath := w.relPath(ev.Name)
	if relPath == "" {
		return
	}
	if w.pol.IsHardDenied(relPath) {
		return
	}

	switch {
	case ev.Has(fsnotify.Create):
		if info, err := os.Lstat(ev.Name); err == nil {
			if info.Mode()&os.ModeSymlink != 0 {
				return
			}
			if info.IsDir() {
				_ = w.addDirsRecursive(ev.Name)
				return
			}
		}
		w.debounce(ctx, relPath, OpAdd)
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Chmod):
		w.debounce(ctx, relPath, OpChange)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.debounce(ctx, relPath, OpRemove)
	}
}

func (w *Watcher) relPath(absPath string) string {
	rel, err := filepath.Rel(w.root, absPath)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) addDirsRecursive(dir string) error {
	info, err := os.Lstat(dir)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil
	}
	if !info.IsDir() {
		return nil
	}

	relPath := w.relPath(dir)
	if relPath != "." && relPath != "" && w.pol.IsHardDenied(relPath) {
		return nil
	}

	if err := w.fs.Add(dir); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := w.addDirsRecursive(filepath.Join(dir, entry.Name())); err != nil {
			continue
		}
	}
	return nil
}

// isTextLike is used by the stability-window poller to pick the text vs.
// binary interval from platform.PollingHints.
func isTextLike(relPath string) bool {
	ext := strings.ToLower(filepath.Ext(relPath))
	switch ext {
	case ".go", ".ts", ".tsx", ".js", ".jsx", ".py", ".rs", ".java", ".c", ".h", ".cpp", ".md", ".mdx", ".json", ".yaml", ".yml", ".txt":
		return true
	default:
		return false
	}
}
