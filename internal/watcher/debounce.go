package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// debounce collapses rapid repeat events for the same path into the last
// op observed within debounceInterval, then waits for the file to stop
// changing size before emitting (the "write-finish" stability window).
func (w *Watcher) debounce(ctx context.Context, relPath string, op Op) {
	w.mu.Lock()
	w.pendOp[relPath] = op
	if t, ok := w.timers[relPath]; ok {
		t.Stop()
	}
	w.timers[relPath] = time.AfterFunc(debounceInterval, func() {
		w.fire(ctx, relPath)
	})
	w.mu.Unlock()
}

func (w *Watcher) fire(ctx context.Context, relPath string) {
	w.mu.Lock()
	op, ok := w.pendOp[relPath]
	delete(w.pendOp, relPath)
	delete(w.timers, relPath)
	w.mu.Unlock()
	if !ok {
		return
	}

	if op != OpRemove {
		w.waitStable(ctx, relPath)
	}

	select {
	case <-ctx.Done():
	case <-w.stopCh:
	case w.events <- Event{Path: relPath, Op: op}:
	}
}

// waitStable polls the file's size until two consecutive reads agree, or
// stabilityWindow elapses, to avoid emitting an event for a half-written
// file. A file that disappears mid-wait (deleted right after a write) is
// treated as stable immediately; the consumer will see the eventual
// OpRemove separately.
func (w *Watcher) waitStable(ctx context.Context, relPath string) {
	absPath := filepath.Join(w.root, filepath.FromSlash(relPath))
	interval := w.pollInterval(relPath)

	deadline := time.Now().Add(stabilityWindow)
	lastSize := int64(-1)

	for time.Now().Before(deadline) {
		info, err := os.Stat(absPath)
		if err != nil {
			return
		}
		if info.Size() == lastSize {
			return
		}
		lastSize = info.Size()

		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-time.After(interval):
		}
	}
}

func (w *Watcher) pollInterval(relPath string) time.Duration {
	if !w.hints.UsePolling {
		return stabilityPoll
	}
	if isTextLike(relPath) {
		return w.hints.TextInterval
	}
	return w.hints.BinaryInterval
}
