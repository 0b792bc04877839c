package strategy

import (
	"context"
	"sync"

	"github.com/cortexcore/cortexcore/internal/watcher"
)

// Orchestrator owns exactly one active Strategy and the shared Watcher
// feeding it events. SetStrategy is idempotent for the same strategy name;
// switching strategies flushes and stops the old one before starting the
// new. The Orchestrator registers no process shutdown hook; the active
// strategy is stopped only through Stop.
type Orchestrator struct {
	w *watcher.Watcher

	mu      sync.Mutex
	current Strategy
	errs    chan error
}

// NewOrchestrator wires an Orchestrator to a Watcher. The Watcher is not
// started until Run is called.
func NewOrchestrator(w *watcher.Watcher) *Orchestrator {
	return &Orchestrator{w: w, errs: make(chan error, 16)}
}

// Run starts the watcher and a goroutine dispatching its events to
// whichever strategy is active when each event arrives, then returns at
// once. The goroutine exits when ctx is canceled or the watcher's event
// channel closes (the watcher gave up after its restart budget).
func (o *Orchestrator) Run(ctx context.Context) {
	events, watcherErrs := o.w.Run(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				o.dispatch(ctx, ev)
			case err, ok := <-watcherErrs:
				if !ok {
					continue
				}
				select {
				case o.errs <- err:
				default:
				}
			}
		}
	}()
}

func (o *Orchestrator) dispatch(ctx context.Context, ev watcher.Event) {
	o.mu.Lock()
	cur := o.current
	o.mu.Unlock()
	if cur == nil {
		return
	}
	if err := cur.OnFileEvent(ctx, ev); err != nil {
		select {
		case o.errs <- err:
		default:
		}
	}
}

// Errors returns the channel watcher and strategy errors are surfaced on.
func (o *Orchestrator) Errors() <-chan error { return o.errs }

// SetStrategy activates s. If s.Name() matches the currently active
// strategy's name, this is a no-op (idempotent transition). Otherwise the
// current strategy is flushed then stopped before s is initialized and
// started.
func (o *Orchestrator) SetStrategy(ctx context.Context, s Strategy) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != nil && o.current.Name() == s.Name() {
		return nil
	}

	if o.current != nil {
		if err := o.current.Flush(ctx); err != nil {
			return err
		}
		if err := o.current.Stop(ctx); err != nil {
			return err
		}
	}

	if err := s.Initialize(ctx); err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	o.current = s
	return nil
}

// Current returns the active strategy, or nil if none has been set yet.
func (o *Orchestrator) Current() Strategy {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Stop flushes and stops the active strategy and closes the watcher.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.mu.Lock()
	cur := o.current
	o.current = nil
	o.mu.Unlock()

	var err error
	if cur != nil {
		if ferr := cur.Flush(ctx); ferr != nil {
			err = ferr
		}
		if serr := cur.Stop(ctx); serr != nil && err == nil {
			err = serr
		}
	}
	o.w.Stop()
	return err
}
