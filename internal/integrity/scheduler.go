package integrity

import (
	"context"
	"time"
)

// DefaultScanInterval is the scheduler's default period (spec §4.10).
const DefaultScanInterval = 24 * time.Hour

// StartScheduler launches a single ticker-driven goroutine that calls
// RunNow every interval. Calling StartScheduler while a scheduler is
// already running is a no-op, guarding against double-registration; call
// StopScheduler first to change the interval.
func (e *Engine) StartScheduler(ctx context.Context, interval time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelTimer != nil {
		return
	}
	if interval <= 0 {
		interval = DefaultScanInterval
	}

	schedCtx, cancel := context.WithCancel(ctx)
	e.cancelTimer = cancel

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-schedCtx.Done():
				return
			case <-ticker.C:
				_ = e.RunNow(schedCtx)
			}
		}
	}()
}

// StopScheduler cancels the running scheduler, if any, and returns without
// waiting for the ticker goroutine: that goroutine observes ctx.Done() and
// exits on its own, so a reconcile already in progress may still be
// running when StopScheduler returns.
func (e *Engine) StopScheduler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelTimer == nil {
		return
	}
	e.cancelTimer()
	e.cancelTimer = nil
}
