// Package strategy implements the three indexing strategies (realtime,
// lazy, git) against a common interface, and the Orchestrator that owns
// exactly one active strategy at a time (spec §4.9).
package strategy

import (
	"context"
	"time"

	"github.com/cortexcore/cortexcore/internal/watcher"
)

// State is a strategy's lifecycle state. flush is only permitted in Active.
type State int

const (
	Created State = iota
	Initialized
	Active
	Stopped
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Initialized:
		return "initialized"
	case Active:
		return "active"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats reports one strategy's lifetime counters, returned by its
// GetStats method.
type Stats struct {
	FilesIndexed  int
	ChunksWritten int
	Errors        int
	LastRun       time.Time
}

// Strategy is the common interface the orchestrator drives. Name
// identifies the variant ("realtime", "lazy", "git") for idempotent
// SetStrategy comparisons.
type Strategy interface {
	Name() string
	Initialize(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsActive() bool
	OnFileEvent(ctx context.Context, ev watcher.Event) error
	Flush(ctx context.Context) error
	GetStats() Stats
}
