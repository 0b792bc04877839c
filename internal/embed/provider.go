// Package embed defines the Embedder capability: an abstract batch
// embedding provider with device auto-selection, partial-failure
// tracking, and memoized initialization. The neural model weights and
// tokenizer are out of scope (spec §1) — Provider is the boundary.
package embed

import "context"

// ProgressFunc receives (current, total) updates during a long-running
// call.
type ProgressFunc func(current, total int)

// BatchResult is the outcome of one embedBatch call. Vectors and
// SuccessIndices are the same length and index-aligned: Vectors[i]
// corresponds to the input at SuccessIndices[i]. No zero vector is ever
// injected for a failed input.
type BatchResult struct {
	Vectors        [][]float32
	SuccessIndices []int
	FailedCount    int
}

// Provider is the Embedder contract consumed by the pipeline.
type Provider interface {
	// Initialize prepares the provider (model load, device probe). It is
	// safe to call concurrently; see Registry for the memoization
	// contract.
	Initialize(ctx context.Context, progress ProgressFunc) error

	// EmbedBatch embeds texts, returning partial results on individual
	// failures rather than aborting the whole batch.
	EmbedBatch(ctx context.Context, texts []string, progress ProgressFunc) (BatchResult, error)

	// Dimension returns the fixed vector length this provider produces.
	Dimension() int

	// DeviceInfo returns the device this provider initialized on.
	DeviceInfo() DeviceInfo

	// BatchSize returns the preferred batch size for the active device:
	// 64 on accelerator devices, 32 on CPU.
	BatchSize() int
}
