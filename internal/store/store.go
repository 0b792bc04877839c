// Package store defines the ChunkStore contract (spec §6) and ships two
// independent reference implementations — chromem-go and coder/hnsw — so
// the pipeline is testable without a real vector database and the on-disk
// format question from spec §1 stays genuinely open per backend.
package store

import "context"

// Record is one persisted chunk: its text, vector, and the span/hash
// metadata needed for incremental reindex (spec §6's listChunksByPath).
type Record struct {
	ID          string
	Path        string
	Text        string
	Vector      []float32
	StartLine   int
	EndLine     int
	ContentHash string
	ChunkHash   string
}

// ChunkStore is the abstract vector store the indexing pipeline writes to
// and the Embedder's dimension is validated against.
type ChunkStore interface {
	Open(ctx context.Context) error
	Close() error

	InsertChunks(ctx context.Context, records []Record) error
	DeleteByPath(ctx context.Context, relPath string) error
	// DeleteByIDs removes exactly the given record IDs, leaving any other
	// record at the same path untouched. Callers replacing a path's chunks
	// insert the new records first and delete the superseded IDs after, so
	// a concurrent reader never observes the path with zero chunks.
	DeleteByIDs(ctx context.Context, ids []string) error
	ListChunksByPath(ctx context.Context, relPath string) ([]Record, error)

	CountFiles(ctx context.Context) (int, error)
	CountChunks(ctx context.Context) (int, error)
	GetStorageSize(ctx context.Context) (int64, error)
	HasData(ctx context.Context) (bool, error)

	Delete(ctx context.Context) error
}

var (
	_ ChunkStore = (*ChromemStore)(nil)
	_ ChunkStore = (*HNSWStore)(nil)
)
