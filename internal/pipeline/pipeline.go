// Package pipeline orchestrates the scan -> chunk -> embed -> store flow
// for both the code and docs indexes (spec §4.8).
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/cortexcore/cortexcore/internal/chunk"
	"github.com/cortexcore/cortexcore/internal/chunk/router"
	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/embed"
	"github.com/cortexcore/cortexcore/internal/fingerprint"
	"github.com/cortexcore/cortexcore/internal/policy"
	"github.com/cortexcore/cortexcore/internal/store"
)

// Kind selects which half of the dual code/docs pipeline an instance runs.
type Kind string

const (
	KindCode Kind = "code"
	KindDocs Kind = "docs"
)

// codeBatchSize and streamingBatchSize are the file-batch sizes named in
// spec §4.8: 50 under normal conditions, 3 under memory pressure.
const (
	codeBatchSize      = 50
	streamingBatchSize = 3
)

// commentMarkerPrefix tags extractComments-mode chunks in the docs store,
// matching spec §4.8's `[code-comment] <path>` example exactly.
const commentMarkerPrefix = "[code-comment] "

// FileError records a per-file failure that does not abort the batch.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

// Result aggregates one IndexFiles call's outcome.
type Result struct {
	FilesProcessed int
	ChunksWritten  int
	Errors         []FileError
}

// MemoryPressureFunc reports whether the process should fall back to the
// smaller streaming batch size. The default implementation checks
// runtime.MemStats against a fixed heap threshold; callers running under a
// tighter resource budget can inject a stricter one.
type MemoryPressureFunc func() bool

// DefaultMemoryPressure flags pressure once heap allocation crosses 512MB,
// a conservative number chosen to avoid thrashing on a typical dev laptop.
func DefaultMemoryPressure() bool {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc > 512*1024*1024
}

// Pipeline wires one (policy, chunker, embedder, store, fingerprint map)
// stack for either the code or docs half of the index.
type Pipeline struct {
	Kind    Kind
	Root    string
	Policy  *policy.Policy
	Profile config.ChunkingProfile

	Embedder embed.Provider
	Store    store.ChunkStore
	Fps      *fingerprint.Map

	// ExtractComments mode reads code files and emits marker-prefixed
	// doc-like chunks into the docs store instead of regular code chunks.
	// Only meaningful when Kind == KindDocs.
	ExtractComments bool

	MemoryPressure MemoryPressureFunc

	inFlight sync.Map // relPath -> struct{}
}

// New constructs a Pipeline. MemoryPressure defaults to
// DefaultMemoryPressure when nil.
func New(kind Kind, root string, pol *policy.Policy, profile config.ChunkingProfile, embedder embed.Provider, st store.ChunkStore, fps *fingerprint.Map) *Pipeline {
	return &Pipeline{
		Kind:           kind,
		Root:           root,
		Policy:         pol,
		Profile:        profile,
		Embedder:       embedder,
		Store:          st,
		Fps:            fps,
		MemoryPressure: DefaultMemoryPressure,
	}
}

type fileInput struct {
	relPath     string
	absPath     string
	contentHash string
	mtimeNano   int64
	source      []byte
}

// IndexFiles runs the full pipeline over files (relPath -> absPath),
// batching per spec §4.8. Per-file failures are recorded in Result.Errors
// and do not abort the remaining files. A relPath already in flight (a
// concurrent call processing the same file) is skipped entirely, coalescing
// repeat events per the ordering guarantee in spec §5.
func (p *Pipeline) IndexFiles(ctx context.Context, files map[string]string, sink ProgressSink) (Result, error) {
	if sink == nil {
		sink = NoopSink{}
	}

	var result Result

	relPaths := make([]string, 0, len(files))
	total := len(files)
	cur := 0
	for relPath := range files {
		cur++
		sink.OnProgress(Event{Kind: Scanning, Cur: cur, Total: total, File: relPath})

		if _, busy := p.inFlight.LoadOrStore(relPath, struct{}{}); busy {
			continue
		}
		relPaths = append(relPaths, relPath)
	}
	defer func() {
		for _, relPath := range relPaths {
			p.inFlight.Delete(relPath)
		}
	}()

	batchSize := codeBatchSize
	if p.MemoryPressure != nil && p.MemoryPressure() {
		batchSize = streamingBatchSize
	}

	inputs := make([]fileInput, 0, len(relPaths))
	for start := 0; start < len(relPaths); start += batchSize {
		end := min(start+batchSize, len(relPaths))
		for _, relPath := range relPaths[start:end] {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}
			fi, ferr := p.loadFile(relPath, files[relPath])
			if ferr != nil {
				result.Errors = append(result.Errors, FileError{Path: relPath, Err: ferr})
				continue
			}
			inputs = append(inputs, fi)
		}
	}

	for i, fi := range inputs {
		sink.OnProgress(Event{Kind: Chunking, Cur: i + 1, Total: len(inputs), File: fi.relPath})

		chunks, cerr := p.chunkFile(fi)
		if cerr != nil {
			result.Errors = append(result.Errors, FileError{Path: fi.relPath, Err: cerr})
			continue
		}
		if len(chunks) == 0 {
			continue
		}

		written, werr := p.embedAndStore(ctx, fi, chunks, sink)
		if werr != nil {
			result.Errors = append(result.Errors, FileError{Path: fi.relPath, Err: werr})
			continue
		}

		result.FilesProcessed++
		result.ChunksWritten += written
		p.Fps.Set(fi.relPath, fi.contentHash, fi.mtimeNano)
	}

	return result, nil
}

func (p *Pipeline) chunkFile(fi fileInput) ([]chunk.Chunk, error) {
	path := fi.relPath
	if p.ExtractComments {
		text, err := p.commentSource(fi)
		if err != nil {
			return nil, err
		}
		if text == "" {
			return nil, nil
		}
		return router.Dispatch(commentMarkerPrefix+path, []byte(text), fi.contentHash, p.Profile).Chunks, nil
	}

	res := router.Dispatch(path, fi.source, fi.contentHash, p.Profile)
	return res.Chunks, nil
}

func (p *Pipeline) embedAndStore(ctx context.Context, fi fileInput, chunks []chunk.Chunk, sink ProgressSink) (int, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	progress := func(cur, total int) {
		sink.OnProgress(Event{Kind: Embedding, Cur: cur, Total: total, File: fi.relPath})
	}

	batch, err := embed.EmbedAll(ctx, p.Embedder, texts, progress)
	if err != nil {
		return 0, err
	}

	records := make([]store.Record, 0, len(batch.SuccessIndices))
	for i, idx := range batch.SuccessIndices {
		c := chunks[idx]
		records = append(records, store.Record{
			ID:          c.ID,
			Path:        fi.relPath,
			Text:        c.Text,
			Vector:      batch.Vectors[i],
			StartLine:   c.StartLine,
			EndLine:     c.EndLine,
			ContentHash: c.ContentHash,
			ChunkHash:   c.ChunkHash,
		})
	}

	sink.OnProgress(Event{Kind: Storing, Cur: 1, Total: 1, File: fi.relPath})

	stale, err := p.Store.ListChunksByPath(ctx, fi.relPath)
	if err != nil {
		return 0, err
	}
	staleIDs := make([]string, len(stale))
	for i, r := range stale {
		staleIDs[i] = r.ID
	}

	if len(records) > 0 {
		if err := p.Store.InsertChunks(ctx, records); err != nil {
			return 0, err
		}
	}
	if err := p.Store.DeleteByIDs(ctx, staleIDs); err != nil {
		return 0, err
	}
	return len(records), nil
}
