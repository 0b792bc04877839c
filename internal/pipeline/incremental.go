package pipeline

import (
	"context"

	"github.com/cortexcore/cortexcore/internal/chunk"
	"github.com/cortexcore/cortexcore/internal/embed"
	"github.com/cortexcore/cortexcore/internal/store"
)

// ReindexMode records which path ReindexFile took, for callers (strategies,
// tests) that want to observe it.
type ReindexMode string

const (
	ReindexFull        ReindexMode = "full"
	ReindexIncremental ReindexMode = "incremental"
)

// minOldChunksForIncremental and minSavedRatio are the heuristic thresholds
// from spec §4.7: below either, a full replace is cheaper to reason about
// than the bookkeeping an incremental diff requires.
const (
	minOldChunksForIncremental = 3
	minSavedRatio              = 0.25
)

// ReindexFile reindexes one already-changed file, reusing embedding vectors
// for chunks whose content did not change (spec §4.7). It falls back to a
// full chunk/embed/store replace when the heuristic thresholds aren't met.
func (p *Pipeline) ReindexFile(ctx context.Context, relPath, absPath string) (ReindexMode, int, error) {
	fi, err := p.loadFile(relPath, absPath)
	if err != nil {
		return ReindexFull, 0, err
	}

	newChunks, err := p.chunkFile(fi)
	if err != nil {
		return ReindexFull, 0, err
	}

	existing, err := p.Store.ListChunksByPath(ctx, relPath)
	if err != nil {
		return ReindexFull, 0, err
	}

	plan := planIncremental(existing, newChunks)

	if len(existing) < minOldChunksForIncremental || plan.savedRatio(len(newChunks)) < minSavedRatio {
		written, werr := p.embedAndStore(ctx, fi, newChunks, NoopSink{})
		if werr != nil {
			return ReindexFull, 0, werr
		}
		p.Fps.Set(relPath, fi.contentHash, fi.mtimeNano)
		return ReindexFull, written, nil
	}

	written, err := p.applyIncremental(ctx, fi, plan)
	if err != nil {
		return ReindexIncremental, 0, err
	}
	p.Fps.Set(relPath, fi.contentHash, fi.mtimeNano)
	return ReindexIncremental, written, nil
}

type incrementalPlan struct {
	reused  []store.Record // unchanged or moved, vector carried over, span/contentHash refreshed
	added   []chunk.Chunk  // need a fresh embedding
	removed []string       // existing IDs with no match in the new chunk set
}

func (pl incrementalPlan) savedRatio(newTotal int) float64 {
	if newTotal == 0 {
		return 1
	}
	return float64(len(pl.reused)) / float64(newTotal)
}

// planIncremental groups existing chunks by chunkHash, then walks the new
// chunks in order matching same-hash-same-span (unchanged), same-hash-
// different-span (moved, vector reused), or no match (added). Anything left
// unmatched in the existing set is removed.
func planIncremental(existing []store.Record, newChunks []chunk.Chunk) incrementalPlan {
	byHash := map[string][]store.Record{}
	for _, r := range existing {
		byHash[r.ChunkHash] = append(byHash[r.ChunkHash], r)
	}

	var plan incrementalPlan
	for _, nc := range newChunks {
		candidates := byHash[nc.ChunkHash]
		if len(candidates) == 0 {
			plan.added = append(plan.added, nc)
			continue
		}

		matchIdx := -1
		for i, cand := range candidates {
			if cand.StartLine == nc.StartLine && cand.EndLine == nc.EndLine {
				matchIdx = i
				break
			}
		}
		if matchIdx == -1 {
			matchIdx = 0
		}

		matched := candidates[matchIdx]
		byHash[nc.ChunkHash] = append(candidates[:matchIdx], candidates[matchIdx+1:]...)

		plan.reused = append(plan.reused, store.Record{
			ID:          matched.ID,
			Path:        nc.Path,
			Text:        nc.Text,
			Vector:      matched.Vector,
			StartLine:   nc.StartLine,
			EndLine:     nc.EndLine,
			ContentHash: nc.ContentHash,
			ChunkHash:   nc.ChunkHash,
		})
	}

	for _, remaining := range byHash {
		for _, r := range remaining {
			plan.removed = append(plan.removed, r.ID)
		}
	}
	return plan
}

// applyIncremental embeds only the added chunks, then persists insert of
// reused+new records before deleting plan.removed by id set, per spec §5's
// "insert new, then delete old by id set" ordering for stores without a
// transaction: a concurrent reader never observes the path with fewer
// chunks than either the old or new state has.
func (p *Pipeline) applyIncremental(ctx context.Context, fi fileInput, plan incrementalPlan) (int, error) {
	records := append([]store.Record{}, plan.reused...)

	if len(plan.added) > 0 {
		texts := make([]string, len(plan.added))
		for i, c := range plan.added {
			texts[i] = c.Text
		}
		batch, err := embed.EmbedAll(ctx, p.Embedder, texts, nil)
		if err != nil {
			return 0, err
		}
		for i, idx := range batch.SuccessIndices {
			c := plan.added[idx]
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
	}

	if len(records) > 0 {
		if err := p.Store.InsertChunks(ctx, records); err != nil {
			return 0, err
		}
	}
	if err := p.Store.DeleteByIDs(ctx, plan.removed); err != nil {
		return 0, err
	}
	return len(records), nil
}
