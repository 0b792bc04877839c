package chunk

import (
	"sort"
	"strings"
)

// BuildChars runs the character-recursive splitter over a whole file and
// assembles Chunk records with accurate line numbers, content hash and
// chunk hash, per spec §4.2 and the Chunk invariants in spec §3.
func BuildChars(path, text, contentHash string, opts CharSplitterOptions) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := splitPieces(text, opts.Separators, opts.ChunkSize, 0)
	groups := groupPieces(pieces, opts.ChunkSize, opts.ChunkOverlap)
	newlines := newlineOffsets(text)

	chunks := make([]Chunk, 0, len(groups))
	for _, g := range groups {
		startByte := pieces[g.start].start
		endByte := pieces[g.end].end
		body := text[startByte:endByte]

		lastByte := endByte - 1
		if lastByte < startByte {
			lastByte = startByte
		}
		chunks = append(chunks, Chunk{
			ID:          NewChunkID(),
			Path:        path,
			Text:        body,
			StartLine:   lineNumber(newlines, startByte),
			EndLine:     lineNumber(newlines, lastByte),
			ContentHash: contentHash,
			ChunkHash:   HashChunkText(body),
		})
	}
	return chunks
}

type pieceGroup struct {
	start, end int // indices into the pieces slice, inclusive
}

// groupPieces accumulates consecutive leaf pieces into groups bounded by
// chunkSize bytes, carrying back enough trailing pieces from one group
// into the next to approximate chunkOverlap shared bytes.
func groupPieces(pieces []piece, chunkSize, overlap int) []pieceGroup {
	if len(pieces) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		return []pieceGroup{{0, len(pieces) - 1}}
	}

	var groups []pieceGroup
	start := 0
	size := 0

	for i, p := range pieces {
		if size > 0 && size+p.len() > chunkSize {
			groups = append(groups, pieceGroup{start, i - 1})
			start = overlapStart(pieces, i, overlap)
			size = sumPieceLen(pieces[start:i])
		}
		size += p.len()
	}
	groups = append(groups, pieceGroup{start, len(pieces) - 1})

	return mergeRuntGroups(groups, pieces, chunkSize)
}

// overlapStart walks backward from boundary i looking for the earliest
// piece index such that pieces [idx, i) total at most overlap bytes, so
// the next group starts with that much shared trailing context from the
// previous one.
func overlapStart(pieces []piece, i, overlap int) int {
	if overlap <= 0 {
		return i
	}
	total := 0
	idx := i
	for idx > 0 {
		cand := pieces[idx-1].len()
		if total+cand > overlap {
			break
		}
		total += cand
		idx--
	}
	return idx
}

func sumPieceLen(pieces []piece) int {
	total := 0
	for _, p := range pieces {
		total += p.len()
	}
	return total
}

// mergeRuntGroups folds a trailing group smaller than 10% of chunkSize into
// its predecessor so the last chunk of a file isn't a near-empty runt.
func mergeRuntGroups(groups []pieceGroup, pieces []piece, chunkSize int) []pieceGroup {
	if len(groups) < 2 {
		return groups
	}
	last := groups[len(groups)-1]
	lastSize := sumPieceLen(pieces[last.start : last.end+1])
	if lastSize < chunkSize/10 {
		merged := make([]pieceGroup, len(groups)-1)
		copy(merged, groups[:len(groups)-1])
		merged[len(merged)-1].end = last.end
		return merged
	}
	return groups
}

// newlineOffsets records the byte offset of every '\n' in text, ascending,
// so lineNumber can binary-search it instead of rescanning text per chunk.
func newlineOffsets(text string) []int {
	var offs []int
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offs = append(offs, i)
		}
	}
	return offs
}

// lineNumber returns the 1-based line containing bytePos, given the
// ascending newline offsets produced by newlineOffsets.
func lineNumber(newlines []int, bytePos int) int {
	count := sort.Search(len(newlines), func(i int) bool { return newlines[i] >= bytePos })
	return count + 1
}
