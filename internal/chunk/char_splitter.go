package chunk

import (
	"strings"
	"unicode/utf8"
)

// CharSplitterOptions parameterize the recursive character splitter.
type CharSplitterOptions struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string // tried in order; "" always terminates recursion
}

// piece is a leaf span produced by splitPieces: a byte range of the
// original text that is either within ChunkSize already or the product of
// the final rune-level hard-slice fallback.
type piece struct {
	start, end int // byte offsets into the original text, end exclusive
}

func (p piece) len() int { return p.end - p.start }

// splitPieces recursively separates text on the earliest separator that
// still appears in it, descending into the remaining separators for any
// resulting piece still larger than chunkSize, and falling back to a
// rune-safe hard slice once separators are exhausted. Every byte of text
// is covered by exactly one leaf piece.
func splitPieces(text string, separators []string, chunkSize, offset int) []piece {
	if text == "" {
		return nil
	}
	if chunkSize <= 0 || len(text) <= chunkSize {
		return []piece{{offset, offset + len(text)}}
	}
	if len(separators) == 0 || separators[0] == "" {
		return hardSlicePieces(text, chunkSize, offset)
	}

	sep := separators[0]
	rest := separators[1:]
	parts := strings.Split(text, sep)

	var out []piece
	pos := offset
	for i, part := range parts {
		seg := part
		if i < len(parts)-1 {
			seg += sep
		}
		if seg == "" {
			continue
		}
		out = append(out, splitPieces(seg, rest, chunkSize, pos)...)
		pos += len(seg)
	}
	return out
}

// hardSlicePieces is the last-resort fallback: it slices text into
// chunkSize-byte runs without ever cutting a multi-byte rune in half, so a
// single oversized token (or a piece left over once every separator has
// been exhausted) still respects the chunk-size invariant.
func hardSlicePieces(text string, chunkSize, offset int) []piece {
	var out []piece
	start, size := 0, 0
	for i := 0; i < len(text); {
		_, width := utf8.DecodeRuneInString(text[i:])
		if size > 0 && size+width > chunkSize {
			out = append(out, piece{offset + start, offset + i})
			start = i
			size = 0
		}
		size += width
		i += width
	}
	out = append(out, piece{offset + start, offset + len(text)})
	return out
}
