// Package chunk splits file content into ordered, stably-identified
// searchable units: a character-based recursive splitter for generic text,
// a markdown header-aware splitter, and (in the lang subpackage) an
// AST-based splitter for source code.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Chunk is a contiguous, line-ordered span of one file.
type Chunk struct {
	ID          string
	Path        string // repo-relative, forward-slash
	Text        string
	StartLine   int // 1-based, inclusive
	EndLine     int // 1-based, inclusive
	ContentHash string // file-level, shared by every chunk of the file
	ChunkHash   string // position-independent hash of normalized Text

	// SymbolKind/SymbolName are set by the AST splitter when a chunk is
	// aligned to a function, method, class, type or impl-block boundary.
	SymbolKind string
	SymbolName string

	// HeaderPath records markdown header ancestry ("h1 > h2 > h3") for
	// chunks produced by the header-aware splitter.
	HeaderPath string

	// FallbackReason is set when a chunker fell back to the character
	// splitter instead of its preferred strategy (Design Notes'
	// try_primary_else_fallback).
	FallbackReason string
}

// NewChunkID allocates a fresh, globally unique, never-reused chunk
// identifier.
func NewChunkID() string {
	return uuid.NewString()
}

// HashContent returns the file-level content hash (sha256, hex) of raw
// file bytes.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashChunkText returns the position-independent chunk hash: sha256 of the
// text after whitespace normalization, so identical logical content hashes
// identically regardless of surrounding indentation or trailing spaces.
func HashChunkText(text string) string {
	sum := sha256.Sum256([]byte(normalizeWhitespace(text)))
	return hex.EncodeToString(sum[:])
}

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	joined := strings.Join(lines, "\n")
	return strings.TrimSpace(joined)
}
