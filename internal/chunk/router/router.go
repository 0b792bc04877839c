// Package router dispatches a file to the right chunker by extension: the
// markdown header-aware splitter for .md, the tree-sitter AST splitter for
// recognized source languages, and the character-recursive splitter for
// everything else (and as the fallback when a preferred chunker fails),
// implementing the Design Notes' try_primary_else_fallback pattern.
package router

import (
	"path/filepath"
	"strings"

	"github.com/cortexcore/cortexcore/internal/chunk"
	"github.com/cortexcore/cortexcore/internal/chunk/lang"
	"github.com/cortexcore/cortexcore/internal/config"
)

// Result reports which chunker actually produced the chunks, so callers
// can record a fallback reason rather than silently swallowing it.
type Result struct {
	Chunks         []chunk.Chunk
	Chunker        string // "markdown", "ast:<language>", "char"
	FallbackReason string
}

func toOptions(p config.ChunkingProfile) chunk.CharSplitterOptions {
	return chunk.CharSplitterOptions{
		ChunkSize:    p.ChunkSize,
		ChunkOverlap: p.ChunkOverlap,
		Separators:   p.Separators,
	}
}

// Dispatch chunks source (the raw file bytes, already read and policy
// approved) according to its extension and the given profile.
func Dispatch(path string, source []byte, contentHash string, profile config.ChunkingProfile) Result {
	ext := strings.ToLower(filepath.Ext(path))
	opts := toOptions(profile)

	if ext == ".md" || ext == ".mdx" {
		return Result{
			Chunks:  chunk.BuildMarkdown(path, string(source), contentHash, opts),
			Chunker: "markdown",
		}
	}

	if l, ok := lang.Lookup(ext); ok {
		if tree, parsed := lang.Parse(l, source); parsed {
			defer tree.Close()
			return Result{Chunks: lang.Split(l, tree, path, source, contentHash, opts), Chunker: "ast:" + l.Name}
		}
		return Result{
			Chunks:         chunk.BuildChars(path, string(source), contentHash, opts),
			Chunker:        "char",
			FallbackReason: "ast-parse-failed",
		}
	}

	reason := ""
	if isKnownCodeExtension(ext) {
		reason = "unsupported-language"
	}
	return Result{
		Chunks:         chunk.BuildChars(path, string(source), contentHash, opts),
		Chunker:        "char",
		FallbackReason: reason,
	}
}

// isKnownCodeExtension flags extensions spec §4.2 names as code languages
// but for which the corpus carries no tree-sitter grammar (C#), so the
// fallback reason reads "unsupported-language" rather than being blank.
func isKnownCodeExtension(ext string) bool {
	switch ext {
	case ".cs":
		return true
	default:
		return false
	}
}
