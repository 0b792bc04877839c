// Package lang implements AST-based code chunking via tree-sitter, one
// grammar per supported language, preferring symbol-aligned boundaries
// (function, method, class, type, impl-block) with a fallback to the
// character splitter when parsing fails or the language has no grammar in
// the corpus (spec §4.2).
package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Language describes one tree-sitter grammar binding and the node kinds
// that should become their own chunk.
type Language struct {
	Name          string
	Extensions    []string
	NewSitterLang func() *sitter.Language
	// BoundaryKinds are node kinds preferred as chunk boundaries
	// (declarations such as functions, methods, classes and types), matched
	// at any depth; when boundaries nest, only the innermost become chunks.
	BoundaryKinds map[string]string // node kind -> symbol kind label
	// NameFields, in order, are child field names tried to recover a
	// boundary node's symbol name ("name", "identifier", ...).
	NameFields []string
}

// registry maps a lowercase file extension (with leading dot) to its
// Language. Extensions with no entry fall back to the character splitter
// unconditionally (documented per-language below).
var registry = map[string]Language{}

func register(l Language) {
	for _, ext := range l.Extensions {
		registry[ext] = l
	}
}

// Lookup returns the Language registered for ext (e.g. ".go"), and whether
// one exists. C++ shares the C grammar; C# has no grammar anywhere in the
// reference corpus and always returns ok=false, driving callers to the
// character-splitter fallback with fallbackReason "unsupported-language".
func Lookup(ext string) (Language, bool) {
	l, ok := registry[ext]
	return l, ok
}
