package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

func init() {
	// C++ has no dedicated grammar anywhere in the reference corpus; it
	// shares the C grammar, which parses enough of the surface syntax to
	// still find function boundaries for .cc/.cpp/.hpp sources.
	register(Language{
		Name:       "c",
		Extensions: []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hxx"},
		NewSitterLang: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_c.Language())
		},
		BoundaryKinds: map[string]string{
			"function_definition": "function",
			"struct_specifier":    "type",
		},
		NameFields: []string{"declarator"},
	})
}
