package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

func init() {
	register(Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		NewSitterLang: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_rust.Language())
		},
		BoundaryKinds: map[string]string{
			"function_item": "function",
			"impl_item":     "impl-block",
			"struct_item":   "type",
			"enum_item":     "type",
			"trait_item":    "trait",
		},
		NameFields: []string{"name", "type"},
	})
}
