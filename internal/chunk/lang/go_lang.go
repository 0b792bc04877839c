package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

func init() {
	register(Language{
		Name:       "go",
		Extensions: []string{".go"},
		NewSitterLang: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_go.Language())
		},
		BoundaryKinds: map[string]string{
			"function_declaration": "function",
			"method_declaration":   "method",
			"type_declaration":     "type",
		},
		NameFields: []string{"name"},
	})
}
