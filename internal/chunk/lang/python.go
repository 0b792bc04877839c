package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

func init() {
	register(Language{
		Name:       "python",
		Extensions: []string{".py"},
		NewSitterLang: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_python.Language())
		},
		BoundaryKinds: map[string]string{
			"function_definition": "function",
			"class_definition":    "class",
		},
		NameFields: []string{"name"},
	})
}
