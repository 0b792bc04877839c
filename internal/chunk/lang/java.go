package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

func init() {
	register(Language{
		Name:       "java",
		Extensions: []string{".java"},
		NewSitterLang: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_java.Language())
		},
		BoundaryKinds: map[string]string{
			"method_declaration":    "method",
			"class_declaration":     "class",
			"interface_declaration": "interface",
			"enum_declaration":      "enum",
		},
		NameFields: []string{"name"},
	})
}
