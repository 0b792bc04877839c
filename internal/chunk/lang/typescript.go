package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func init() {
	boundary := map[string]string{
		"function_declaration":    "function",
		"method_definition":       "method",
		"class_declaration":       "class",
		"interface_declaration":   "interface",
		"type_alias_declaration":  "type",
		"enum_declaration":        "enum",
		"lexical_declaration":     "variable",
		"abstract_class_declaration": "class",
	}
	names := []string{"name"}

	register(Language{
		Name:       "typescript",
		Extensions: []string{".ts"},
		NewSitterLang: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		},
		BoundaryKinds: boundary,
		NameFields:    names,
	})
	register(Language{
		Name:       "tsx",
		Extensions: []string{".tsx"},
		NewSitterLang: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		},
		BoundaryKinds: boundary,
		NameFields:    names,
	})
	register(Language{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		NewSitterLang: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		},
		BoundaryKinds: boundary,
		NameFields:    names,
	})
}
