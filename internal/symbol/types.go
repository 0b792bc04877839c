// Package symbol builds a FileSummary (symbols, imports/exports, and
// complexity metrics) from the same tree-sitter parse the chunk/lang
// package produces, per spec §4.3.
package symbol

// Function describes one function, method, or equivalent callable unit.
type Function struct {
	Name          string
	Signature     string
	IsAsync       bool
	IsStatic      bool
	ParamCount    int
	ReturnType    string
	ParentClass   string
	Decorators    []string
	Complexity    int
	MaxNesting    int
	Docstring     string
	StartLine     int
	EndLine       int
}

// TypeDecl describes a class, interface, struct, enum, trait, or type
// alias declaration.
type TypeDecl struct {
	Kind       string // class, interface, struct, enum, trait, type
	Name       string
	Exported   bool
	Visibility string
	Docstring  string
	StartLine  int
	EndLine    int
}

// Import describes one import/require/use statement.
type Import struct {
	Module      string
	Named       []string
	Default     string
	IsNamespace bool
}

// Export describes one export statement.
type Export struct {
	Name        string
	IsDefault   bool
	IsReExport  bool
	IsNamespace bool
}

// Aggregate summarizes complexity across an entire file.
type Aggregate struct {
	SumCyclomatic     int
	AvgPerFunction    float64
	MaxNesting        int
	DecisionPointCount int
	Score             int // 0-100, derived from thresholds
}

// FileSummary is the full per-file extraction result. A nil FileSummary
// (not an error) means the file exceeded the configured max size.
type FileSummary struct {
	Language string

	TotalLines   int
	CodeLines    int
	BlankLines   int
	CommentLines int

	Functions []Function
	Types     []TypeDecl
	Imports   []Import
	Exports   []Export

	Aggregate Aggregate

	// ParseFailed marks a minimal, line-counts-only summary produced
	// because the AST parse failed; the pipeline continues rather than
	// aborting the file per spec §4.3.
	ParseFailed bool
}
