package symbol

import (
	"bytes"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cortexcore/cortexcore/internal/chunk/lang"
)

// functionKinds and typeKinds classify a Language's BoundaryKinds values
// into which half of FileSummary they populate.
var functionKinds = map[string]bool{"function": true, "method": true}
var typeKinds = map[string]bool{"class": true, "interface": true, "type": true, "enum": true, "trait": true, "impl-block": true}

// Summarize builds a FileSummary for source. It returns nil if source
// exceeds maxFileSize (spec §4.3's size cap); on an AST parse failure it
// returns a minimal, line-counts-only summary with ParseFailed set instead
// of an error, so the pipeline continues.
func Summarize(path string, source []byte, maxFileSize int64, ext string) *FileSummary {
	if maxFileSize > 0 && int64(len(source)) > maxFileSize {
		return nil
	}

	lineCounts := countLines(source)

	l, ok := lang.Lookup(strings.ToLower(ext))
	if !ok {
		return &FileSummary{
			Language:     "unknown",
			TotalLines:   lineCounts.total,
			CodeLines:    lineCounts.code,
			BlankLines:   lineCounts.blank,
			CommentLines: lineCounts.comment,
			ParseFailed:  true,
		}
	}

	tree, parsed := lang.Parse(l, source)
	if !parsed {
		return &FileSummary{
			Language:     l.Name,
			TotalLines:   lineCounts.total,
			CodeLines:    lineCounts.code,
			BlankLines:   lineCounts.blank,
			CommentLines: lineCounts.comment,
			ParseFailed:  true,
		}
	}
	defer tree.Close()

	summary := &FileSummary{
		Language:     l.Name,
		TotalLines:   lineCounts.total,
		CodeLines:    lineCounts.code,
		BlankLines:   lineCounts.blank,
		CommentLines: lineCounts.comment,
	}

	walkSymbols(l, tree.RootNode(), source, "", summary)
	walkImportsExports(l, tree.RootNode(), source, summary)

	summary.Aggregate = aggregate(summary.Functions)

	return summary
}

func walkSymbols(l lang.Language, n *sitter.Node, source []byte, parentClass string, summary *FileSummary) {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}

		kindLabel, isBoundary := l.BoundaryKinds[c.Kind()]
		switch {
		case isBoundary && functionKinds[kindLabel]:
			summary.Functions = append(summary.Functions, buildFunction(l, c, source, parentClass))
			walkSymbols(l, c, source, parentClass, summary)
		case isBoundary && typeKinds[kindLabel]:
			name := boundaryName(l, c, source)
			summary.Types = append(summary.Types, TypeDecl{
				Kind:      kindLabel,
				Name:      name,
				Exported:  isExportedName(l.Name, name),
				Docstring: docstringFor(l.Name, c, source),
				StartLine: int(c.StartPosition().Row) + 1,
				EndLine:   int(c.EndPosition().Row) + 1,
			})
			walkSymbols(l, c, source, name, summary)
		default:
			walkSymbols(l, c, source, parentClass, summary)
		}
	}
}

func buildFunction(l lang.Language, n *sitter.Node, source []byte, parentClass string) Function {
	name := boundaryName(l, n, source)
	complexity, nesting := computeComplexity(l.Name, n)

	return Function{
		Name:        name,
		Signature:   signatureLine(n, source),
		IsAsync:     nodeTextContains(n, source, "async"),
		IsStatic:    nodeTextContains(n, source, "static"),
		ParamCount:  countParams(n),
		ParentClass: parentClass,
		Complexity:  complexity,
		MaxNesting:  nesting,
		Docstring:   docstringFor(l.Name, n, source),
		StartLine:   int(n.StartPosition().Row) + 1,
		EndLine:     int(n.EndPosition().Row) + 1,
	}
}

func boundaryName(l lang.Language, n *sitter.Node, source []byte) string {
	for _, field := range l.NameFields {
		if child := n.ChildByFieldName(field); child != nil {
			return string(source[child.StartByte():child.EndByte()])
		}
	}
	return "<anonymous>"
}

func signatureLine(n *sitter.Node, source []byte) string {
	start := n.StartByte()
	end := n.EndByte()
	if body := n.ChildByFieldName("body"); body != nil {
		end = body.StartByte()
	}
	if end > uint(len(source)) {
		end = uint(len(source))
	}
	line := string(source[start:end])
	return strings.TrimSpace(strings.Split(line, "\n")[0])
}

func nodeTextContains(n *sitter.Node, source []byte, token string) bool {
	sig := signatureLine(n, source)
	return strings.Contains(sig, token)
}

func countParams(n *sitter.Node) int {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return 0
	}
	count := 0
	named := params.NamedChildCount()
	for i := uint(0); i < named; i++ {
		if params.NamedChild(i) != nil {
			count++
		}
	}
	return count
}

func isExportedName(language, name string) bool {
	if name == "" {
		return false
	}
	if language == "go" {
		return name[0] >= 'A' && name[0] <= 'Z'
	}
	return true
}

// walkImportsExports visits every node below n, recording each
// import/use node and each export statement it finds at any depth.
func walkImportsExports(l lang.Language, n *sitter.Node, source []byte, summary *FileSummary) {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "import_declaration", "import_statement", "import_spec", "use_declaration":
			summary.Imports = append(summary.Imports, Import{
				Module: strings.TrimSpace(string(source[c.StartByte():c.EndByte()])),
			})
		case "export_statement":
			summary.Exports = append(summary.Exports, Export{
				Name:      boundaryName(l, c, source),
				IsDefault: nodeTextContains(c, source, "default"),
			})
		}
		walkImportsExports(l, c, source, summary)
	}
}

func aggregate(functions []Function) Aggregate {
	if len(functions) == 0 {
		return Aggregate{}
	}
	sum := 0
	maxNesting := 0
	decisionPoints := 0
	for _, f := range functions {
		sum += f.Complexity
		decisionPoints += f.Complexity - 1
		if f.MaxNesting > maxNesting {
			maxNesting = f.MaxNesting
		}
	}
	avg := float64(sum) / float64(len(functions))
	return Aggregate{
		SumCyclomatic:      sum,
		AvgPerFunction:     avg,
		MaxNesting:         maxNesting,
		DecisionPointCount: decisionPoints,
		Score:              aggregateScore(avg, maxNesting),
	}
}

type lineTally struct {
	total, code, blank, comment int
}

func countLines(source []byte) lineTally {
	lines := bytes.Split(bytes.TrimSuffix(source, []byte("\n")), []byte("\n"))
	t := lineTally{total: len(lines)}
	inBlock := false
	for _, l := range lines {
		trimmed := bytes.TrimSpace(l)
		switch {
		case len(trimmed) == 0:
			t.blank++
		case inBlock:
			t.comment++
			if bytes.Contains(trimmed, []byte("*/")) {
				inBlock = false
			}
		case bytes.HasPrefix(trimmed, []byte("//")) || bytes.HasPrefix(trimmed, []byte("#")):
			t.comment++
		case bytes.HasPrefix(trimmed, []byte("/*")):
			t.comment++
			if !bytes.Contains(trimmed, []byte("*/")) {
				inBlock = true
			}
		default:
			t.code++
		}
	}
	return t
}
