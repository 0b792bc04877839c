package symbol

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// docstringFor recovers the doc comment immediately preceding n (JSDoc,
// Java-doc, C-style block, Rust /// or //! runs) or, for Python, the
// triple-quoted string that is the function/class body's first statement.
func docstringFor(language string, n *sitter.Node, source []byte) string {
	switch language {
	case "python":
		return pythonDocstring(n, source)
	case "rust":
		return precedingLineComments(n, source, "///", "//!")
	default:
		return precedingBlockComment(n, source)
	}
}

// precedingBlockComment returns the cleaned text of the comment node
// immediately before n (JSDoc, Java-doc, C-style /** */). Only that one
// sibling is taken; earlier comment nodes are not collected.
func precedingBlockComment(n *sitter.Node, source []byte) string {
	prev := n.PrevSibling()
	if prev == nil || !strings.Contains(prev.Kind(), "comment") {
		return ""
	}
	text := string(source[prev.StartByte():prev.EndByte()])
	return cleanBlockComment(text)
}

func precedingLineComments(n *sitter.Node, source []byte, prefixes ...string) string {
	var lines []string
	cur := n.PrevSibling()
	for cur != nil && strings.Contains(cur.Kind(), "comment") {
		text := strings.TrimSpace(string(source[cur.StartByte():cur.EndByte()]))
		matched := false
		for _, p := range prefixes {
			if strings.HasPrefix(text, p) {
				lines = append([]string{strings.TrimSpace(strings.TrimPrefix(text, p))}, lines...)
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		cur = cur.PrevSibling()
	}
	return strings.Join(lines, "\n")
}

func pythonDocstring(n *sitter.Node, source []byte) string {
	body := n.ChildByFieldName("body")
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	if first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}
	text := string(source[str.StartByte():str.EndByte()])
	text = strings.Trim(text, "\"'")
	return strings.TrimSpace(text)
}

func cleanBlockComment(text string) string {
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
