package symbol

import sitter "github.com/tree-sitter/go-tree-sitter"

// decisionPointKinds lists, per language, the node kinds that count as a
// decision point: conditionals, loops, switches, catch clauses, ternaries,
// and short-circuit logical operators. Cyclomatic complexity of a function
// is 1 + the number of decision points it contains.
var decisionPointKinds = map[string]map[string]bool{
	"go": {
		"if_statement": true, "for_statement": true, "expression_switch_statement": true,
		"type_switch_statement": true, "select_statement": true, "communication_case": true,
		"case_clause": true, "binary_expression": true,
	},
	"typescript": {
		"if_statement": true, "for_statement": true, "for_in_statement": true,
		"while_statement": true, "do_statement": true, "switch_case": true,
		"catch_clause": true, "ternary_expression": true, "binary_expression": true,
	},
	"tsx":        nil, // alias, filled below
	"javascript": nil,
	"python": {
		"if_statement": true, "for_statement": true, "while_statement": true,
		"except_clause": true, "conditional_expression": true, "boolean_operator": true,
	},
	"rust": {
		"if_expression": true, "if_let_expression": true, "for_expression": true,
		"while_expression": true, "while_let_expression": true, "match_arm": true,
		"binary_expression": true,
	},
	"java": {
		"if_statement": true, "for_statement": true, "while_statement": true,
		"do_statement": true, "switch_label": true, "catch_clause": true,
		"ternary_expression": true, "binary_expression": true,
	},
	"c": {
		"if_statement": true, "for_statement": true, "while_statement": true,
		"do_statement": true, "case_statement": true, "binary_expression": true,
	},
}

func init() {
	decisionPointKinds["tsx"] = decisionPointKinds["typescript"]
	decisionPointKinds["javascript"] = decisionPointKinds["typescript"]
}

// nestingKinds lists, per language, the block-introducing node kinds that
// count toward nesting depth.
var nestingKinds = map[string]map[string]bool{
	"go":         {"if_statement": true, "for_statement": true, "expression_switch_statement": true, "type_switch_statement": true, "block": true},
	"typescript": {"if_statement": true, "for_statement": true, "while_statement": true, "statement_block": true},
	"tsx":        nil,
	"javascript": nil,
	"python":     {"if_statement": true, "for_statement": true, "while_statement": true, "block": true},
	"rust":       {"if_expression": true, "for_expression": true, "while_expression": true, "block": true},
	"java":       {"if_statement": true, "for_statement": true, "while_statement": true, "block": true},
	"c":          {"if_statement": true, "for_statement": true, "while_statement": true, "compound_statement": true},
}

func init() {
	nestingKinds["tsx"] = nestingKinds["typescript"]
	nestingKinds["javascript"] = nestingKinds["typescript"]
}

// computeComplexity returns (1 + decision points, max nesting depth)
// within the subtree rooted at n.
func computeComplexity(language string, n *sitter.Node) (complexity int, maxNesting int) {
	decisions := decisionPointKinds[language]
	nests := nestingKinds[language]

	decisionCount := 0
	var walk func(node *sitter.Node, depth int)
	walk = func(node *sitter.Node, depth int) {
		if decisions[node.Kind()] {
			if node.Kind() != "binary_expression" {
				decisionCount++
			} else if op := node.ChildByFieldName("operator"); op != nil && (op.Kind() == "&&" || op.Kind() == "||") {
				decisionCount++
			}
		}
		nextDepth := depth
		if nests[node.Kind()] {
			nextDepth = depth + 1
			if nextDepth > maxNesting {
				maxNesting = nextDepth
			}
		}
		count := node.ChildCount()
		for i := uint(0); i < count; i++ {
			if c := node.Child(i); c != nil {
				walk(c, nextDepth)
			}
		}
	}
	walk(n, 0)

	return 1 + decisionCount, maxNesting
}

// aggregateScore derives a 0-100 complexity score from simple thresholds:
// average cyclomatic complexity and max nesting both contribute, clamped.
func aggregateScore(avgCyclomatic float64, maxNesting int) int {
	score := int(avgCyclomatic*8) + maxNesting*5
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
