package lang

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cortexcore/cortexcore/internal/chunk"
)

// Parse parses source with l's grammar and returns the resulting tree.
// Each caller (the chunk router, the symbol extractor, comment extraction)
// runs its own parse; trees are not shared between them.
func Parse(l Language, source []byte) (*sitter.Tree, bool) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(l.NewSitterLang()); err != nil {
		return nil, false
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, false
	}

	root := tree.RootNode()
	if root == nil || root.HasError() {
		tree.Close()
		return nil, false
	}
	return tree, true
}

// Split implements the AST-based chunker: prefer symbol-aligned boundaries
// within an already-parsed tree, and fill the gaps between them (file
// header, top-level statements) with the character splitter so every byte
// of the file is still covered by some chunk.
func Split(l Language, tree *sitter.Tree, path string, source []byte, contentHash string, opts chunk.CharSplitterOptions) []chunk.Chunk {
	root := tree.RootNode()

	boundaries := leafBoundaries(l, root)
	sort.Slice(boundaries, func(i, j int) bool {
		return boundaries[i].StartByte() < boundaries[j].StartByte()
	})

	var chunks []chunk.Chunk
	cursor := uint(0)

	flushGap := func(endByte uint) {
		if endByte <= cursor {
			return
		}
		gapText := string(source[cursor:endByte])
		startLine := lineOf(source, cursor)
		sub := chunk.BuildChars(path, gapText, contentHash, opts)
		for i := range sub {
			sub[i].StartLine += startLine
			sub[i].EndLine += startLine
		}
		chunks = append(chunks, sub...)
	}

	for _, n := range boundaries {
		flushGap(n.StartByte())

		text := string(source[n.StartByte():n.EndByte()])
		c := chunk.Chunk{
			ID:          chunk.NewChunkID(),
			Path:        path,
			Text:        text,
			StartLine:   int(n.StartPosition().Row) + 1,
			EndLine:     int(n.EndPosition().Row) + 1,
			ContentHash: contentHash,
			ChunkHash:   chunk.HashChunkText(text),
			SymbolKind:  l.BoundaryKinds[n.Kind()],
			SymbolName:  boundaryName(l, n, source),
		}

		if len(text) > opts.ChunkSize {
			sub := chunk.BuildChars(path, text, contentHash, opts)
			for i := range sub {
				sub[i].StartLine += c.StartLine - 1
				sub[i].EndLine += c.StartLine - 1
				sub[i].SymbolKind = c.SymbolKind
				sub[i].SymbolName = c.SymbolName
			}
			chunks = append(chunks, sub...)
		} else {
			chunks = append(chunks, c)
		}

		cursor = n.EndByte()
	}
	flushGap(uint(len(source)))

	return chunks
}

// leafBoundaries returns boundary-kind nodes that have no boundary-kind
// descendant of their own, so a class containing methods yields one chunk
// per method instead of one chunk for the whole class.
func leafBoundaries(l Language, root *sitter.Node) []*sitter.Node {
	var all []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if _, ok := l.BoundaryKinds[n.Kind()]; ok {
			all = append(all, n)
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			if c := n.Child(i); c != nil {
				walk(c)
			}
		}
	}
	walk(root)

	leaves := make([]*sitter.Node, 0, len(all))
	for _, n := range all {
		if !hasBoundaryDescendant(l, n) {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

func hasBoundaryDescendant(l Language, n *sitter.Node) bool {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if _, ok := l.BoundaryKinds[c.Kind()]; ok {
			return true
		}
		if hasBoundaryDescendant(l, c) {
			return true
		}
	}
	return false
}

func boundaryName(l Language, n *sitter.Node, source []byte) string {
	for _, field := range l.NameFields {
		if child := n.ChildByFieldName(field); child != nil {
			return string(source[child.StartByte():child.EndByte()])
		}
	}
	return fmt.Sprintf("<anonymous:%s>", n.Kind())
}

func lineOf(source []byte, byteOffset uint) int {
	line := 0
	for i := uint(0); i < byteOffset && i < uint(len(source)); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
