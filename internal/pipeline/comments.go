package pipeline

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cortexcore/cortexcore/internal/chunk/lang"
)

// commentSource implements the "extract comments from code" mode (spec
// §4.8): parse the file once, collect every comment-kind node's text in
// source order, and join them into one doc-like blob for the docs
// chunker/embedder. Files with no grammar or no comments yield "".
func (p *Pipeline) commentSource(fi fileInput) (string, error) {
	ext := strings.ToLower(filepath.Ext(fi.relPath))
	l, ok := lang.Lookup(ext)
	if !ok {
		return "", nil
	}

	tree, ok := lang.Parse(l, fi.source)
	if !ok {
		return "", nil
	}
	defer tree.Close()

	var blocks []string
	walkComments(tree.RootNode(), fi.source, &blocks)
	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n"), nil
}

func walkComments(n *sitter.Node, source []byte, out *[]string) {
	if n == nil {
		return
	}
	if strings.Contains(n.Kind(), "comment") {
		*out = append(*out, string(source[n.StartByte():n.EndByte()]))
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		walkComments(n.Child(i), source, out)
	}
}
