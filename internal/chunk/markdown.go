package chunk

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// heading is one markdown section boundary discovered by walking the
// goldmark AST.
type heading struct {
	level     int
	title     string
	startLine int // 0-based line index the heading itself starts on
}

// BuildMarkdown implements the header-aware splitter: one chunk per
// heading section (h1..h6), subdivided with the character splitter and
// tagged with header ancestry when a section exceeds opts.ChunkSize.
func BuildMarkdown(path, source, contentHash string, opts CharSplitterOptions) []Chunk {
	headings := parseHeadings([]byte(source))
	lines := strings.Split(source, "\n")

	if len(headings) == 0 {
		return BuildChars(path, source, contentHash, opts)
	}

	var chunks []Chunk
	ancestry := make([]heading, 0, 6)

	for i, h := range headings {
		end := len(lines) - 1
		if i+1 < len(headings) {
			end = headings[i+1].startLine - 1
		}

		ancestry = pushAncestry(ancestry, h)
		headerPath := ancestryPath(ancestry)

		body := strings.Join(lines[h.startLine:end+1], "\n")
		if len(body) <= opts.ChunkSize {
			chunks = append(chunks, Chunk{
				ID:          NewChunkID(),
				Path:        path,
				Text:        body,
				StartLine:   h.startLine + 1,
				EndLine:     end + 1,
				ContentHash: contentHash,
				ChunkHash:   HashChunkText(body),
				HeaderPath:  headerPath,
			})
			continue
		}

		sub := BuildChars(path, body, contentHash, opts)
		for j := range sub {
			sub[j].StartLine += h.startLine
			sub[j].EndLine += h.startLine
			sub[j].HeaderPath = headerPath
			sub[j].FallbackReason = "section-exceeds-chunk-size"
		}
		chunks = append(chunks, sub...)
	}

	return chunks
}

func pushAncestry(ancestry []heading, h heading) []heading {
	trimmed := ancestry[:0]
	for _, a := range ancestry {
		if a.level < h.level {
			trimmed = append(trimmed, a)
		}
	}
	return append(trimmed, h)
}

func ancestryPath(ancestry []heading) string {
	titles := make([]string, len(ancestry))
	for i, a := range ancestry {
		titles[i] = a.title
	}
	return strings.Join(titles, " > ")
}

func parseHeadings(source []byte) []heading {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var headings []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		startLine := 0
		if lines := h.Lines(); lines.Len() > 0 {
			startLine = lineAt(source, lines.At(0).Start)
		}

		headings = append(headings, heading{
			level:     h.Level,
			title:     headingText(h, source),
			startLine: startLine,
		})
		return ast.WalkContinue, nil
	})

	return headings
}

func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(b.String())
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return strings.Count(string(source[:offset]), "\n")
}
