package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMarkdownHeaderSections(t *testing.T) {
	source := "# Title\n\nIntro text.\n\n## Section A\n\nBody A.\n\n## Section B\n\nBody B.\n"

	chunks := BuildMarkdown("doc.md", source, "hash", CharSplitterOptions{
		ChunkSize:    1000,
		ChunkOverlap: 0,
		Separators:   []string{"\n\n", "\n", " ", ""},
	})

	require.Len(t, chunks, 3)
	require.Equal(t, "Title", chunks[0].HeaderPath)
	require.Equal(t, "Title > Section A", chunks[1].HeaderPath)
	require.Equal(t, "Title > Section B", chunks[2].HeaderPath)
}

func TestBuildMarkdownNoHeadingsFallsBackToChars(t *testing.T) {
	source := "just some prose with no headings at all.\n"
	chunks := BuildMarkdown("doc.md", source, "hash", CharSplitterOptions{
		ChunkSize:    1000,
		Separators:   []string{"\n\n", "\n", " ", ""},
	})
	require.Len(t, chunks, 1)
}
