package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCharsLineOrdering(t *testing.T) {
	lines := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		lines = append(lines, strings.Repeat("x", 20))
	}
	text := strings.Join(lines, "\n")

	chunks := BuildChars("f.txt", text, "hash", CharSplitterOptions{
		ChunkSize:    200,
		ChunkOverlap: 40,
		Separators:   []string{"\n\n", "\n", " ", ""},
	})

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		require.LessOrEqual(t, c.StartLine, c.EndLine)
		require.Equal(t, "hash", c.ContentHash)
		require.NotEmpty(t, c.ChunkHash)
		if i > 0 {
			require.GreaterOrEqual(t, c.StartLine, chunks[i-1].StartLine)
		}
	}
}

func TestHashChunkTextPositionIndependent(t *testing.T) {
	a := "  func foo() {}  \n"
	b := "func foo() {}"
	require.Equal(t, HashChunkText(a), HashChunkText(b))
}

func TestBuildCharsEmptyInput(t *testing.T) {
	chunks := BuildChars("empty.txt", "", "hash", CharSplitterOptions{ChunkSize: 100})
	require.Empty(t, chunks)
}
