package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarizeUnknownLanguageReturnsLineCountsOnly(t *testing.T) {
	source := []byte("line one\n\nline three\n")
	summary := Summarize("file.xyz", source, 0, ".xyz")
	require.NotNil(t, summary)
	require.True(t, summary.ParseFailed)
	require.Equal(t, 1, summary.BlankLines)
}

func TestSummarizeExceedsMaxFileSizeReturnsNil(t *testing.T) {
	source := []byte("package main\n")
	summary := Summarize("main.go", source, 4, ".go")
	require.Nil(t, summary)
}

func TestCountLinesBasic(t *testing.T) {
	tally := countLines([]byte("a\n\nb // comment\n# also comment\n"))
	require.Equal(t, 4, tally.total)
	require.Equal(t, 1, tally.blank)
}
