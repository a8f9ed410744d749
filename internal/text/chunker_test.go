package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("Empty Input", func(t *testing.T) {
		assert.Nil(t, Split("", 2000, 200))
	})

	t.Run("Short Input Single Chunk", func(t *testing.T) {
		chunks := Split("Cats are mammals.", 2000, 200)
		require.Len(t, chunks, 1)
		assert.Equal(t, 0, chunks[0].Index)
		assert.Equal(t, "Cats are mammals.", chunks[0].Text)
	})

	t.Run("Invalid Parameters", func(t *testing.T) {
		assert.Nil(t, Split("some text", 0, 0))
		assert.Nil(t, Split("some text", 10, 10))
		assert.Nil(t, Split("some text", 10, -1))
	})

	t.Run("Size Bound", func(t *testing.T) {
		input := strings.Repeat("word and more ", 500)
		chunks := Split(input, 100, 20)
		require.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c.Text)), 100)
		}
	})

	t.Run("Exact Overlap Between Neighbors", func(t *testing.T) {
		input := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 100)
		overlap := 20
		chunks := Split(input, 120, overlap)
		require.Greater(t, len(chunks), 1)

		for i := 0; i < len(chunks)-1; i++ {
			tail := []rune(chunks[i].Text)
			head := []rune(chunks[i+1].Text)
			require.GreaterOrEqual(t, len(tail), overlap)
			require.GreaterOrEqual(t, len(head), overlap)
			assert.Equal(t, string(tail[len(tail)-overlap:]), string(head[:overlap]),
				"chunks %d and %d must share exactly the overlap region", i, i+1)
		}
	})

	t.Run("Lossless Reconstruction", func(t *testing.T) {
		inputs := []string{
			strings.Repeat("alpha beta gamma delta epsilon. ", 200),
			"para one\n\npara two\n\n" + strings.Repeat("sentence here. ", 300),
			strings.Repeat("x", 5000), // no natural boundaries at all
		}
		for _, input := range inputs {
			overlap := 30
			chunks := Split(input, 250, overlap)
			require.NotEmpty(t, chunks)

			var sb strings.Builder
			sb.WriteString(chunks[0].Text)
			for _, c := range chunks[1:] {
				runes := []rune(c.Text)
				sb.WriteString(string(runes[overlap:]))
			}
			assert.Equal(t, input, sb.String())
		}
	})

	t.Run("Prefers Paragraph Boundary", func(t *testing.T) {
		para := strings.Repeat("abc def ghi jkl. ", 10) // 170 runes
		input := para + "\n\n" + para + "\n\n" + para
		chunks := Split(input, 200, 20)
		require.Greater(t, len(chunks), 1)
		assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"),
			"first chunk should end on the paragraph break, got %q", chunks[0].Text[len(chunks[0].Text)-10:])
	})

	t.Run("Hard Cut Without Boundaries", func(t *testing.T) {
		input := strings.Repeat("a", 450)
		chunks := Split(input, 100, 10)
		require.NotEmpty(t, chunks)
		for _, c := range chunks[:len(chunks)-1] {
			assert.Len(t, c.Text, 100)
		}
	})

	t.Run("Zero Overlap", func(t *testing.T) {
		input := strings.Repeat("one two three four. ", 50)
		chunks := Split(input, 100, 0)
		require.Greater(t, len(chunks), 1)

		var sb strings.Builder
		for _, c := range chunks {
			sb.WriteString(c.Text)
		}
		assert.Equal(t, input, sb.String())
	})

	t.Run("Indexes Follow Insertion Order", func(t *testing.T) {
		chunks := Split(strings.Repeat("some words here. ", 100), 100, 10)
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
		}
	})

	t.Run("Multibyte Runes", func(t *testing.T) {
		input := strings.Repeat("héllo wörld über ありがとう. ", 60)
		overlap := 15
		chunks := Split(input, 80, overlap)
		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c.Text)), 80)
		}

		var sb strings.Builder
		sb.WriteString(chunks[0].Text)
		for _, c := range chunks[1:] {
			sb.WriteString(string([]rune(c.Text)[overlap:]))
		}
		assert.Equal(t, input, sb.String())
	})
}
