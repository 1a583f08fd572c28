package preview

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(lines, "\n")
}

func TestSplitContent_Blank(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n"} {
		_, err := SplitContent(in)
		assert.ErrorIs(t, err, ErrContentRequired)
	}
}

func TestSplitContent_VisibleCount(t *testing.T) {
	tests := []struct {
		lines   int
		visible int
	}{
		{1, 1},
		{2, 1},
		{5, 1},
		{6, 2},
		{8, 4},
		{9, 5},
		{20, 10},
		{21, 11},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d lines", tt.lines), func(t *testing.T) {
			split, err := SplitContent(numberedLines(tt.lines))
			require.NoError(t, err)

			assert.Len(t, strings.Split(split.Visible, "\n"), tt.visible)
			assert.Equal(t, numberedLines(tt.visible), split.Visible)
		})
	}
}

func TestSplitContent_MasksLockedLines(t *testing.T) {
	doc := "# Acme\n\n> Sync\n\n## Docs\n- a b\n\n## API"

	split, err := SplitContent(doc)
	require.NoError(t, err)

	assert.Equal(t, "# Acme\n\n> Sync\n", split.Visible)
	assert.Equal(t, "\n## ####\n# # #\n\n## ###", split.Locked)
	assert.Len(t, split.Visible+split.Locked, len(doc))
}

func TestSplitContent_NeverLeaksLockedText(t *testing.T) {
	split, err := SplitContent(numberedLines(12))
	require.NoError(t, err)

	assert.NotContains(t, split.Locked, "line")
	assert.Equal(t, 6, strings.Count(split.Locked, "\n"))
}

func TestSplitContent_TrailingNewlineIsNotALine(t *testing.T) {
	split, err := SplitContent("l1\nl2\nl3\nl4\nl5\n")
	require.NoError(t, err)

	assert.Equal(t, "l1", split.Visible)
	assert.Equal(t, "\n##\n##\n##\n##", split.Locked)

	withoutNewline, err := SplitContent("l1\nl2\nl3\nl4\nl5")
	require.NoError(t, err)
	assert.Equal(t, withoutNewline, split)
}
