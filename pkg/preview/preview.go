// Package preview splits a generated document into the part shown before
// payment and a masked remainder.
package preview

import (
	"errors"
	"regexp"
	"strings"
)

// MinLocked is the fewest lines kept behind the paywall when the document
// is long enough to allow it.
const MinLocked = 4

var ErrContentRequired = errors.New("Content is required")

var nonSpace = regexp.MustCompile(`\S`)

// Split is the visible head of a document and its masked tail.
type Split struct {
	Visible string `json:"preview"`
	Locked  string `json:"lockedPreview"`
}

// SplitContent shows the first half of the lines (rounded up) and masks the
// rest, shrinking the visible part so at least MinLocked lines stay hidden.
// At least one line is always visible.
func SplitContent(content string) (Split, error) {
	if strings.TrimSpace(content) == "" {
		return Split{}, ErrContentRequired
	}

	// A trailing newline ends the last line; it does not start a new one.
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	n := len(lines)

	visible := (n + 1) / 2
	if n-visible < MinLocked {
		visible = max(1, n-MinLocked)
	}

	head := strings.Join(lines[:visible], "\n")

	masked := make([]string, 0, n-visible)
	for _, line := range lines[visible:] {
		masked = append(masked, nonSpace.ReplaceAllString(line, "#"))
	}
	tail := strings.Join(masked, "\n")

	if head != "" && tail != "" {
		tail = "\n" + tail
	}
	return Split{Visible: head, Locked: tail}, nil
}
