// Package validator checks a rendered llms.txt document against quality
// heuristics. Findings are warnings only; the document is always returned,
// with empty sections removed.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	MinSummaryChars     = 30
	MinMeaningfulPages  = 3
	MinQuestions        = 2
	minDescriptionChars = 20

	questionsHeading = "Key questions this site answers:"
)

var MarketingPhrases = []string{
	"leading provider",
	"best-in-class",
	"world-class",
	"innovative solution",
	"comprehensive platform",
}

// placeholderMarkers are stricter than the template's placeholder list:
// generic "learn more about" fallbacks do not count as meaningful here.
var placeholderMarkers = []string{
	"user-prioritized",
	"nice-to-have",
	"summary not available",
	"see site for details",
	"learn more about",
}

var (
	pageBullet     = regexp.MustCompile(`^\[.+\]\(.+\): .+$`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	anyHeading     = regexp.MustCompile(`^#{1,6}(\s|$)`)
)

var markdown = goldmark.New()

// outline is what the checks need from the parsed document.
type outline struct {
	summary       string
	hasSummary    bool
	pageBullets   []string
	questionCount int
	hasQuestions  bool
}

// Validate returns the cleaned document and any warnings.
func Validate(content string) (string, []string) {
	warnings := []string{}

	if !strings.HasPrefix(content, "# ") {
		warnings = append(warnings, "Missing H1 title")
	}
	if !strings.Contains(content, "> ") {
		warnings = append(warnings, "Missing summary blockquote")
	}

	doc := parseOutline([]byte(content))

	if doc.hasSummary {
		if n := utf8.RuneCountInString(doc.summary); n < MinSummaryChars {
			warnings = append(warnings, fmt.Sprintf("Summary too short (%d chars, need %d+)", n, MinSummaryChars))
		}
		lower := strings.ToLower(doc.summary)
		for _, phrase := range MarketingPhrases {
			if strings.Contains(lower, phrase) {
				warnings = append(warnings, fmt.Sprintf("Summary contains marketing phrase: '%s'", phrase))
			}
		}
	}

	meaningful := 0
	for _, d := range doc.pageBullets {
		if isMeaningful(d) {
			meaningful++
		}
	}
	if meaningful < MinMeaningfulPages {
		warnings = append(warnings, fmt.Sprintf("Only %d pages with meaningful descriptions (need %d+)", meaningful, MinMeaningfulPages))
	}

	if doc.hasQuestions && doc.questionCount < MinQuestions {
		warnings = append(warnings, fmt.Sprintf("Only %d questions (need %d+)", doc.questionCount, MinQuestions))
	}

	return RemoveEmptySections(content), warnings
}

func isMeaningful(description string) bool {
	if utf8.RuneCountInString(description) < minDescriptionChars {
		return false
	}
	lower := strings.ToLower(description)
	for _, m := range placeholderMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return true
}

func parseOutline(source []byte) outline {
	var o outline
	root := markdown.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Blockquote:
			if !o.hasSummary {
				if p := node.FirstChild(); p != nil {
					o.summary = blockText(p, source)
					o.hasSummary = true
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if !o.hasQuestions && blockText(node, source) == questionsHeading {
				if list, ok := node.NextSibling().(*ast.List); ok {
					o.hasQuestions = true
					o.questionCount = list.ChildCount()
				}
			}
		case *ast.ListItem:
			if first := node.FirstChild(); first != nil {
				line := blockText(first, source)
				if pageBullet.MatchString(line) {
					_, desc, _ := strings.Cut(line, "): ")
					o.pageBullets = append(o.pageBullets, desc)
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return o
}

// blockText joins the raw source lines of a block node.
func blockText(n ast.Node, source []byte) string {
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(source))))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// RemoveEmptySections drops every "## " heading whose next non-blank line
// is another heading of any level or the end of the document, then
// collapses runs of blank lines. Trailing newlines are removed.
func RemoveEmptySections(content string) string {
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	result := make([]string, 0, len(lines))
	skipping := false
	for i, line := range lines {
		if strings.HasPrefix(line, "## ") {
			if next, ok := nextNonBlank(lines[i+1:]); !ok || anyHeading.MatchString(strings.TrimSpace(next)) {
				skipping = true
				continue
			}
		}
		// blank lines under a dropped heading go with it
		if skipping && strings.TrimSpace(line) == "" {
			continue
		}
		skipping = false
		result = append(result, line)
	}

	out := excessNewlines.ReplaceAllString(strings.Join(result, "\n"), "\n\n")
	return strings.TrimRight(out, "\n")
}

func nextNonBlank(lines []string) (string, bool) {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return l, true
		}
	}
	return "", false
}
