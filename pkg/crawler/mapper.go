package crawler

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/models"
)

const (
	DefaultSection = "Core documentation"

	maxDescriptionChars = 160
	maxPreviewChars     = 800
	maxPreviewLines     = 8
)

var (
	codeFence     = regexp.MustCompile("```[\\s\\S]*?```")
	markdownLink  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	markdownChars = regexp.MustCompile("[#*_`]")
)

// MapPages converts raw crawl results to page items. Entries without a URL
// or whose URL contains any exclude substring are skipped, and URLs that
// share a canonical key keep only their first occurrence.
func MapPages(raw []RawPage, categories, excludes []string) []models.PageItem {
	pages := make([]models.PageItem, 0, len(raw))
	for _, entry := range raw {
		u := strings.TrimSpace(entry.URL)
		if u == "" || excluded(u, excludes) {
			continue
		}

		title := common.Squish(entry.Metadata.Title)
		if title == "" {
			title = u
		}

		pages = append(pages, models.PageItem{
			Section:     guessSection(u, categories),
			Title:       title,
			URL:         u,
			Description: extractDescription(entry.Markdown, entry.Metadata.Description),
			Content:     extractContentPreview(entry.Markdown),
		})
	}
	return common.DedupeBy(pages, func(p models.PageItem) string {
		return common.CanonicalKey(p.URL)
	})
}

func excluded(u string, excludes []string) bool {
	for _, ex := range excludes {
		if strings.Contains(u, ex) {
			return true
		}
	}
	return false
}

// guessSection picks the first category whose slug appears in the URL,
// then the first category, then DefaultSection.
func guessSection(u string, categories []string) string {
	for _, cat := range categories {
		if strings.Contains(u, common.Slugify(cat)) {
			return cat
		}
	}
	if len(categories) > 0 {
		return categories[0]
	}
	return DefaultSection
}

func extractDescription(markdown, fallback string) string {
	if clean := common.Squish(fallback); utf8.RuneCountInString(clean) > 20 {
		return clean
	}
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") || strings.HasPrefix(line, "-") {
			continue
		}
		if utf8.RuneCountInString(line) > 30 {
			return common.Truncate(common.Squish(line), maxDescriptionChars)
		}
	}
	return ""
}

func extractContentPreview(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	clean := codeFence.ReplaceAllString(markdown, "")
	clean = markdownLink.ReplaceAllString(clean, "$1")
	clean = markdownChars.ReplaceAllString(clean, "")

	var kept []string
	for _, line := range strings.Split(clean, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < 20 {
			continue
		}
		kept = append(kept, line)
		if len(kept) == maxPreviewLines {
			break
		}
	}

	return common.Truncate(common.Squish(strings.Join(kept, " ")), maxPreviewChars)
}
