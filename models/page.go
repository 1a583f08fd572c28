package models

import "strings"

// PageItem is a single page entry in the working set of a generation run.
// The canonical key of URL is its identity everywhere in the pipeline.
type PageItem struct {
	Section     string `json:"section,omitempty" yaml:"section,omitempty"`
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`

	// Content is a plain-text preview of the page body, used as grounding
	// context for enrichment. Empty when the crawler had no body.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// HasContent reports whether a content preview is available.
func (p PageItem) HasContent() bool {
	return strings.TrimSpace(p.Content) != ""
}

// WithText returns a copy of p with title and description replaced.
// Empty arguments keep the existing value.
func (p PageItem) WithText(title, description string) PageItem {
	if title != "" {
		p.Title = title
	}
	if description != "" {
		p.Description = description
	}
	return p
}

// ClonePages returns a shallow copy of pages so later stages never alias
// the slice owned by an earlier stage.
func ClonePages(pages []PageItem) []PageItem {
	if pages == nil {
		return nil
	}
	out := make([]PageItem, len(pages))
	copy(out, pages)
	return out
}
