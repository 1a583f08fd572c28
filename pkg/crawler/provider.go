package crawler

import "context"

// Request describes one crawl of a site.
type Request struct {
	URL             string   `json:"url"`
	Limit           int      `json:"limit"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

// Metadata is the per-page metadata a provider reports.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RawPage is one crawled page before it is mapped to a PageItem.
type RawPage struct {
	URL      string   `json:"url"`
	Markdown string   `json:"markdown"`
	Metadata Metadata `json:"metadata"`
}

// Response is a provider's answer to a crawl Request.
type Response struct {
	Success bool      `json:"success"`
	Data    []RawPage `json:"data"`
}

// Provider crawls a site and returns its pages as markdown.
type Provider interface {
	Crawl(ctx context.Context, req Request) (*Response, error)
}
