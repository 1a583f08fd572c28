package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/pkg/fetcher"
	"github.com/dtnitsch/llmstxt-generator/pkg/parser"
)

// DirectProvider crawls a site itself: it fetches the start page, follows
// same-host links breadth first and extracts each page's main content.
type DirectProvider struct {
	fetchOpts []fetcher.Option
	cache     PageCache
	logger    *slog.Logger
}

// PageCache stores fetched HTML by URL.
type PageCache interface {
	Get(rawURL string) ([]byte, bool)
	Set(rawURL string, body []byte) error
}

type DirectOption func(*DirectProvider)

func WithDirectHTTPClient(c *http.Client) DirectOption {
	return func(p *DirectProvider) { p.fetchOpts = append(p.fetchOpts, fetcher.WithHTTPClient(c)) }
}

func WithDirectCache(c PageCache) DirectOption {
	return func(p *DirectProvider) { p.cache = c }
}

func WithDirectLogger(l *slog.Logger) DirectOption {
	return func(p *DirectProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewDirectProvider(opts ...DirectOption) *DirectProvider {
	p := &DirectProvider{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// skipExtensions are link targets that are never HTML pages.
var skipExtensions = []string{".pdf", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".zip", ".css", ".js", ".xml", ".mp4"}

func (p *DirectProvider) Crawl(ctx context.Context, req Request) (*Response, error) {
	start, err := url.Parse(req.URL)
	if err != nil || start.Host == "" {
		return nil, fmt.Errorf("invalid start URL %q", req.URL)
	}

	f := fetcher.NewFetcher(p.fetchOpts...)
	ps := parser.NewParser()

	queue := []string{req.URL}
	seen := map[string]bool{common.CanonicalKey(req.URL): true}
	var pages []RawPage

	for len(queue) > 0 && len(pages) < req.Limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := queue[0]
		queue = queue[1:]

		page, err := p.fetch(ctx, f, next)
		if err != nil {
			if len(pages) == 0 && next == req.URL {
				return nil, fmt.Errorf("failed to fetch start page: %w", err)
			}
			p.logger.Warn("Failed to fetch page", "url", next, "error", err)
			continue
		}

		article, err := ps.Parse(page.URL, string(page.HTML))
		if err != nil {
			p.logger.Warn("Failed to parse page", "url", page.URL, "error", err)
			continue
		}

		pages = append(pages, RawPage{
			URL:      article.URL,
			Markdown: article.Markdown,
			Metadata: Metadata{Title: article.Title, Description: article.Description},
		})

		for _, link := range article.Links {
			key := common.CanonicalKey(link)
			if seen[key] || !sameHost(start, link) || skippable(link) {
				continue
			}
			seen[key] = true
			queue = append(queue, link)
		}
	}

	return &Response{Success: len(pages) > 0, Data: pages}, nil
}

func (p *DirectProvider) fetch(ctx context.Context, f *fetcher.Fetcher, rawURL string) (*fetcher.Page, error) {
	if p.cache != nil {
		if body, ok := p.cache.Get(rawURL); ok {
			return &fetcher.Page{URL: rawURL, HTML: body}, nil
		}
	}

	page, err := f.GetHtmlBytes(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		if err := p.cache.Set(rawURL, page.HTML); err != nil {
			p.logger.Warn("Failed to cache page", "url", rawURL, "error", err)
		}
	}
	return page, nil
}

func sameHost(start *url.URL, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimPrefix(u.Hostname(), "www."), strings.TrimPrefix(start.Hostname(), "www."))
}

func skippable(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return true
	}
	path := strings.ToLower(u.Path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
