// Package crawler turns a site URL into the candidate page set for one
// generation run.
package crawler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dtnitsch/llmstxt-generator/models"
	"github.com/dtnitsch/llmstxt-generator/pkg/caching"
)

// MaxPages is the hard ceiling on pages requested from a provider.
const MaxPages = 40

type Crawler struct {
	provider Provider
	limit    int
	logger   *slog.Logger
}

// New returns a Crawler. A nil provider means crawling is not configured;
// every Crawl then fails with ErrCrawlUnavailable.
func New(provider Provider, limit int, logger *slog.Logger) *Crawler {
	if limit <= 0 || limit > MaxPages {
		limit = MaxPages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{provider: provider, limit: limit, logger: logger}
}

// NewFromConfig selects a provider from cfg. The firecrawl provider needs
// an API key; without one the crawler is left unconfigured.
func NewFromConfig(cfg models.CrawlConfig, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	client := &http.Client{Timeout: cfg.Timeout}

	var provider Provider
	switch cfg.Provider {
	case models.CrawlProviderDirect:
		opts := []DirectOption{WithDirectHTTPClient(client), WithDirectLogger(logger)}
		if cfg.CacheDir != "" {
			cache, err := caching.NewPageCache(cfg.CacheDir, cfg.CacheTTL)
			if err != nil {
				logger.Warn("Page cache disabled", "dir", cfg.CacheDir, "error", err)
			} else {
				opts = append(opts, WithDirectCache(cache))
			}
		}
		provider = NewDirectProvider(opts...)
	default:
		if cfg.APIKey != "" {
			provider = NewFirecrawlProvider(cfg.APIKey, WithEndpoint(cfg.Endpoint), WithHTTPClient(client))
		}
	}
	return New(provider, cfg.MaxPages, logger)
}

// Configured reports whether a provider is available.
func (c *Crawler) Configured() bool { return c.provider != nil }

// Crawl fetches the site described by input and maps the result to page
// items. Every failure is an *UnavailableError matching ErrCrawlUnavailable.
func (c *Crawler) Crawl(ctx context.Context, input models.SurveyInput) ([]models.PageItem, error) {
	if c.provider == nil {
		return nil, &UnavailableError{Message: MsgNotConfigured}
	}

	resp, err := c.provider.Crawl(ctx, Request{
		URL:             input.SiteURL,
		Limit:           c.limit,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		c.logger.Error("Crawl request failed", "url", input.SiteURL, "error", err)
		return nil, &UnavailableError{Message: MsgUnreachable, Err: err}
	}
	if resp == nil || !resp.Success {
		c.logger.Error("Crawl reported failure", "url", input.SiteURL)
		return nil, &UnavailableError{Message: MsgUnreachable}
	}

	pages := MapPages(resp.Data, input.Categories, input.Excludes)
	c.logger.Info("Crawl completed", "url", input.SiteURL, "raw", len(resp.Data), "pages", len(pages))
	return pages, nil
}
