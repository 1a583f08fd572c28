package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultFirecrawlEndpoint = "https://api.firecrawl.dev/v1/crawl"

// maxCrawlResponseSize caps the crawl response; forty markdown pages fit
// comfortably.
const maxCrawlResponseSize = 50 * 1024 * 1024

// FirecrawlProvider calls the Firecrawl crawl endpoint.
type FirecrawlProvider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// FirecrawlOption configures a FirecrawlProvider.
type FirecrawlOption func(*FirecrawlProvider)

func WithEndpoint(endpoint string) FirecrawlOption {
	return func(p *FirecrawlProvider) {
		if endpoint != "" {
			p.endpoint = endpoint
		}
	}
}

func WithHTTPClient(c *http.Client) FirecrawlOption {
	return func(p *FirecrawlProvider) { p.httpClient = c }
}

func NewFirecrawlProvider(apiKey string, opts ...FirecrawlOption) *FirecrawlProvider {
	p := &FirecrawlProvider{
		apiKey:     apiKey,
		endpoint:   DefaultFirecrawlEndpoint,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type firecrawlBody struct {
	URL           string        `json:"url"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

func (p *FirecrawlProvider) Crawl(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(firecrawlBody{
		URL:   req.URL,
		Limit: req.Limit,
		ScrapeOptions: scrapeOptions{
			Formats:         req.Formats,
			OnlyMainContent: req.OnlyMainContent,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode crawl request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build crawl request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call crawl endpoint: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCrawlResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read crawl response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("crawl endpoint returned status %d", resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode crawl response: %w", err)
	}
	return &out, nil
}
