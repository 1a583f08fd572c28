package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/llmstxt-generator/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubProvider struct {
	resp *Response
	err  error
	got  Request
}

func (s *stubProvider) Crawl(_ context.Context, req Request) (*Response, error) {
	s.got = req
	return s.resp, s.err
}

func acmeInput() models.SurveyInput {
	return models.SurveyInput{
		SiteName:   "Acme Sync",
		SiteURL:    "https://acme.dev",
		Categories: []string{"Docs"},
		Excludes:   []string{"/legal"},
	}
}

func TestCrawl_NotConfigured(t *testing.T) {
	c := New(nil, 0, quietLogger())

	pages, err := c.Crawl(context.Background(), acmeInput())

	assert.Nil(t, pages)
	require.ErrorIs(t, err, ErrCrawlUnavailable)
	assert.Equal(t, MsgNotConfigured, UserMessage(err))
	assert.False(t, c.Configured())
}

func TestCrawl_ProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	c := New(&stubProvider{err: cause}, 0, quietLogger())

	_, err := c.Crawl(context.Background(), acmeInput())

	require.ErrorIs(t, err, ErrCrawlUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, MsgUnreachable, UserMessage(err))
}

func TestCrawl_UnsuccessfulResponse(t *testing.T) {
	c := New(&stubProvider{resp: &Response{Success: false}}, 0, quietLogger())

	_, err := c.Crawl(context.Background(), acmeInput())

	require.ErrorIs(t, err, ErrCrawlUnavailable)
	assert.Equal(t, MsgUnreachable, UserMessage(err))
}

func TestCrawl_MapsPages(t *testing.T) {
	stub := &stubProvider{resp: &Response{Success: true, Data: []RawPage{
		{URL: "https://acme.dev/docs", Metadata: Metadata{Title: "Docs"}},
		{URL: "https://acme.dev/legal/terms"},
	}}}
	c := New(stub, 100, quietLogger())

	pages, err := c.Crawl(context.Background(), acmeInput())

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Docs", pages[0].Section)
	assert.Equal(t, MaxPages, stub.got.Limit)
	assert.Equal(t, []string{"markdown"}, stub.got.Formats)
	assert.True(t, stub.got.OnlyMainContent)
}

func TestFirecrawlProvider_Request(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"url":"https://acme.dev/pricing","markdown":"# Pricing","metadata":{"title":"Pricing","description":"Plans for teams of every size."}}]}`))
	}))
	defer server.Close()

	p := NewFirecrawlProvider("fc-key", WithEndpoint(server.URL))
	resp, err := p.Crawl(context.Background(), Request{URL: "https://acme.dev", Limit: 40, Formats: []string{"markdown"}, OnlyMainContent: true})

	require.NoError(t, err)
	assert.Equal(t, "Bearer fc-key", gotAuth)
	assert.Equal(t, "https://acme.dev", gotBody["url"])
	assert.Equal(t, float64(40), gotBody["limit"])
	assert.Equal(t, map[string]any{"formats": []any{"markdown"}, "onlyMainContent": true}, gotBody["scrapeOptions"])
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Pricing", resp.Data[0].Metadata.Title)
}

func TestFirecrawlProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "server error", handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{name: "bad json", handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewFirecrawlProvider("fc-key", WithEndpoint(server.URL))
			_, err := p.Crawl(context.Background(), Request{URL: "https://acme.dev"})
			assert.Error(t, err)
		})
	}
}

func TestCrawl_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	p := NewFirecrawlProvider("fc-key", WithEndpoint(server.URL), WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	c := New(p, 0, quietLogger())

	_, err := c.Crawl(context.Background(), acmeInput())
	require.ErrorIs(t, err, ErrCrawlUnavailable)
	assert.Equal(t, MsgUnreachable, UserMessage(err))
}

func TestNewFromConfig(t *testing.T) {
	assert.False(t, NewFromConfig(models.CrawlConfig{Provider: models.CrawlProviderFirecrawl}, quietLogger()).Configured())
	assert.True(t, NewFromConfig(models.CrawlConfig{Provider: models.CrawlProviderFirecrawl, APIKey: "k"}, quietLogger()).Configured())
	assert.True(t, NewFromConfig(models.CrawlConfig{Provider: models.CrawlProviderDirect}, quietLogger()).Configured())
}
