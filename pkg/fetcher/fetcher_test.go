package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHtmlBytes_FollowsRedirects(t *testing.T) {
	var gotUA string
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><title>New</title></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(WithUserAgent("test-agent"))
	page, err := f.GetHtmlBytes(context.Background(), srv.URL+"/old")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/new", page.URL)
	assert.Contains(t, string(page.HTML), "<title>New</title>")
	assert.Equal(t, "test-agent", gotUA)
}

func TestGetHtmlBytes_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		wantErr     string
	}{
		{"not found", http.StatusNotFound, "text/html", "status code: 404"},
		{"server error", http.StatusInternalServerError, "text/html", "status code: 500"},
		{"json body", http.StatusOK, "application/json", "content type: application/json"},
		{"pdf body", http.StatusOK, "application/pdf", "content type: application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewFetcher().GetHtmlBytes(context.Background(), srv.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetHtmlBytes_CapsBodySize(t *testing.T) {
	big := make([]byte, maxBodySize+1024)
	for i := range big {
		big[i] = 'a'
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	page, err := NewFetcher().GetHtmlBytes(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, page.HTML, maxBodySize)
}

func TestGetHtmlBytes_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher().GetHtmlBytes(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
