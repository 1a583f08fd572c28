package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPages_SkipsBlankAndExcluded(t *testing.T) {
	raw := []RawPage{
		{URL: ""},
		{URL: "https://acme.dev/careers/jobs"},
		{URL: "https://acme.dev/docs", Metadata: Metadata{Title: "  Docs \n Home "}},
	}

	pages := MapPages(raw, nil, []string{"/careers"})

	require.Len(t, pages, 1)
	assert.Equal(t, "https://acme.dev/docs", pages[0].URL)
	assert.Equal(t, "Docs Home", pages[0].Title)
	assert.Equal(t, DefaultSection, pages[0].Section)
}

func TestMapPages_DedupesByCanonicalURL(t *testing.T) {
	raw := []RawPage{
		{URL: "https://acme.com/pricing", Metadata: Metadata{Title: "Pricing"}},
		{URL: "https://acme.com/Pricing/", Metadata: Metadata{Title: "Pricing copy"}},
		{URL: "https://acme.com/about", Metadata: Metadata{Title: "About"}},
		{URL: "https://ACME.com/about//", Metadata: Metadata{Title: "About copy"}},
	}

	pages := MapPages(raw, nil, nil)

	require.Len(t, pages, 2)
	assert.Equal(t, "https://acme.com/pricing", pages[0].URL)
	assert.Equal(t, "Pricing", pages[0].Title)
	assert.Equal(t, "https://acme.com/about", pages[1].URL)
	assert.Equal(t, "About", pages[1].Title)
}

func TestMapPages_TitleFallsBackToURL(t *testing.T) {
	pages := MapPages([]RawPage{{URL: "https://acme.dev/x"}}, nil, nil)
	require.Len(t, pages, 1)
	assert.Equal(t, "https://acme.dev/x", pages[0].Title)
}

func TestGuessSection(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		categories []string
		want       string
	}{
		{name: "slug match", url: "https://acme.dev/getting-started/install", categories: []string{"Docs", "Getting Started"}, want: "Getting Started"},
		{name: "first category", url: "https://acme.dev/blog", categories: []string{"Docs", "Pricing"}, want: "Docs"},
		{name: "no categories", url: "https://acme.dev/blog", categories: nil, want: DefaultSection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guessSection(tt.url, tt.categories))
		})
	}
}

func TestExtractDescription(t *testing.T) {
	markdown := strings.Join([]string{
		"# Heading line that is long enough to count",
		"- a bullet line which is also long enough to count",
		"```go",
		"short line",
		"Acme Sync keeps every file in sync across your whole team.",
	}, "\n")

	tests := []struct {
		name     string
		markdown string
		fallback string
		want     string
	}{
		{name: "meta description wins", markdown: markdown, fallback: "Sync files across every device you own.", want: "Sync files across every device you own."},
		{name: "short meta ignored", markdown: markdown, fallback: "Sync files.", want: "Acme Sync keeps every file in sync across your whole team."},
		{name: "empty markdown", markdown: "", fallback: "", want: ""},
		{name: "nothing qualifies", markdown: "# Title\nshort", fallback: "", want: ""},
		{name: "truncated", markdown: strings.Repeat("word ", 50), fallback: "", want: strings.TrimSpace(strings.Repeat("word ", 50))[:160]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDescription(tt.markdown, tt.fallback))
		})
	}
}

func TestExtractContentPreview(t *testing.T) {
	markdown := strings.Join([]string{
		"# **Welcome** to the Acme Sync documentation",
		"```",
		"this code block line is long enough but removed",
		"```",
		"Read the [installation guide](https://acme.dev/install) before you start.",
		"tiny",
	}, "\n")

	got := extractContentPreview(markdown)
	assert.Equal(t, "Welcome to the Acme Sync documentation Read the installation guide before you start.", got)
}

func TestExtractContentPreview_Limits(t *testing.T) {
	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, strings.Repeat("x", 120))
	}
	got := extractContentPreview(strings.Join(lines, "\n"))
	assert.Len(t, got, 800)
	assert.Empty(t, extractContentPreview("  \n "))
}
