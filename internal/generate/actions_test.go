package generate

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/llmstxt-generator/models"
)

func site(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/":        `<html><head><title>Acme</title><meta name="description" content="Acme keeps Shopify and Amazon inventory in sync."></head><body><a href="/pricing">Pricing</a><a href="/docs">Docs</a></body></html>`,
		"/pricing": `<html><head><title>Pricing</title><meta name="description" content="Compare monthly plans for single sellers and teams."></head><body><p>Plans</p></body></html>`,
		"/docs":    `<html><head><title>Docs</title><meta name="description" content="Connect a store and configure stock sync rules."></head><body><p>Guides</p></body></html>`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestApp(out, errOut *bytes.Buffer) *cli.App {
	return &cli.App{
		Name:      "llmstxt",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.BoolFlag{Name: "quiet"},
		},
		Commands: []*cli.Command{
			{Name: "generate", Flags: Flags, Action: GenerateAction},
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func TestGenerateAction_DirectCrawl(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	server := site(t)

	var out, errOut bytes.Buffer
	err := newTestApp(&out, &errOut).Run([]string{"llmstxt", "--quiet", "generate",
		"--provider", "direct",
		"--name", "Acme",
		"--url", server.URL,
		"--summary", "Acme provides inventory sync for sellers.",
		"--pages", "/pricing, /docs, /about",
		"--questions", "How do I connect Shopify?",
	})
	require.NoError(t, err, errOut.String())

	doc := out.String()
	assert.True(t, strings.HasPrefix(doc, "# Acme\n\n> Acme provides inventory sync for sellers."))
	assert.Contains(t, doc, "- [Pricing]("+server.URL+"/pricing): Compare monthly plans for single sellers and teams.")
	assert.Contains(t, doc, "("+server.URL+"/about)")
	assert.Contains(t, doc, "- How do I connect Shopify?")
}

func TestGenerateAction_InvalidSurvey(t *testing.T) {
	var out, errOut bytes.Buffer
	err := newTestApp(&out, &errOut).Run([]string{"llmstxt", "generate", "--name", "Acme"})

	require.Error(t, err)
	assert.Contains(t, errOut.String(), "important_pages: Add 3-8 important page URLs.")
	assert.Contains(t, errOut.String(), "site_url: Enter your homepage URL.")
	assert.Empty(t, out.String())
}

func TestGenerateAction_CrawlUnavailable(t *testing.T) {
	t.Setenv("FIRECRAWL_API_KEY", "")

	var out, errOut bytes.Buffer
	err := newTestApp(&out, &errOut).Run([]string{"llmstxt", "--quiet", "generate",
		"--provider", "firecrawl",
		"--name", "Acme",
		"--url", "https://acme.com",
		"--summary", "Acme provides inventory sync for sellers.",
		"--pages", "/a,/b,/c",
	})

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestSurveyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site_name: Acme\nimportant_pages: |\n  /a\n  /b\n  /c\n"), 0o644))

	var got models.RawSurvey
	app := &cli.App{
		Flags: Flags,
		Action: func(c *cli.Context) error {
			var err error
			got, err = surveyFromFlags(c)
			return err
		},
	}
	require.NoError(t, app.Run([]string{"x", "--survey", path, "--name", "Acme Inc"}))

	assert.Equal(t, "Acme Inc", got.SiteName)
	assert.Equal(t, "/a\n/b\n/c\n", got.ImportantPages)
}

func TestWriteDocument(t *testing.T) {
	doc := &models.GeneratedDocument{Content: "# Acme", Mode: models.ModeLive, Warnings: []string{"Only 1 questions (need 2+)"}}

	var text bytes.Buffer
	require.NoError(t, writeDocument(&text, doc, FormatText))
	assert.Equal(t, "# Acme\n", text.String())

	var y bytes.Buffer
	require.NoError(t, writeDocument(&y, doc, FormatYAML))
	var decoded models.GeneratedDocument
	require.NoError(t, yaml.Unmarshal(y.Bytes(), &decoded))
	assert.Equal(t, *doc, decoded)

	var j bytes.Buffer
	require.NoError(t, writeDocument(&j, doc, FormatJSON))
	assert.Contains(t, j.String(), `"mode": "live"`)

	assert.Error(t, writeDocument(&j, doc, "xml"))
}
