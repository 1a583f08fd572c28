package generate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/models"
	"github.com/dtnitsch/llmstxt-generator/pkg/crawler"
	"github.com/dtnitsch/llmstxt-generator/pkg/db"
	"github.com/dtnitsch/llmstxt-generator/pkg/enricher"
	"github.com/dtnitsch/llmstxt-generator/pkg/pipeline"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Flags are the generate command's flags.
var Flags = []cli.Flag{
	&cli.StringFlag{Name: "survey", Aliases: []string{"s"}, Usage: "YAML or JSON survey file"},
	&cli.StringFlag{Name: "name", Usage: "project or brand name"},
	&cli.StringFlag{Name: "url", Usage: "homepage URL"},
	&cli.StringFlag{Name: "summary", Usage: "one factual sentence about the site"},
	&cli.StringFlag{Name: "pages", Usage: "3-8 important page URLs, comma or newline separated"},
	&cli.StringFlag{Name: "optional", Usage: "nice-to-have page URLs"},
	&cli.StringFlag{Name: "questions", Usage: "questions the site answers"},
	&cli.StringFlag{Name: "categories", Usage: "section names"},
	&cli.StringFlag{Name: "excludes", Usage: "URL substrings to skip"},
	&cli.StringFlag{Name: "site-type", Usage: "docs, marketing, saas, ecommerce, marketplace, services, education or media"},
	&cli.StringFlag{Name: "provider", Usage: "crawl provider: firecrawl or direct"},
	&cli.IntFlag{Name: "candidates", Value: 12, Usage: "pages sent for enrichment (max 18)"},
	&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: FormatText, Usage: "output format: text, yaml or json"},
	&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to file instead of stdout"},
	&cli.BoolFlag{Name: "store", Usage: "also save the document as an unpaid run"},
}

// GenerateAction runs the pipeline once from the command line.
func GenerateAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("provider") {
		cfg.Crawl.Provider = c.String("provider")
	}

	raw, err := surveyFromFlags(c)
	if err != nil {
		return err
	}
	if errs := models.ValidateSurvey(raw); len(errs) > 0 {
		printValidation(c.App.ErrWriter, errs)
		return cli.Exit("survey is invalid", 1)
	}
	input := models.NormalizeSurvey(raw)

	generator := pipeline.NewGenerator(
		crawler.NewFromConfig(cfg.Crawl, logger),
		enricher.NewFromConfig(cfg.Enrich, logger),
		pipeline.WithCandidateLimit(c.Int("candidates")),
		pipeline.WithLogger(logger),
	)

	doc, err := generator.Generate(c.Context, input)
	if err != nil {
		if pipeline.Retryable(err) {
			return cli.Exit(crawler.UserMessage(err), 3)
		}
		return fmt.Errorf("failed to generate: %w", err)
	}

	for _, w := range doc.Warnings {
		logger.Warn("Quality check", "warning", w)
	}

	if c.Bool("store") {
		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		run, err := database.CreateRun(db.NewRun{
			Content:        doc.Content,
			SiteURL:        input.SiteURL,
			Warnings:       len(doc.Warnings),
			EnrichmentUsed: doc.EnrichmentUsed,
		})
		if err != nil {
			return fmt.Errorf("failed to store run: %w", err)
		}
		logger.Info("Run stored", "run_id", run.ID, "expires_at", run.ExpiresAt)
	}

	out := c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeDocument(out, doc, c.String("format"))
}

func surveyFromFlags(c *cli.Context) (models.RawSurvey, error) {
	var raw models.RawSurvey
	if path := c.String("survey"); path != "" {
		var err error
		if raw, err = models.LoadSurvey(path); err != nil {
			return raw, err
		}
	}

	override := func(dst *string, flag string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	override(&raw.SiteName, "name")
	override(&raw.SiteURL, "url")
	override(&raw.Summary, "summary")
	override(&raw.PriorityPages, "pages")
	override(&raw.OptionalPages, "optional")
	override(&raw.Questions, "questions")
	override(&raw.Categories, "categories")
	override(&raw.Excludes, "excludes")
	override(&raw.SiteType, "site-type")
	if c.IsSet("pages") {
		raw.ImportantPages = ""
	}
	return raw, nil
}

func printValidation(w io.Writer, errs models.ValidationErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "%s: %s\n", f, errs[f])
	}
}

func writeDocument(w io.Writer, doc *models.GeneratedDocument, format string) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintln(w, doc.Content)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}
