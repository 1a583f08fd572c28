// Package pipeline runs one generation: crawl, select, enrich, build and
// validate, strictly in that order.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dtnitsch/llmstxt-generator/models"
	"github.com/dtnitsch/llmstxt-generator/pkg/crawler"
	"github.com/dtnitsch/llmstxt-generator/pkg/enricher"
	"github.com/dtnitsch/llmstxt-generator/pkg/metrics"
	"github.com/dtnitsch/llmstxt-generator/pkg/ranker"
	"github.com/dtnitsch/llmstxt-generator/pkg/template"
	"github.com/dtnitsch/llmstxt-generator/pkg/validator"
)

// Stage names used in StageError.
const (
	StageCrawl  = "crawl"
	StageEnrich = "enrich"
)

const MsgGenerateFailed = "Failed to generate llms.txt."

// StageError reports which stage stopped the run. UserMessage is safe to
// show; Err is for logs.
type StageError struct {
	Stage       string
	Err         error
	UserMessage string
}

func (e *StageError) Error() string {
	return "pipeline " + e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

// Retryable reports whether the caller may try the same request again.
func Retryable(err error) bool {
	return errors.Is(err, crawler.ErrCrawlUnavailable)
}

type Crawler interface {
	Crawl(ctx context.Context, input models.SurveyInput) ([]models.PageItem, error)
}

type Enricher interface {
	Enrich(ctx context.Context, input models.SurveyInput, pages []models.PageItem) enricher.Result
}

type Generator struct {
	crawler        Crawler
	enricher       Enricher
	candidateLimit int
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Generator)

// WithCandidateLimit sets how many ranked pages are sent for enrichment.
func WithCandidateLimit(n int) Option {
	return func(g *Generator) { g.candidateLimit = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

func NewGenerator(c Crawler, e Enricher, opts ...Option) *Generator {
	g := &Generator{
		crawler:        c,
		enricher:       e,
		candidateLimit: ranker.DefaultLimit,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a live document for input. Only the crawl can fail the
// run; enrichment problems fall back to the unenriched pages.
func (g *Generator) Generate(ctx context.Context, input models.SurveyInput) (doc *models.GeneratedDocument, err error) {
	started := time.Now()
	defer func() {
		switch {
		case err == nil:
			g.metrics.ObserveGeneration(metrics.OutcomeOK, started, len(doc.Warnings), doc.EnrichmentUsed)
		case Retryable(err):
			g.metrics.ObserveGeneration(metrics.OutcomeUnavailable, started, 0, false)
		default:
			g.metrics.ObserveGeneration(metrics.OutcomeError, started, 0, false)
		}
	}()

	pages, err := g.crawler.Crawl(ctx, input)
	g.metrics.ObserveCrawl(len(pages), err)
	if err != nil {
		g.logger.Warn("Crawl failed", "url", input.SiteURL, "error", err)
		msg := crawler.UserMessage(err)
		if msg == "" {
			msg = MsgGenerateFailed
		}
		return nil, &StageError{Stage: StageCrawl, Err: err, UserMessage: msg}
	}
	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageEnrich, Err: err, UserMessage: MsgGenerateFailed}
	}

	candidates := ranker.Select(pages, input, g.candidateLimit)
	result := g.enricher.Enrich(ctx, input, candidates)

	// The model only ever sees the candidates; fold its edits back into the
	// full crawl so unranked pages still reach the template.
	merged := enricher.MergeByKey(pages, result.Pages)

	content := template.Build(input, merged, result.Questions, result.Summary)
	cleaned, warnings := validator.Validate(content)

	g.logger.Info("Generated llms.txt",
		"url", input.SiteURL,
		"pages", len(pages),
		"candidates", len(candidates),
		"enriched", result.Used,
		"warnings", len(warnings),
		"duration", time.Since(started).String())

	return &models.GeneratedDocument{
		Content:        cleaned,
		Mode:           models.ModeLive,
		Warnings:       warnings,
		EnrichmentUsed: result.Used,
		PageCount:      len(merged),
	}, nil
}
