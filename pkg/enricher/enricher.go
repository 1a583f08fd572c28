// Package enricher asks a chat model for a better summary, visitor
// questions and page descriptions, and merges the answer back into the
// working set. Every failure falls back to the unmodified input.
package enricher

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dtnitsch/llmstxt-generator/models"
)

const (
	MaxQuestions    = 6
	MaxDescChars    = 140
	MaxTitleChars   = 60
	MaxSourceChars  = 400
	MaxContentChars = 600

	DefaultTimeout = 25 * time.Second

	minModelQuestions = 4
	minSummaryChars   = 30
	temperature       = 0.3
	maxTokens         = 2500
)

// Result is the outcome of one enrichment call. When Used is false, every
// field equals the corresponding input.
type Result struct {
	Pages     []models.PageItem
	Questions []string
	Summary   string
	Used      bool
}

type Enricher struct {
	client  ChatClient
	timeout time.Duration
	logger  *slog.Logger
}

// New returns an Enricher. A nil client disables enrichment.
func New(client ChatClient, timeout time.Duration, logger *slog.Logger) *Enricher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{client: client, timeout: timeout, logger: logger}
}

// NewFromConfig builds an OpenAI-backed Enricher, or a disabled one when no
// API key is configured.
func NewFromConfig(cfg models.EnrichConfig, logger *slog.Logger) *Enricher {
	if cfg.APIKey == "" {
		return New(nil, cfg.Timeout, logger)
	}
	client := NewOpenAIClient(cfg.APIKey,
		WithBaseURL(cfg.BaseURL),
		WithModel(cfg.Model),
		WithHTTPClient(&http.Client{}),
		WithLogger(logger))
	return New(client, cfg.Timeout, logger)
}

// Configured reports whether a chat client is available.
func (e *Enricher) Configured() bool { return e.client != nil }

func fallback(input models.SurveyInput, pages []models.PageItem) Result {
	return Result{
		Pages:     models.ClonePages(pages),
		Questions: append([]string(nil), input.Questions...),
		Summary:   input.Summary,
	}
}

// Enrich sends the candidate pages to the model and merges its answer.
// It never returns an error.
func (e *Enricher) Enrich(ctx context.Context, input models.SurveyInput, pages []models.PageItem) Result {
	result := fallback(input, pages)
	if e.client == nil || len(pages) == 0 {
		return result
	}

	var previews []string
	for _, p := range pages {
		if p.HasContent() {
			previews = append(previews, p.Content)
		}
	}
	language := DetectLanguage(previews)

	msg, err := userMessage(buildPayload(input, pages, language))
	if err != nil {
		e.logger.Warn("Failed to encode enrichment payload", "error", err)
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content, err := e.client.Complete(callCtx, ChatRequest{
		Temperature: temperature,
		MaxTokens:   maxTokens,
		JSONMode:    true,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: msg},
		},
	})
	if err != nil {
		e.logger.Warn("Enrichment request failed", "url", input.SiteURL, "error", err)
		return result
	}

	out, ok := parseOutput(content)
	if !ok {
		e.logger.Warn("Enrichment response was not valid JSON", "url", input.SiteURL, "bytes", len(content))
		return result
	}

	if summary := strings.TrimSpace(out.Summary); utf8.RuneCountInString(summary) >= minSummaryChars {
		result.Summary = summary
	}
	result.Questions = mergeQuestions(out.Questions, input.Questions)
	result.Pages = MergeByKey(pages, toUpdates(out.Pages))
	result.Used = true

	e.logger.Info("Enrichment applied", "url", input.SiteURL, "pages", len(pages), "questions", len(result.Questions), "language", language)
	return result
}
