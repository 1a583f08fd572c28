package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtnitsch/llmstxt-generator/models"
	"github.com/dtnitsch/llmstxt-generator/pkg/db"
	"github.com/dtnitsch/llmstxt-generator/pkg/metrics"
	"github.com/dtnitsch/llmstxt-generator/pkg/payment"
	"github.com/dtnitsch/llmstxt-generator/pkg/pipeline"
	"github.com/dtnitsch/llmstxt-generator/pkg/preview"
)

const (
	msgInvalidJSON    = "Invalid JSON payload."
	msgPersistFailed  = "Failed to persist run."
	maxSurveyBodySize = 64 << 10
)

type GenerateHandler struct {
	generator Generator
	store     RunStore
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewGenerateHandler(g Generator, store RunStore, m *metrics.Metrics, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{generator: g, store: store, metrics: m, logger: logger}
}

type paymentInfo struct {
	Provider string `json:"provider"`
	PriceUSD int    `json:"priceUsd"`
	Billing  string `json:"billing"`
	PayAfter bool   `json:"payAfter"`
}

type generateResponse struct {
	RunID         string      `json:"runId"`
	Preview       string      `json:"preview"`
	LockedPreview string      `json:"lockedPreview"`
	Mode          string      `json:"mode"`
	Warnings      []string    `json:"warnings"`
	Payment       paymentInfo `json:"payment"`
}

// Create validates the survey, runs the pipeline, stores the document and
// answers with its preview.
func (h *GenerateHandler) Create(c *gin.Context) {
	var raw models.RawSurvey
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxSurveyBodySize)
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}

	if errs := models.ValidateSurvey(raw); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	input := models.NormalizeSurvey(raw)
	doc, err := h.generator.Generate(c.Request.Context(), input)
	if err != nil {
		var stageErr *pipeline.StageError
		if pipeline.Retryable(err) && errors.As(err, &stageErr) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": stageErr.UserMessage})
			return
		}
		h.logger.Error("Failed to generate llms.txt", "trace_id", TraceID(c.Request.Context()), "url", input.SiteURL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": pipeline.MsgGenerateFailed})
		return
	}

	run, err := h.store.CreateRun(db.NewRun{
		Content:        doc.Content,
		SiteURL:        input.SiteURL,
		Warnings:       len(doc.Warnings),
		EnrichmentUsed: doc.EnrichmentUsed,
	})
	if err != nil {
		h.logger.Error("Failed to persist run", "trace_id", TraceID(c.Request.Context()), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgPersistFailed})
		return
	}
	if h.metrics != nil {
		h.metrics.RunsCreated.Inc()
	}

	split, err := preview.SplitContent(doc.Content)
	if err != nil {
		h.logger.Error("Failed to build preview", "run_id", run.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": pipeline.MsgGenerateFailed})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		RunID:         run.ID,
		Preview:       split.Visible,
		LockedPreview: split.Locked,
		Mode:          doc.Mode,
		Warnings:      doc.Warnings,
		Payment: paymentInfo{
			Provider: payment.Provider,
			PriceUSD: payment.PriceUSD,
			Billing:  "one-time",
			PayAfter: true,
		},
	})
}
