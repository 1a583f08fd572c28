package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtnitsch/llmstxt-generator/pkg/db"
	"github.com/dtnitsch/llmstxt-generator/pkg/metrics"
	"github.com/dtnitsch/llmstxt-generator/pkg/payment"
)

const maxWebhookBodySize = 1 << 20

type WebhookHandler struct {
	store    RunStore
	payments Payments
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewWebhookHandler(store RunStore, p Payments, m *metrics.Metrics, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{store: store, payments: p, metrics: m, logger: logger}
}

// Create verifies a Stripe event and marks the referenced run paid.
func (h *WebhookHandler) Create(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodySize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": payment.ErrMissingPayload.Error()})
		return
	}

	event, err := h.payments.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	switch {
	case errors.Is(err, payment.ErrWebhookNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Warn("Rejected Stripe webhook", "trace_id", TraceID(c.Request.Context()), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if event.RunID != "" {
		_, err := h.store.MarkPaid(event.RunID)
		switch {
		case errors.Is(err, db.ErrRunNotFound):
			h.logger.Warn("Payment for unknown run", "run_id", event.RunID, "event", event.ID)
		case err != nil:
			h.logger.Error("Failed to mark run paid", "run_id", event.RunID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
			return
		default:
			if h.metrics != nil {
				h.metrics.RunsPaid.Inc()
			}
			h.logger.Info("Run paid", "run_id", event.RunID, "event", event.Type)
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
