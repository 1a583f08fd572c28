package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtnitsch/llmstxt-generator/pkg/payment"
)

type CheckoutHandler struct {
	store    RunStore
	payments Payments
	logger   *slog.Logger
}

func NewCheckoutHandler(store RunStore, p Payments, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{store: store, payments: p, logger: logger}
}

type checkoutRequest struct {
	RunID string `json:"runId"`
}

// Create starts a Stripe Checkout session for an unpaid active run.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req checkoutRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}
	if req.RunID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingRunID})
		return
	}

	run, err := h.store.FindActiveRun(req.RunID)
	if err != nil {
		h.logger.Error("Failed to load run", "run_id", req.RunID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgRunNotFound})
		return
	}
	if run.Paid() {
		c.JSON(http.StatusConflict, gin.H{"error": "Run is already paid."})
		return
	}

	checkoutURL, err := h.payments.CreateCheckout(c.Request.Context(), run.ID, requestOrigin(c))
	if err != nil {
		h.logger.Warn("Checkout failed", "run_id", run.ID, "trace_id", TraceID(c.Request.Context()), "error", err)
		if errors.Is(err, payment.ErrNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": payment.ErrNotConfigured.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": payment.ErrCheckoutFailed.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": checkoutURL})
}

// requestOrigin rebuilds scheme://host as the client saw it.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
