package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgMissingRunID    = "Missing runId."
	msgRunNotFound     = "Run not found."
	msgPaymentRequired = "Payment required."
)

type RunsHandler struct {
	store RunStore
}

func NewRunsHandler(store RunStore) *RunsHandler {
	return &RunsHandler{store: store}
}

// Show reports whether an active run has been paid.
func (h *RunsHandler) Show(c *gin.Context) {
	runID := c.Query("runId")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingRunID})
		return
	}

	run, err := h.store.FindActiveRun(runID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgRunNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runId": run.ID, "paid": run.Paid()})
}

// Download serves the full document once the run is paid. Errors are plain
// text so a browser download shows something readable.
func (h *RunsHandler) Download(c *gin.Context) {
	runID := c.Query("runId")
	if runID == "" {
		c.String(http.StatusBadRequest, msgMissingRunID)
		return
	}

	run, err := h.store.FindActiveRun(runID)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal server error.")
		return
	}
	if run == nil {
		c.String(http.StatusNotFound, msgRunNotFound)
		return
	}
	if !run.Paid() {
		c.String(http.StatusPaymentRequired, msgPaymentRequired)
		return
	}

	etag := `"` + run.ContentHash + `"`
	c.Header("Content-Disposition", `attachment; filename="llms.txt"`)
	c.Header("Cache-Control", "no-store")
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(run.Content))
}
