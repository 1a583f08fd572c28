package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtnitsch/llmstxt-generator/pkg/metrics"
)

type CleanupHandler struct {
	store   RunStore
	token   string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewCleanupHandler(store RunStore, token string, m *metrics.Metrics, logger *slog.Logger) *CleanupHandler {
	return &CleanupHandler{store: store, token: token, metrics: m, logger: logger}
}

// Run deletes expired runs. It requires the cleanup token as a Bearer
// header or a token query parameter; with no token configured it always
// refuses.
func (h *CleanupHandler) Run(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized."})
		return
	}

	deleted, err := h.store.DeleteExpired()
	if err != nil {
		h.logger.Error("Cleanup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}
	if h.metrics != nil {
		h.metrics.RunsDeleted.Add(float64(deleted))
	}
	h.logger.Info("Expired runs deleted", "deleted", deleted)

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *CleanupHandler) authorized(c *gin.Context) bool {
	if h.token == "" {
		return false
	}

	var supplied string
	if scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && scheme == "Bearer" && token != "" {
		supplied = token
	} else {
		supplied = c.Query("token")
	}

	return supplied != "" && subtle.ConstantTimeCompare([]byte(supplied), []byte(h.token)) == 1
}
