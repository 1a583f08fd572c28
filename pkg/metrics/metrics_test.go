package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	m := New()

	m.ObserveGeneration(OutcomeOK, time.Now(), 3, true)
	m.ObserveGeneration(OutcomeOK, time.Now(), 0, false)
	m.ObserveGeneration(OutcomeUnavailable, time.Now(), 5, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues(OutcomeUnavailable)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Warnings))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Enrichment.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Enrichment.WithLabelValues("false")))
}

func TestObserveCrawl(t *testing.T) {
	m := New()

	m.ObserveCrawl(12, nil)
	m.ObserveCrawl(0, errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CrawlFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PagesCrawled))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGeneration(OutcomeOK, time.Now(), 1, true)
		m.ObserveCrawl(1, nil)
		m.ObserveRequest("GET", "/up", 200, time.Millisecond)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/up", 200, time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `llmstxt_http_requests_total{method="GET",route="/up",status="2xx"} 1`)
	assert.Contains(t, body, `route="unmatched",status="4xx"`)
}
