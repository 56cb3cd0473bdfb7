package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceCounters(t *testing.T) {
	metrics := NewMetricsService()

	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/caselist", http.StatusOK, 10*time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.RecordCacheOperation(false, time.Millisecond)
	metrics.RecordTransition("caToRo")
	metrics.RecordLicenceUpdate("curfew")
	metrics.RecordLicenceUpdate("curfew")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.transitions.WithLabelValues("caToRo")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.updates.WithLabelValues("curfew")))
	assert.Equal(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio))

	snapshot := metrics.Snapshot()
	assert.EqualValues(t, 1, snapshot.RequestsTotal)
	assert.EqualValues(t, 1, snapshot.Handovers)
	assert.Equal(t, 0.5, snapshot.CacheHitRatio)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "licence_transitions_total")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var metrics *MetricsService

	metrics.RecordTransition("caToRo")
	metrics.RecordLicenceUpdate("curfew")
	metrics.RecordNotification("sent")
	metrics.RecordCacheOperation(true, time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, metrics.Snapshot().Handovers)
}
