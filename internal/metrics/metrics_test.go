package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestSetupMetricsRoute_ReturnsHandler はメトリクスルートのハンドラーが正常に返ることを検証する。
func TestSetupMetricsRoute_ReturnsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)

	handler := SetupMetricsRoute(reg)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}
}

// TestSetupMetricsRoute_ServesMetrics は/metricsパスでメトリクスが返ることを検証する。
func TestSetupMetricsRoute_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordActionCreated("tree_plantation")
	c.RecordHTTPStatus(200)
	c.RecordRequestLatency(42 * time.Millisecond)
	c.RecordSessionCreated()
	c.IncGeocodeFailure()
	c.RecordEvaluation("yes")

	handler := SetupMetricsRoute(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	for _, metric := range []string{
		"carbonreg_actions_created_total",
		"carbonreg_http_status_total",
		"carbonreg_sessions_created_total",
		"carbonreg_geocode_failures_total",
		"carbonreg_evaluations_total",
	} {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response should contain %s metric", metric)
		}
	}
}

// TestCollector_InterfaceCompliance はCollectorがMetricsCollectorを満たすことを検証する。
func TestCollector_InterfaceCompliance(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}
