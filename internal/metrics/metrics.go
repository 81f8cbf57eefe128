// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordActionCreated(actionType string)
	RecordSessionCreated()
	IncGeocodeFailure()
	RecordEvaluation(status string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	actionsCreated  *prometheus.CounterVec
	sessionsCreated prometheus.Counter
	geocodeFailures prometheus.Counter
	evaluations     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carbonreg_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carbonreg_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		actionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carbonreg_actions_created_total",
			Help: "作成されたアクション記録の種別ごとの合計数",
		}, []string{"action_type"}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carbonreg_sessions_created_total",
			Help: "発行されたセッションの合計数",
		}),
		geocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carbonreg_geocode_failures_total",
			Help: "ジオコーディング解決失敗の合計数",
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carbonreg_evaluations_total",
			Help: "適格性評価の判定結果ごとの合計数",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.actionsCreated,
		c.sessionsCreated,
		c.geocodeFailures,
		c.evaluations,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordActionCreated はアクション記録の作成を記録する。
func (c *Collector) RecordActionCreated(actionType string) {
	c.actionsCreated.WithLabelValues(actionType).Inc()
}

// RecordSessionCreated はセッション発行を記録する。
func (c *Collector) RecordSessionCreated() {
	c.sessionsCreated.Inc()
}

// IncGeocodeFailure はジオコーディング解決失敗を記録する。
func (c *Collector) IncGeocodeFailure() {
	c.geocodeFailures.Inc()
}

// RecordEvaluation は適格性評価の実行を判定結果付きで記録する。
func (c *Collector) RecordEvaluation(status string) {
	c.evaluations.WithLabelValues(status).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
