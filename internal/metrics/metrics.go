package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 服务指标集合
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OfferSyncRunsTotal    prometheus.Counter
	OfferSyncUpdatesTotal *prometheus.CounterVec
	OfferSyncErrorsTotal  prometheus.Counter
}

// New 创建并注册所有指标
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests handled",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"method", "path"},
		),
		OfferSyncRunsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "offer_status_sync_runs_total",
				Help: "Total offer status synchronization passes",
			},
		),
		OfferSyncUpdatesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offer_status_sync_updates_total",
				Help: "Offer rows updated by the synchronization pass, by target status",
			},
			[]string{"target_status"},
		),
		OfferSyncErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "offer_status_sync_errors_total",
				Help: "Offer status synchronization passes that failed",
			},
		),
	}
}

// RecordHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordSync 记录一次同步流程的行数变更
func (m *Metrics) RecordSync(targetStatus string, rows int64) {
	if rows <= 0 {
		return
	}
	m.OfferSyncUpdatesTotal.WithLabelValues(targetStatus).Add(float64(rows))
}
