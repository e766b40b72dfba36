// Package metrics holds the Prometheus collectors for the discovery pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search sources.
const (
	SourceLive  = "live"
	SourceMock  = "mock"
	SourceCache = "cache"
)

// Provider request outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeHTTPError   = "http_error"
	OutcomeTransport   = "transport_error"
	OutcomeDecodeError = "decode_error"
)

// Drop reasons.
const (
	DropLowScore  = "low_score"
	DropExpired   = "expired"
	DropDuplicate = "duplicate"
)

// Metrics is the set of discovery collectors. A nil *Metrics records nothing,
// so components can be built without instrumentation.
type Metrics struct {
	Searches         *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec
	CandidatesDrop   *prometheus.CounterVec
	RecordsUpserted  prometheus.Counter
	StoreErrors      prometheus.Counter
	SearchDuration   prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests
// to avoid clashing with the default registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_searches_total",
			Help: "Pipeline runs by where the hits came from (live, mock, cache)",
		}, []string{"source"}),
		ProviderRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_provider_requests_total",
			Help: "Search provider HTTP requests by outcome",
		}, []string{"outcome"}),
		CandidatesDrop: f.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_candidates_dropped_total",
			Help: "Candidates removed before persistence by reason",
		}, []string{"reason"}),
		RecordsUpserted: f.NewCounter(prometheus.CounterOpts{
			Name: "discovery_records_upserted_total",
			Help: "Opportunity records written to the store",
		}),
		StoreErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "discovery_store_errors_total",
			Help: "Failed store writes recovered by returning the in-memory record",
		}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "discovery_search_duration_seconds",
			Help:    "End-to-end pipeline run latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Search(source string) {
	if m != nil {
		m.Searches.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) ProviderRequest(outcome string) {
	if m != nil {
		m.ProviderRequests.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Dropped(reason string) {
	if m != nil {
		m.CandidatesDrop.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) Upserted() {
	if m != nil {
		m.RecordsUpserted.Inc()
	}
}

func (m *Metrics) StoreError() {
	if m != nil {
		m.StoreErrors.Inc()
	}
}

func (m *Metrics) ObserveSearch(d time.Duration) {
	if m != nil {
		m.SearchDuration.Observe(d.Seconds())
	}
}
