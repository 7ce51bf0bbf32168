// Package metrics exposes dashboard counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vote-dashboard-go/internal/dataset"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	loads           *prometheus.CounterVec
	recovered       prometheus.Counter
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the dashboard collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vote_dashboard_loads_total",
				Help: "Vote collection loads by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		recovered: factory.NewCounter(prometheus.CounterOpts{
			Name: "vote_dashboard_recovered_records_total",
			Help: "Vote records read with one or more fields treated as empty.",
		}),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vote_dashboard_http_requests_total",
				Help: "HTTP requests by route and status code.",
			},
			[]string{"route", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vote_dashboard_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// ObserveLoad implements dataset.Observer.
func (m *Metrics) ObserveLoad(source dataset.SourceKind, err error, recovered int) {
	m.loads.WithLabelValues(string(source), Outcome(err)).Inc()
	if recovered > 0 {
		m.recovered.Add(float64(recovered))
	}
}

func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Outcome buckets a load error into a label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, dataset.ErrDataUnavailable):
		return "unavailable"
	case errors.Is(err, dataset.ErrMalformedPayload):
		return "malformed"
	default:
		return "error"
	}
}
