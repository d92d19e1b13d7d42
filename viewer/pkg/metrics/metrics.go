package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts render cycles. A nil *Metrics records nothing.
type Metrics struct {
	renderDuration prometheus.Histogram
	renders        *prometheus.CounterVec
	fetchFailures  prometheus.Counter
	malformed      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cgmview_render_duration_seconds",
			Help:    "Histogram of render cycle durations, fetch included.",
			Buckets: prometheus.DefBuckets,
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cgmview_renders_total",
			Help: "Total render cycles by outcome.",
		}, []string{"outcome"}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cgmview_upstream_fetch_failures_total",
			Help: "Total snapshot fetches that failed.",
		}),
		malformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cgmview_malformed_events_total",
			Help: "Total fetched events skipped as malformed, by kind.",
		}, []string{"kind"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.renderDuration,
		m.renders,
		m.fetchFailures,
		m.malformed,
	)
	return m
}

func (m *Metrics) ObserveRender(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.renders.WithLabelValues(outcome).Inc()
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) FetchFailed() {
	if m == nil {
		return
	}
	m.fetchFailures.Inc()
}

func (m *Metrics) Malformed(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.malformed.WithLabelValues(kind).Add(float64(n))
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
