// Package metrics exposes Prometheus collectors for the advance request workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors. Use New with a registry so tests can keep theirs isolated.
type Recorder struct {
	requestsCreated  prometheus.Counter
	requestDecisions *prometheus.CounterVec
	createFailures   *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "antecipa",
			Name:      "advance_requests_created_total",
			Help:      "Advance requests created by clients.",
		}),
		requestDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antecipa",
			Name:      "advance_request_decisions_total",
			Help:      "Per-request outcomes of bulk approve/reject calls.",
		}, []string{"decision", "outcome"}),
		createFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antecipa",
			Name:      "advance_request_create_failures_total",
			Help:      "Rejected advance request creations by error kind.",
		}, []string{"kind"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "antecipa",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg != nil {
		reg.MustRegister(r.requestsCreated, r.requestDecisions, r.createFailures, r.httpDuration)
	}
	return r
}

func (r *Recorder) RequestCreated() {
	if r == nil {
		return
	}
	r.requestsCreated.Inc()
}

func (r *Recorder) CreateFailed(kind string) {
	if r == nil {
		return
	}
	if kind == "" {
		kind = "internal"
	}
	r.createFailures.WithLabelValues(kind).Inc()
}

func (r *Recorder) Decision(decision, outcome string) {
	if r == nil {
		return
	}
	r.requestDecisions.WithLabelValues(decision, outcome).Inc()
}

func (r *Recorder) ObserveHTTP(method, route, status string, seconds float64) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, status).Observe(seconds)
}
