package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the routing pipeline
type Metrics struct {
	DecisionsTotal   *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	BlockedTotal     prometheus.Counter
	FallbackFailures *prometheus.CounterVec
}

// New registers the routing collectors on the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "query_router",
			Name:      "decisions_total",
			Help:      "Terminal routing decisions by route and producing stage.",
		}, []string{"route", "stage"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "query_router",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each classification stage.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"stage"}),
		BlockedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "query_router",
			Name:      "blocked_total",
			Help:      "Requests vetoed by the safety gate.",
		}),
		FallbackFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "query_router",
			Name:      "fallback_failures_total",
			Help:      "Degraded fallback classifications by failure kind.",
		}, []string{"kind"}),
	}
}

// NewDefault registers on the default prometheus registry
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
