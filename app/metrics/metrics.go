package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"match-comb/app/lifecycle"
)

// Metrics holds Prometheus counters and gauges for the publish lifecycle.
type Metrics struct {
	registry           *prometheus.Registry
	runsTotal          *prometheus.CounterVec
	postsCreatedTotal  prometheus.Counter
	postsDeletedTotal  prometheus.Counter
	createFailsTotal   prometheus.Counter
	deleteFailsTotal   prometheus.Counter
	rateLimitHitsTotal prometheus.Counter
	pendingMatches     prometheus.Gauge
}

// New creates and registers Prometheus metrics for the lifecycle runner.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcomb_runs_total",
		Help: "Total number of lifecycle runs by outcome",
	}, []string{"outcome"})
	postsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcomb_posts_created_total",
		Help: "Total number of match posts created",
	})
	postsDeletedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcomb_posts_deleted_total",
		Help: "Total number of finished match posts deleted",
	})
	createFailsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcomb_create_failures_total",
		Help: "Total number of post creations that failed",
	})
	deleteFailsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcomb_delete_failures_total",
		Help: "Total number of post deletions that failed",
	})
	rateLimitHitsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcomb_rate_limit_hits_total",
		Help: "Total number of runs halted by the Blogger API rate limit",
	})
	pendingMatches := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "matchcomb_pending_matches",
		Help: "Publishable matches left unpublished after the last run",
	})

	registry.MustRegister(
		runsTotal,
		postsCreatedTotal,
		postsDeletedTotal,
		createFailsTotal,
		deleteFailsTotal,
		rateLimitHitsTotal,
		pendingMatches,
	)

	return &Metrics{
		registry:           registry,
		runsTotal:          runsTotal,
		postsCreatedTotal:  postsCreatedTotal,
		postsDeletedTotal:  postsDeletedTotal,
		createFailsTotal:   createFailsTotal,
		deleteFailsTotal:   deleteFailsTotal,
		rateLimitHitsTotal: rateLimitHitsTotal,
		pendingMatches:     pendingMatches,
	}
}

// ObserveRun records the counters for a finished run.
func (m *Metrics) ObserveRun(report *lifecycle.Report) {
	m.runsTotal.WithLabelValues(string(report.Outcome)).Inc()
	m.postsCreatedTotal.Add(float64(report.Created))
	m.postsDeletedTotal.Add(float64(report.Deleted))
	m.createFailsTotal.Add(float64(report.CreateFailures))
	m.deleteFailsTotal.Add(float64(report.DeleteFailures))
	if report.Outcome == lifecycle.OutcomeRateLimited {
		m.rateLimitHitsTotal.Inc()
	}
	m.pendingMatches.Set(float64(report.Remaining))
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
