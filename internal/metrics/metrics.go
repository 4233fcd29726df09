// Package metrics exposes loom's Prometheus instrumentation: a handful of
// counters and histograms registered against a caller-supplied registry
// rather than the global default, so embedding applications control where
// /metrics is served from.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors loom's reconciler reports to. Use
// prometheus.DefaultRegisterer for a process-global registry, or a fresh
// prometheus.NewRegistry() for test isolation.
type Metrics struct {
	Commits        prometheus.Counter
	CommitDuration prometheus.Histogram
	Remounts       *prometheus.CounterVec
	NodesLive      prometheus.Gauge
	RenderErrors   prometheus.Counter
}

// New registers and returns loom's metric collectors against reg.
func New(reg prometheus.Registerer) *Metrics {
	commits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loom_commits_total",
		Help: "Total number of whole-tree reconciler commits.",
	})

	commitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "loom_commit_duration_seconds",
		Help:    "Histogram of wall-clock time spent per commit.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	remounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loom_remounts_total",
		Help: "Total number of keyed detach/create remount pairs, partitioned by tag.",
	}, []string{"tag"})

	nodesLive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "loom_nodes_live",
		Help: "Current number of nodes reachable from the root.",
	})

	renderErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loom_render_errors_total",
		Help: "Total number of recoverable render errors captured from user components.",
	})

	reg.MustRegister(commits, commitDuration, remounts, nodesLive, renderErrors)

	return &Metrics{
		Commits:        commits,
		CommitDuration: commitDuration,
		Remounts:       remounts,
		NodesLive:      nodesLive,
		RenderErrors:   renderErrors,
	}
}
