// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageDuration tracks how long each startup pipeline stage took.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gssdash_stage_duration_seconds",
			Help:    "Duration of dashboard build stages (load, clean, aggregate, chart, layout)",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		},
		[]string{"stage"},
	)

	// LoadedRows is the number of rows in the cleaned survey table.
	LoadedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gssdash_loaded_rows",
			Help: "Number of survey rows loaded at startup",
		},
	)

	// DegenerateArtifacts counts charts rendered as an empty-state placeholder.
	DegenerateArtifacts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gssdash_degenerate_artifacts_total",
			Help: "Total number of artifacts replaced by a placeholder due to missing data",
		},
		[]string{"artifact"},
	)

	// HTTPRequests counts served requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gssdash_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "code"},
	)
)

// ObserveStage records the elapsed time since start for a pipeline stage.
func ObserveStage(stage string, start time.Time) time.Duration {
	d := time.Since(start)
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	return d
}
