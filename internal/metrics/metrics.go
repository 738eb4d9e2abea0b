// Package metrics provides Prometheus metrics for lawpipe
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for lawpipe. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Document metrics
	DocumentsTotal   *prometheus.CounterVec
	MissesTotal      prometheus.Counter
	RenderFallbacks  prometheus.Counter
	ArticlesTotal    prometheus.Counter
	DocumentDuration prometheus.Histogram

	// Edition metrics
	EditionsMergedTotal  prometheus.Counter
	EditionsSkippedTotal prometheus.Counter
}

// New creates all metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.DocumentsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lawpipe_documents_total",
			Help: "Total number of canonicalized documents",
		},
		[]string{"strategy"},
	)

	m.MissesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lawpipe_recognition_misses_total",
			Help: "Documents with no recognized structural marker",
		},
	)

	m.RenderFallbacks = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lawpipe_render_fallbacks_total",
			Help: "Documents passed through after a render failure",
		},
	)

	m.ArticlesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lawpipe_articles_total",
			Help: "Total number of recognized articles",
		},
	)

	m.DocumentDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lawpipe_document_duration_seconds",
			Help:    "Duration of one canonicalization in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	m.EditionsMergedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lawpipe_editions_merged_total",
			Help: "Total number of editions listed in merged revision indexes",
		},
	)

	m.EditionsSkippedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lawpipe_editions_skipped_total",
			Help: "Total number of edition records rejected by the ledger",
		},
	)

	return m
}

// RecordDocument records one canonicalization
func (m *Metrics) RecordDocument(strategy string, articles int, miss bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.DocumentsTotal.WithLabelValues(strategy).Inc()
	m.ArticlesTotal.Add(float64(articles))
	if miss {
		m.MissesTotal.Inc()
	}
	m.DocumentDuration.Observe(duration.Seconds())
}

// RecordEditions records the outcome of an edition merge
func (m *Metrics) RecordEditions(merged, skipped int) {
	if m == nil {
		return
	}
	m.EditionsMergedTotal.Add(float64(merged))
	m.EditionsSkippedTotal.Add(float64(skipped))
}

// RecordFallback records a render failure that fell back to pass-through
func (m *Metrics) RecordFallback() {
	if m == nil {
		return
	}
	m.RenderFallbacks.Inc()
}

// WriteFile dumps every metric gathered by g in the text exposition format.
func WriteFile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
