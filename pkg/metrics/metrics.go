// Package metrics exposes Prometheus metrics about export runs.
package metrics

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// Recorder owns a private registry so that several recorders can coexist in
// one process (and in tests).
type Recorder struct {
	registry *prometheus.Registry

	RunsTotal   *prometheus.CounterVec
	SheetRows   *prometheus.GaugeVec
	RunDuration prometheus.Histogram
	LastSuccess prometheus.Gauge
	SourceBytes prometheus.Gauge
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sdnexport_runs_total",
			Help: "Export runs by final status.",
		}, []string{"status"}),
		SheetRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sdnexport_sheet_rows",
			Help: "Rows written per sheet by the last successful run.",
		}, []string{"sheet"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sdnexport_run_duration_seconds",
			Help:    "Wall time of export runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sdnexport_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
		SourceBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sdnexport_source_bytes",
			Help: "Size of the feed file processed by the last successful run.",
		}),
	}
}

// RecordSuccess updates every metric for a completed run.
func (r *Recorder) RecordSuccess(rowCounts map[string]int, sourceBytes int64, duration time.Duration, finishedAt time.Time) {
	r.RunsTotal.WithLabelValues(StatusSuccess).Inc()
	r.RunDuration.Observe(duration.Seconds())
	r.LastSuccess.Set(float64(finishedAt.Unix()))
	r.SourceBytes.Set(float64(sourceBytes))
	for sheet, rows := range rowCounts {
		r.SheetRows.WithLabelValues(sheet).Set(float64(rows))
	}
}

// RecordFailure counts a failed run. Row gauges keep the last good values.
func (r *Recorder) RecordFailure(duration time.Duration) {
	r.RunsTotal.WithLabelValues(StatusFailure).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// RecordSkipped counts a run that found the feed unchanged and wrote nothing.
func (r *Recorder) RecordSkipped(duration time.Duration) {
	r.RunsTotal.WithLabelValues(StatusSkipped).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// WriteTextfile writes the registry for node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
