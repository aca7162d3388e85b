package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// impact pipeline.
type Metrics struct {
	RowsLoaded      prometheus.Counter
	RecordsRetained prometheus.Counter
	RecordsDropped  prometheus.Counter
	RunErrors       prometheus.Counter
	PipelineRunning prometheus.Gauge

	RunDuration prometheus.Histogram

	// Exponent codes that resolved to 10^0 without being recognized.
	NormalizationWarnings *prometheus.CounterVec // labels: field={PROPDMGEXP,CROPDMGEXP}

	// Event type classification.
	ClassifierCache *prometheus.CounterVec // labels: result={hit,miss}

	// Acquisition metrics.
	DownloadDuration prometheus.Histogram
	DownloadCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Kafka publication of aggregate rows.
	AggregatesPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RecordsRetained,
		m.RecordsDropped,
		m.RunErrors,
		m.PipelineRunning,
		m.RunDuration,
		m.NormalizationWarnings,
		m.ClassifierCache,
		m.DownloadDuration,
		m.DownloadCache,
		m.AggregatesPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "rows_loaded_total",
			Help:      "Total catalog rows read from the source file.",
		}),
		RecordsRetained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "records_retained_total",
			Help:      "Total records with at least one positive impact measure.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "records_dropped_total",
			Help:      "Total records dropped for having no impact.",
		}),
		RunErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "run_errors_total",
			Help:      "Total pipeline runs aborted by a format or date error.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_impact",
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is in progress, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_impact",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-clean-aggregate run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		NormalizationWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "normalization_warnings_total",
			Help:      "Unrecognized exponent codes by field.",
		}, []string{"field"}),
		ClassifierCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "classifier_cache_total",
			Help:      "Event type classifications by cache result.",
		}, []string{"result"}),
		DownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_impact",
			Name:      "download_duration_seconds",
			Help:      "Duration of catalog downloads.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		DownloadCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "download_cache_total",
			Help:      "Catalog acquisitions by cache result.",
		}, []string{"result"}),
		AggregatesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "aggregates_published_total",
			Help:      "Total aggregate rows written to the Kafka topic.",
		}),
	}
}
