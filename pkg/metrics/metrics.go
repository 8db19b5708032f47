// Package metrics exposes ingestion counters on a dedicated Prometheus
// registry, served by the HTTP app under /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the ingestion instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	FactsLoaded   prometheus.Gauge
	RowsSkipped   prometheus.Gauge
	Unresolved    prometheus.Gauge
	CountriesRows prometheus.Gauge
}

// New builds the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eedx_ingest_runs_total",
			Help: "Ingestion runs by terminal status.",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eedx_ingest_run_duration_seconds",
			Help:    "Wall-clock duration of ingestion runs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		FactsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eedx_facts_loaded",
			Help: "Facts inserted by the most recent completed run.",
		}),
		RowsSkipped: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eedx_fact_rows_skipped",
			Help: "Duplicate fact rows skipped by the most recent completed run.",
		}),
		Unresolved: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eedx_unresolved_countries",
			Help: "Provider country names the most recent run could not resolve.",
		}),
		CountriesRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eedx_country_master_inserted",
			Help: "Country master rows inserted by the most recent run.",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
