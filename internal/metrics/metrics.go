package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DatasetLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inversion_dataset_loads_total",
		Help: "Total dataset fetch attempts by dataset name",
	}, []string{"dataset"})
	DatasetLoadFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inversion_dataset_load_failures_total",
		Help: "Total dataset fetch failures by dataset name",
	}, []string{"dataset"})
	DatasetLoadDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inversion_dataset_load_duration_ms",
		Help:    "Dataset fetch duration in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	GeoCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inversion_geocache_hits_total",
		Help: "Total geodata cache hits",
	})
	GeoCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inversion_geocache_misses_total",
		Help: "Total geodata cache misses",
	})
	CoordinatesCorrectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inversion_coordinates_corrected_total",
		Help: "Total coordinate pairs corrected from [lat,lng] to [lng,lat]",
	})
	CoordinateFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inversion_coordinate_fallbacks_total",
		Help: "Total coordinate pairs replaced by the regional fallback center",
	})
	FilterSnapshotsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inversion_filter_snapshots_total",
		Help: "Total filter snapshot computations by mode",
	}, []string{"mode"})
)

func init() {
	prometheus.MustRegister(DatasetLoadsTotal)
	prometheus.MustRegister(DatasetLoadFailuresTotal)
	prometheus.MustRegister(DatasetLoadDurationMs)
	prometheus.MustRegister(GeoCacheHitsTotal)
	prometheus.MustRegister(GeoCacheMissesTotal)
	prometheus.MustRegister(CoordinatesCorrectedTotal)
	prometheus.MustRegister(CoordinateFallbacksTotal)
	prometheus.MustRegister(FilterSnapshotsTotal)
}

// Handler exposes the registered metrics for scraping
func Handler() http.Handler { return promhttp.Handler() }
