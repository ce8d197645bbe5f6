package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcilerMetrics records which resolution paths produced derived
// figures. The event-aggregation supply fallback and the deeper metadata
// fallback steps are both signs of degraded ledger linkage, so their
// counters are the primary operational signal this service exports.
type ReconcilerMetrics struct {
	metadataResolutions *prometheus.CounterVec
	supplyResolutions   *prometheus.CounterVec
	catalogBuild        prometheus.Histogram
}

// NewReconcilerMetrics registers the reconciler metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewReconcilerMetrics(reg prometheus.Registerer) *ReconcilerMetrics {
	if reg == nil {
		return &ReconcilerMetrics{}
	}
	metadataResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metadata_resolution_total",
		Help: "Metadata resolutions by fallback path.",
	}, []string{"path"})
	supplyResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "supply_resolution_total",
		Help: "Supply figures by resolution source.",
	}, []string{"source"})
	catalogBuild := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_build_seconds",
		Help:    "Duration of full sale catalog builds in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(metadataResolutions, supplyResolutions, catalogBuild)
	return &ReconcilerMetrics{
		metadataResolutions: metadataResolutions,
		supplyResolutions:   supplyResolutions,
		catalogBuild:        catalogBuild,
	}
}

// ObserveMetadataPath counts one metadata resolution by path.
func (m *ReconcilerMetrics) ObserveMetadataPath(path string) {
	if m == nil || m.metadataResolutions == nil {
		return
	}
	m.metadataResolutions.WithLabelValues(normalizeLabel(path)).Inc()
}

// ObserveSupplySource counts one supply resolution by source.
func (m *ReconcilerMetrics) ObserveSupplySource(source string) {
	if m == nil || m.supplyResolutions == nil {
		return
	}
	m.supplyResolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

// ObserveCatalogBuild records the duration of one catalog build.
func (m *ReconcilerMetrics) ObserveCatalogBuild(duration time.Duration) {
	if m == nil || m.catalogBuild == nil {
		return
	}
	m.catalogBuild.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
