package importer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records import activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	rows     *prometheus.CounterVec
	batches  *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Spreadsheet rows processed by outcome.",
		}, []string{"outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "import",
			Name:      "batches_total",
			Help:      "Import batches by final status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: "import",
			Name:      "batch_duration_seconds",
			Help:      "Wall time spent reconciling one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.rows, m.batches, m.duration)
	}
	return m
}

func (m *Metrics) observeRow(kind OutcomeKind) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) observeBatch(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
}
