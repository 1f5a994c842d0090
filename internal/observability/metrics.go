package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Metrics holds all Prometheus metrics for a processing run.
// Call sites nil-guard, so components work without metrics wired.
type Metrics struct {
	registry *prometheus.Registry

	// --- Ingestion ---
	RowsParsed  prometheus.Counter
	RowsDropped *prometheus.CounterVec

	// --- Ledger ---
	EventsApplied  *prometheus.CounterVec
	EventsRejected *prometheus.CounterVec
	AccountsLocked prometheus.Counter

	// --- Engine ---
	Partitions prometheus.Gauge
	Accounts   prometheus.Gauge
}

// NewMetrics creates all metrics on a private registry. A private registry
// keeps repeated runs (and tests) from colliding on the global one.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		RowsParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tx_rows_parsed_total",
			Help: "Input rows successfully parsed into events",
		}),

		RowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tx_rows_dropped_total",
			Help: "Malformed input rows dropped at the boundary",
		}, []string{"reason"}),

		EventsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tx_events_applied_total",
			Help: "Events accepted by the ledger",
		}, []string{"kind"}),

		EventsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tx_events_rejected_total",
			Help: "Events rejected by the ledger",
		}, []string{"kind", "reason"}),

		AccountsLocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "tx_accounts_locked_total",
			Help: "Accounts frozen by a chargeback",
		}),

		Partitions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tx_partitions",
			Help: "Client partitions in the current run",
		}),

		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tx_accounts",
			Help: "Final accounts produced by the current run",
		}),
	}
}

// LogSummary gathers every metric and writes one info line per sample.
// A batch run has no scrape endpoint, so the summary lands in the log.
func (m *Metrics) LogSummary(log zerolog.Logger) {
	if m == nil {
		return
	}

	families, err := m.registry.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("gather metrics")
		return
	}

	for _, mf := range families {
		for _, sample := range mf.GetMetric() {
			entry := log.Info().Str("metric", mf.GetName())
			for _, label := range sample.GetLabel() {
				entry = entry.Str(label.GetName(), label.GetValue())
			}
			switch {
			case sample.GetCounter() != nil:
				entry = entry.Float64("value", sample.GetCounter().GetValue())
			case sample.GetGauge() != nil:
				entry = entry.Float64("value", sample.GetGauge().GetValue())
			}
			entry.Msg("run metric")
		}
	}
}
