// Package metrics exposes the indexer's Prometheus collectors.
//
// Collectors are registered against an explicitly supplied
// prometheus.Registerer, never the package-level default registerer, so a
// process embedding the indexer controls exactly what gets exposed and
// under what registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the indexer's named counters and gauges.
type Metrics struct {
	// ProcessedTransactions counts transactions whose operations have been
	// processed by the entity-operation phase.
	ProcessedTransactions prometheus.Counter

	// ProcessedOperations counts individual operations (Create, Update,
	// Delete, Extend, ChangeOwner) applied across all processed
	// transactions.
	ProcessedOperations prometheus.Counter

	// ProcessedReorgs counts transactions that triggered a cleanup pass
	// because they were reorganized out of the canonical chain.
	ProcessedReorgs prometheus.Counter

	// PendingTransactions gauges the current depth of the pending
	// transaction-operations queue.
	PendingTransactions prometheus.Gauge

	// PendingReorgs gauges the current depth of the pending
	// transaction-cleanups queue.
	PendingReorgs prometheus.Gauge

	// PendingLogs gauges the combined current depth of the pending
	// delete-logs and log-events queues.
	PendingLogs prometheus.Gauge

	// L3WithdrawalsIndexed counts MessagePassed events harvested from L3
	// chains by the bridge poller.
	L3WithdrawalsIndexed prometheus.Counter
}

// NewWithRegistry constructs Metrics and registers every collector against
// registerer.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProcessedTransactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "processed_transaction_count",
			Help: "Total number of transactions processed by the entity-operation phase.",
		}),
		ProcessedOperations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "processed_operation_count",
			Help: "Total number of entity operations applied across all processed transactions.",
		}),
		ProcessedReorgs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "processed_transaction_reorg_count",
			Help: "Total number of transactions reprocessed due to a chain reorganization.",
		}),
		PendingTransactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pending_transactions",
			Help: "Current depth of the pending transaction-operations queue.",
		}),
		PendingReorgs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pending_transaction_reorgs",
			Help: "Current depth of the pending transaction-cleanups queue.",
		}),
		PendingLogs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pending_logs",
			Help: "Combined current depth of the pending delete-logs and log-events queues.",
		}),
		L3WithdrawalsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "l3_withdrawals_indexed_count",
			Help: "Total number of MessagePassed withdrawal events harvested from L3 chains.",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.ProcessedTransactions,
			m.ProcessedOperations,
			m.ProcessedReorgs,
			m.PendingTransactions,
			m.PendingReorgs,
			m.PendingLogs,
			m.L3WithdrawalsIndexed,
		)
	}

	return m
}
