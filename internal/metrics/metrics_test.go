package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	for _, name := range []string{
		"processed_transaction_count",
		"processed_operation_count",
		"processed_transaction_reorg_count",
		"pending_transactions",
		"pending_transaction_reorgs",
		"pending_logs",
	} {
		assert.True(t, names[name], "expected metric %s to be registered", name)
	}

	assert.NotNil(t, m.ProcessedTransactions)
}

func TestMetrics_CountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ProcessedTransactions.Inc()
	m.ProcessedOperations.Add(3)
	m.ProcessedReorgs.Inc()

	assert.Equal(t, float64(1), readCounter(t, m.ProcessedTransactions))
	assert.Equal(t, float64(3), readCounter(t, m.ProcessedOperations))
	assert.Equal(t, float64(1), readCounter(t, m.ProcessedReorgs))
}

func TestMetrics_GaugesSet(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.PendingTransactions.Set(5)
	m.PendingReorgs.Set(2)
	m.PendingLogs.Set(7)

	assert.Equal(t, float64(5), readGauge(t, m.PendingTransactions))
	assert.Equal(t, float64(2), readGauge(t, m.PendingReorgs))
	assert.Equal(t, float64(7), readGauge(t, m.PendingLogs))
}

func readCounter(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func readGauge(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}
