package ledger

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricValue(t *testing.T, m prometheus.Metric) *dto.Metric {
	t.Helper()

	out := &dto.Metric{}
	require.NoError(t, m.Write(out))

	return out
}

func TestEngineMetrics(t *testing.T) {
	t.Parallel()

	m := GetPrometheusMetrics("ledger_test", "instance", "engine")
	l := newTestLedger(t, WithMetrics(m))

	resp := l.execute(t, l.payTx(t, l.alice, l.bob.Address(), 1))
	require.False(t, resp.Failed())

	l.RejectNext("no")
	l.execute(t, l.payTx(t, l.alice, l.bob.Address(), 2))

	_, err := l.DryRun(l.payTx(t, l.alice, l.bob.Address(), 3).Data)
	require.NoError(t, err)

	l.BumpCheckpoint()

	assert.Equal(t, float64(1), metricValue(t, m.transactions).GetCounter().GetValue())
	assert.Equal(t, float64(0), metricValue(t, m.failedTransactions).GetCounter().GetValue())
	assert.Equal(t, float64(1), metricValue(t, m.earlyReturns).GetCounter().GetValue())
	assert.Equal(t, float64(1), metricValue(t, m.dryRuns).GetCounter().GetValue())
	assert.Equal(t, float64(1), metricValue(t, m.checkpoint).GetGauge().GetValue())
	assert.Equal(t, float64(len(l.Objects())), metricValue(t, m.liveObjects).GetGauge().GetValue())

	validation, err := m.stageSeconds.GetMetricWithLabelValues("validation")
	require.NoError(t, err)

	//nolint:forcetypeassert
	assert.Equal(t, uint64(3), metricValue(t, validation.(prometheus.Metric)).GetHistogram().GetSampleCount())
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	m := NilMetrics()

	assert.NotPanics(t, func() {
		m.TransactionsInc()
		m.FailedTransactionsInc()
		m.EarlyReturnsInc()
		m.DryRunsInc()
		m.StageSecondsObserve("validation", 1)
		m.SetLiveObjects(1)
		m.SetCheckpoint(1)
	})
}
