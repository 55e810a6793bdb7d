package ledger

import (
	"github.com/dogechain-lab/moveledger/helper/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "ledger"

// Metrics represents the ledger engine metrics
type Metrics struct {
	// Transactions executed and recorded
	transactions prometheus.Counter
	// Recorded transactions whose execution aborted
	failedTransactions prometheus.Counter
	// Transactions rejected before execution
	earlyReturns prometheus.Counter
	// Dry runs
	dryRuns prometheus.Counter
	// Pipeline stage duration
	stageSeconds *prometheus.HistogramVec
	// Live objects
	liveObjects prometheus.Gauge
	// Latest checkpoint
	checkpoint prometheus.Gauge
}

func (m *Metrics) TransactionsInc() {
	metrics.CounterInc(m.transactions)
}

func (m *Metrics) FailedTransactionsInc() {
	metrics.CounterInc(m.failedTransactions)
}

func (m *Metrics) EarlyReturnsInc() {
	metrics.CounterInc(m.earlyReturns)
}

func (m *Metrics) DryRunsInc() {
	metrics.CounterInc(m.dryRuns)
}

func (m *Metrics) StageSecondsObserve(stage string, v float64) {
	metrics.HistogramVecObserve(m.stageSeconds, v, stage)
}

func (m *Metrics) SetLiveObjects(v float64) {
	metrics.SetGauge(m.liveObjects, v)
}

func (m *Metrics) SetCheckpoint(v float64) {
	metrics.SetGauge(m.checkpoint, v)
}

// GetPrometheusMetrics return the ledger metrics instance
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLabels(labelsWithValues...)

	m := &Metrics{
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "transactions",
			Help:        "executed and recorded transactions",
			ConstLabels: constLabels,
		}),
		failedTransactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "failed_transactions",
			Help:        "recorded transactions whose execution aborted",
			ConstLabels: constLabels,
		}),
		earlyReturns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "early_returns",
			Help:        "transactions rejected before execution",
			ConstLabels: constLabels,
		}),
		dryRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "dry_runs",
			Help:        "dry run transactions",
			ConstLabels: constLabels,
		}),
		stageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "stage_seconds",
			Help:        "pipeline stage duration (seconds)",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		liveObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "live_objects",
			Help:        metrics.MetricName2Help("live_objects"),
			ConstLabels: constLabels,
		}),
		checkpoint: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "checkpoint",
			Help:        "latest checkpoint",
			ConstLabels: constLabels,
		}),
	}

	prometheus.MustRegister(
		m.transactions,
		m.failedTransactions,
		m.earlyReturns,
		m.dryRuns,
		m.stageSeconds,
		m.liveObjects,
		m.checkpoint,
	)

	return m
}

// NilMetrics will return the non operational ledger metrics
func NilMetrics() *Metrics {
	return &Metrics{}
}
