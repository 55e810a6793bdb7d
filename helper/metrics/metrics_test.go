package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func TestParseLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, prometheus.Labels{"a": "1", "b": "2"}, ParseLabels("a", "1", "b", "2"))
	assert.Panics(t, func() { ParseLabels("a") })
}

func TestNilSafeHelpers(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		CounterInc(nil)
		AddCounter(nil, 1)
		SetGauge(nil, 1)
		HistogramObserve(nil, 1)
		HistogramVecObserve(nil, 1, "x")
	})

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter"})
	CounterInc(counter)
	AddCounter(counter, 2)
	assert.Equal(t, float64(3), readValue(t, counter).GetCounter().GetValue())

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_gauge"})
	SetGauge(gauge, 7)
	assert.Equal(t, float64(7), readValue(t, gauge).GetGauge().GetValue())
}

func readValue(t *testing.T, m prometheus.Metric) *dto.Metric {
	t.Helper()

	out := &dto.Metric{}
	if err := m.Write(out); err != nil {
		t.Fatal(err)
	}

	return out
}

func TestMetricName2Help(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stage duration seconds", MetricName2Help("stage_duration_seconds"))
}
