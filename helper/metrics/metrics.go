package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseLabels turns alternating names and values into const labels
func ParseLabels(labelsWithValues ...string) prometheus.Labels {
	constLabels := map[string]string{}

	if len(labelsWithValues)%2 == 0 {
		for i := 1; i < len(labelsWithValues); i += 2 {
			constLabels[labelsWithValues[i-1]] = labelsWithValues[i]
		}
	} else {
		panic("invalid labels")
	}

	return constLabels
}

func CounterInc(counter prometheus.Counter) {
	if counter == nil {
		return
	}

	counter.Inc()
}

func AddCounter(counter prometheus.Counter, v float64) {
	if counter == nil {
		return
	}

	counter.Add(v)
}

func SetGauge(gauge prometheus.Gauge, v float64) {
	if gauge == nil {
		return
	}

	gauge.Set(v)
}

func HistogramObserve(histogram prometheus.Histogram, v float64) {
	if histogram == nil {
		return
	}

	histogram.Observe(v)
}

// HistogramVecObserve observes v in the histogram selected by label values
func HistogramVecObserve(vec *prometheus.HistogramVec, v float64, labelValues ...string) {
	if vec == nil {
		return
	}

	vec.WithLabelValues(labelValues...).Observe(v)
}

func MetricName2Help(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
