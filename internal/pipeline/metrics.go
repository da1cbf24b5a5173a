package pipeline

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"histogram-tool/internal/histogram"
)

// Metrics records histogram computations in a private Prometheus registry.
// It implements histogram.Observer.
type Metrics struct {
	registry          *prometheus.Registry
	computations      *prometheus.CounterVec
	computeDuration   prometheus.Histogram
	partitionDuration prometheus.Histogram
	pixels            prometheus.Counter
	workers           prometheus.Gauge
}

var durationBuckets = prometheus.ExponentialBuckets(0.0005, 2, 16)

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "histogram_computations_total",
			Help: "Histogram computations by result.",
		}, []string{"result"}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "histogram_compute_duration_seconds",
			Help:    "Wall time of a full computation including the merge.",
			Buckets: durationBuckets,
		}),
		partitionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "histogram_partition_duration_seconds",
			Help:    "Wall time spent by one worker on its partition.",
			Buckets: durationBuckets,
		}),
		pixels: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "histogram_pixels_total",
			Help: "Pixels counted by successful computations.",
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "histogram_workers",
			Help: "Workers used by the most recent computation.",
		}),
	}

	m.registry.MustRegister(m.computations, m.computeDuration, m.partitionDuration, m.pixels, m.workers)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) PartitionDone(_ int, _ histogram.Partition, elapsed time.Duration) {
	m.partitionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ComputeDone(pixels, workers int, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.computations.WithLabelValues(result).Inc()
	m.computeDuration.Observe(elapsed.Seconds())
	m.workers.Set(float64(workers))
	if err == nil {
		m.pixels.Add(float64(pixels))
	}
}

// WriteToTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
