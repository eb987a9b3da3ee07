package batch

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects batch counters on a private registry so runs never collide with
// each other or with the default registry.
type Metrics struct {
	registry       *prometheus.Registry
	jobs           *prometheus.CounterVec
	segments       prometheus.Counter
	layers         prometheus.Counter
	parseDuration  prometheus.Histogram
	renderDuration prometheus.Histogram
}

// NewMetrics creates and registers the batch metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolpath_batch_jobs_total",
				Help: "Toolpath files processed, by result",
			},
			[]string{"result"},
		),
		segments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toolpath_segments_total",
			Help: "Motion segments interpreted across all rendered files",
		}),
		layers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toolpath_layers_total",
			Help: "Layers aggregated across all rendered files",
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "toolpath_parse_duration_seconds",
			Help:    "Time spent interpreting one file",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "toolpath_render_duration_seconds",
			Help:    "Time spent building geometry and rasterizing one file",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}),
	}
	m.registry.MustRegister(m.jobs, m.segments, m.layers, m.parseDuration, m.renderDuration)
	return m
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("batch: write metrics %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) observeJob(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.jobs.WithLabelValues(result).Inc()
}

func (m *Metrics) observeModel(segments, layers int) {
	if m == nil {
		return
	}
	m.segments.Add(float64(segments))
	m.layers.Add(float64(layers))
}

func (m *Metrics) observeParse(d time.Duration) {
	if m != nil {
		m.parseDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) observeRender(d time.Duration) {
	if m != nil {
		m.renderDuration.Observe(d.Seconds())
	}
}
