package render

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts render work for the batch CLI.
type Metrics struct {
	SessionsLoaded  prometheus.Gauge
	SessionsSkipped *prometheus.GaugeVec
	ChartsRendered  *prometheus.CounterVec
	RenderErrors    *prometheus.CounterVec
	RenderDuration  *prometheus.HistogramVec
	FramesWritten   prometheus.Counter
}

// NewMetrics registers the collectors on reg; nil uses a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Metrics{
		SessionsLoaded: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "sessioncharts_sessions_loaded",
			Help: "Number of sessions read from the dataset.",
		}),
		SessionsSkipped: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "sessioncharts_sessions_skipped",
			Help: "Sessions left out of a chart for missing values.",
		}, []string{"chart"}),
		ChartsRendered: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sessioncharts_charts_rendered_total",
			Help: "Charts written, by chart and format.",
		}, []string{"chart", "format"}),
		RenderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sessioncharts_render_errors_total",
			Help: "Charts that failed to render.",
		}, []string{"chart"}),
		RenderDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sessioncharts_render_duration_seconds",
			Help:    "Time spent laying out and encoding one chart.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"chart"}),
		FramesWritten: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "sessioncharts_animation_frames_total",
			Help: "Radial animation frames written.",
		}),
	}
}

// WriteTextfile dumps everything gathered by g in the Prometheus text format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
