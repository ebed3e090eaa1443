package metrics

import (
	"fmt"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/common/filemanager"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const namespace = "artemis_extras"

// Recorder collects per-run counters in a private registry. A nil *Recorder
// is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	cfg      config.MetricsConfig
	logger   zerolog.Logger

	tasksTotal        *prometheus.CounterVec
	candidatesTotal   *prometheus.CounterVec
	reportsTotal      *prometheus.CounterVec
	candidatesPerTask *prometheus.HistogramVec
}

// NewRecorder creates and registers all collectors.
func NewRecorder(cfg config.MetricsConfig, logger zerolog.Logger) (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cfg:      cfg,
		logger:   logger.With().Str("component", "MetricsRecorder").Logger(),
	}

	r.tasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Tasks processed, by receiver and resulting status",
		},
		[]string{"receiver", "status"},
	)
	r.candidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Injection candidates emitted",
		},
		[]string{"receiver"},
	)
	r.reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reports created, by report type",
		},
		[]string{"report_type"},
	)
	r.candidatesPerTask = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_per_task",
			Help:      "Distribution of injection candidates per task",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"receiver"},
	)

	collectors := []prometheus.Collector{
		r.tasksTotal,
		r.candidatesTotal,
		r.reportsTotal,
		r.candidatesPerTask,
	}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return r, nil
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveTask records one processed task.
func (r *Recorder) ObserveTask(receiver, status string) {
	if r == nil {
		return
	}
	r.tasksTotal.WithLabelValues(receiver, status).Inc()
}

// ObserveCandidates records the candidates one task produced.
func (r *Recorder) ObserveCandidates(receiver string, count int) {
	if r == nil {
		return
	}
	r.candidatesTotal.WithLabelValues(receiver).Add(float64(count))
	r.candidatesPerTask.WithLabelValues(receiver).Observe(float64(count))
}

// ObserveReport records one created report.
func (r *Recorder) ObserveReport(reportType string) {
	if r == nil {
		return
	}
	r.reportsTotal.WithLabelValues(reportType).Inc()
}

// Flush writes the registry in text exposition format to the configured
// textfile. It does nothing when no path is configured.
func (r *Recorder) Flush() error {
	if r == nil || r.cfg.TextfilePath == "" {
		return nil
	}
	if err := filemanager.NewFileManager(r.logger).EnsureParentDirectory(r.cfg.TextfilePath); err != nil {
		return errorwrapper.WrapError(err, "failed to create metrics directory")
	}
	if err := prometheus.WriteToTextfile(r.cfg.TextfilePath, r.registry); err != nil {
		return errorwrapper.WrapError(err, "failed to write metrics textfile")
	}
	r.logger.Info().Str("path", r.cfg.TextfilePath).Msg("Wrote metrics textfile")
	return nil
}
