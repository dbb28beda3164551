// Package metrics provides Prometheus instrumentation for the signal
// polling and derivation pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ledgerline/onboarding/internal/models"
)

// Recorder holds the service's Prometheus collectors.
type Recorder struct {
	pollCycles    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	currentStep   *prometheus.GaugeVec
	derivations   prometheus.Counter
}

func NewRecorder() *Recorder {
	return NewRecorderWith(prometheus.DefaultRegisterer)
}

// NewRecorderWith registers the collectors on reg; tests pass a private
// registry.
func NewRecorderWith(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		pollCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_poll_cycles_total",
				Help: "Signal poll cycles by outcome",
			},
			[]string{"status"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "onboarding_signal_fetch_duration_seconds",
				Help:    "Duration of upstream signal fetches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		fetchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_signal_fetch_errors_total",
				Help: "Failed upstream signal fetches",
			},
			[]string{"service"},
		),
		currentStep: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "onboarding_current_step",
				Help: "Currently derived onboarding step (1 for the active step)",
			},
			[]string{"step"},
		),
		derivations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "onboarding_derivations_total",
				Help: "Step derivations performed",
			},
		),
	}
}

// ObserveFetch records one upstream fetch attempt.
func (r *Recorder) ObserveFetch(service string, elapsed time.Duration, err error) {
	r.fetchDuration.WithLabelValues(service).Observe(elapsed.Seconds())
	if err != nil {
		r.fetchErrors.WithLabelValues(service).Inc()
	}
}

// RecordPoll counts a completed poll cycle.
func (r *Recorder) RecordPoll(ok bool) {
	status := "ok"
	if !ok {
		status = "partial"
	}
	r.pollCycles.WithLabelValues(status).Inc()
}

// SetStep exposes the derived step as a one-hot gauge.
func (r *Recorder) SetStep(step models.Step) {
	r.derivations.Inc()
	for _, s := range models.Steps {
		value := 0.0
		if s == step {
			value = 1.0
		}
		r.currentStep.WithLabelValues(string(s)).Set(value)
	}
}
