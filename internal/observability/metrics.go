// Package observability is the metrics/tracing bridge for the timeline
// engine. It reads computed MissionTimelines; it never mutates them.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/comm-planner/model"
)

// TimelineCollector bundles Prometheus metrics derived from computed mission
// timelines and provides a ready-to-serve /metrics handler.
type TimelineCollector struct {
	gatherer prometheus.Gatherer

	Computations    *prometheus.CounterVec
	ComputeDuration prometheus.Histogram

	StatusSeconds       *prometheus.GaugeVec
	TransportSeconds    *prometheus.GaugeVec
	NextNonNominal      prometheus.Gauge
	TimelineDiagnostics prometheus.Gauge
}

// NewTimelineCollector registers timeline Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewTimelineCollector(reg prometheus.Registerer) (*TimelineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timeline_computations_total",
		Help: "Total number of timeline computations, labeled by outcome.",
	}, []string{"outcome"})
	computations, err := registerCounterVec(reg, computations, "timeline_computations_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timeline_compute_duration_seconds",
		Help:    "Timeline computation latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
	duration, err = registerHistogram(reg, duration, "timeline_compute_duration_seconds")
	if err != nil {
		return nil, err
	}

	statusSeconds := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "timeline_status_seconds",
		Help: "Cumulative seconds of the most recent timeline per mission status.",
	}, []string{"status"})
	statusSeconds, err = registerGaugeVec(reg, statusSeconds, "timeline_status_seconds")
	if err != nil {
		return nil, err
	}

	transportSeconds := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "timeline_transport_impaired_seconds",
		Help: "Cumulative impaired seconds of the most recent timeline per transport and link state.",
	}, []string{"transport", "state"})
	transportSeconds, err = registerGaugeVec(reg, transportSeconds, "timeline_transport_impaired_seconds")
	if err != nil {
		return nil, err
	}

	nextNonNominal, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timeline_seconds_until_next_conflict",
		Help: "Seconds from the observation time to the next non-nominal segment; -1 when the remainder of the mission is nominal.",
	}), "timeline_seconds_until_next_conflict")
	if err != nil {
		return nil, err
	}

	diagnostics, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timeline_diagnostics",
		Help: "Diagnostic count attached to the most recent timeline.",
	}), "timeline_diagnostics")
	if err != nil {
		return nil, err
	}

	return &TimelineCollector{
		gatherer:            gatherer,
		Computations:        computations,
		ComputeDuration:     duration,
		StatusSeconds:       statusSeconds,
		TransportSeconds:    transportSeconds,
		NextNonNominal:      nextNonNominal,
		TimelineDiagnostics: diagnostics,
	}, nil
}

// RecordComputation counts one computation and its latency. outcome is "ok"
// or "error".
func (c *TimelineCollector) RecordComputation(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.Computations != nil {
		c.Computations.WithLabelValues(outcome).Inc()
	}
	if c.ComputeDuration != nil && outcome == "ok" {
		c.ComputeDuration.Observe(elapsed.Seconds())
	}
}

// ObserveTimeline derives gauge values from a freshly computed timeline. now
// anchors the seconds-until-next-conflict gauge.
func (c *TimelineCollector) ObserveTimeline(tl *model.MissionTimeline, now time.Time) {
	if c == nil || tl == nil {
		return
	}

	if c.StatusSeconds != nil {
		c.StatusSeconds.WithLabelValues(model.StatusNominal.String()).Set(tl.Stats.NominalSeconds)
		c.StatusSeconds.WithLabelValues(model.StatusDegraded.String()).Set(tl.Stats.DegradedSeconds)
		c.StatusSeconds.WithLabelValues(model.StatusCritical.String()).Set(tl.Stats.CriticalSeconds)
	}
	if c.TransportSeconds != nil {
		degraded, offline := tl.Stats.DegradedByLink, tl.Stats.OfflineByLink
		c.TransportSeconds.WithLabelValues("X", "degraded").Set(degraded.X)
		c.TransportSeconds.WithLabelValues("Ka", "degraded").Set(degraded.Ka)
		c.TransportSeconds.WithLabelValues("Ku", "degraded").Set(degraded.Ku)
		c.TransportSeconds.WithLabelValues("X", "offline").Set(offline.X)
		c.TransportSeconds.WithLabelValues("Ka", "offline").Set(offline.Ka)
		c.TransportSeconds.WithLabelValues("Ku", "offline").Set(offline.Ku)
	}
	if c.NextNonNominal != nil {
		if at, ok := tl.NextNonNominal(now); ok {
			seconds := at.Sub(now).Seconds()
			if seconds < 0 {
				seconds = 0
			}
			c.NextNonNominal.Set(seconds)
		} else {
			c.NextNonNominal.Set(-1)
		}
	}
	if c.TimelineDiagnostics != nil {
		c.TimelineDiagnostics.Set(float64(len(tl.Diagnostics)))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TimelineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
