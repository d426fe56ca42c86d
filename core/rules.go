package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/signalsfoundry/comm-planner/model"
)

// EvaluatorOptions tunes the rule evaluator.
type EvaluatorOptions struct {
	// TransitionWindow is the full width of the degrade window centred on an
	// X-band transition's projected arrival time. Defaults to 30 minutes
	// (±15 around the crossing).
	TransitionWindow time.Duration
	// TakeoffBuffer and LandingBuffer are fixed degrade windows at mission
	// start and end for all transports. Both default to 10 minutes; a
	// negative value disables the buffer.
	TakeoffBuffer time.Duration
	LandingBuffer time.Duration
	// AARDegradesKu extends the air-refueling degrade to Ku. Policy default
	// is no: the LEO constellation keeps tracking through a refueling
	// contact.
	AARDegradesKu bool
}

func (o EvaluatorOptions) withDefaults() EvaluatorOptions {
	if o.TransitionWindow <= 0 {
		o.TransitionWindow = 30 * time.Minute
	}
	if o.TakeoffBuffer == 0 {
		o.TakeoffBuffer = 10 * time.Minute
	}
	if o.LandingBuffer == 0 {
		o.LandingBuffer = 10 * time.Minute
	}
	return o
}

// Diagnostic codes attached to the timeline when a single input is dropped.
const (
	DiagProjectionFailed = "projection_failed"
	DiagInvalidOutage    = "invalid_outage"
	DiagAARUnresolved    = "aar_unresolved"
	DiagKuConstellation  = "ku_constellation_visibility"
)

type evalContext struct {
	cfg    model.TransportConfig
	route  RouteProvider
	track  CoverageTrack
	opts   EvaluatorOptions
	start  time.Time
	end    time.Time
	events []MissionEvent
	diags  []model.Diagnostic
}

// ruleTable fixes the precedence order as data rather than control flow, so
// the order is independently testable. Earlier rules produce
// higher-precedence events; overlapping events for one transport are resolved
// by severity in the transport state machine, and the stable ordering here
// keeps reason accumulation deterministic.
var ruleTable = []struct {
	name  string
	apply func(*evalContext)
}{
	{"manual_outages", applyOutages},
	{"x_transitions", applyTransitions},
	{"ka_coverage", applyCoverage},
	{"aar_windows", applyAAR},
	{"takeoff_landing_buffers", applyBuffers},
}

// Evaluate combines the mission configuration with the coverage track into
// one typed event stream, grouped by transport and time-sorted within each
// group. Individual malformed inputs are recorded as diagnostics and skipped;
// they never abort the evaluation.
func Evaluate(cfg model.TransportConfig, route RouteProvider, track CoverageTrack, opts EvaluatorOptions) ([]MissionEvent, []model.Diagnostic) {
	start, end := route.Window()
	ec := &evalContext{
		cfg:   cfg,
		route: route,
		track: track,
		opts:  opts.withDefaults(),
		start: start,
		end:   end,
	}

	for _, rule := range ruleTable {
		rule.apply(ec)
	}

	return groupByTransport(ec.events), ec.diags
}

func applyOutages(ec *evalContext) {
	for _, outage := range ec.cfg.KaOutages {
		if outage.Duration <= 0 {
			ec.warn(DiagInvalidOutage, outage.ID,
				fmt.Sprintf("Ka outage %s has non-positive duration %v", outage.ID, outage.Duration))
			continue
		}
		ec.add(MissionEvent{
			Transport: model.TransportKa,
			Start:     outage.Start,
			End:       outage.Start.Add(outage.Duration),
			Severity:  model.LinkOffline,
			Reason:    model.ReasonKaOutage,
			Source:    SourceOutage,
		})
	}
	for _, override := range ec.cfg.KuOverrides {
		if override.Duration <= 0 {
			ec.warn(DiagInvalidOutage, override.ID,
				fmt.Sprintf("Ku override %s has non-positive duration %v", override.ID, override.Duration))
			continue
		}
		ec.add(MissionEvent{
			Transport: model.TransportKu,
			Start:     override.Start,
			End:       override.Start.Add(override.Duration),
			Severity:  model.LinkOffline,
			Reason:    model.ReasonKuOverride,
			Source:    SourceOutage,
		})
	}
}

func applyTransitions(ec *evalContext) {
	half := ec.opts.TransitionWindow / 2
	for _, tr := range ec.cfg.XTransitions {
		at, _, err := ec.route.ProjectPoint(tr.Lat, tr.Lon)
		if err != nil {
			perr := &ProjectionError{Subject: tr.ID, Err: err}
			ec.warn(DiagProjectionFailed, tr.ID,
				fmt.Sprintf("X transition %s skipped: %v", tr.ID, perr))
			continue
		}
		reason := model.ReasonXTransition
		if tr.SameSatelliteBeamHandoff {
			reason = model.ReasonBeamHandoff
		}
		ec.add(MissionEvent{
			Transport:  model.TransportX,
			Start:      at.Add(-half),
			End:        at.Add(half),
			Severity:   model.LinkDegraded,
			Reason:     reason,
			Source:     SourceTransition,
			Satellites: []string{tr.TargetSatellite},
		})
	}
}

// applyCoverage turns out-of-coverage runs along the sampled route into Ka
// impairment windows: degraded while a candidate satellite is still above the
// elevation floor (a swap in progress), offline when nothing is in range for
// the whole gap.
func applyCoverage(ec *evalContext) {
	samples := ec.track.Samples
	minEl := ec.track.MinElevationDeg

	i := 0
	for i < len(samples) {
		if samples[i].InCoverage {
			i++
			continue
		}
		j := i
		candidate := false
		var lost []string
		for j < len(samples) && !samples[j].InCoverage {
			if samples[j].BestElevation >= minEl {
				candidate = true
			}
			j++
		}
		gapStart := samples[i].Time
		gapEnd := ec.end
		if j < len(samples) {
			gapEnd = samples[j].Time
			lost = append(lost, samples[j].SatelliteID)
		}
		if i > 0 && samples[i-1].InCoverage {
			lost = append([]string{samples[i-1].SatelliteID}, lost...)
		}

		severity, reason := model.LinkOffline, model.ReasonCoverageLost
		if candidate {
			severity, reason = model.LinkDegraded, model.ReasonCoverageGap
		}
		ec.add(MissionEvent{
			Transport:  model.TransportKa,
			Start:      gapStart,
			End:        gapEnd,
			Severity:   severity,
			Reason:     reason,
			Source:     SourceCoverage,
			Satellites: lost,
		})
		i = j
	}
}

func applyAAR(ec *evalContext) {
	for _, window := range ec.cfg.AARWindows {
		start, end, err := ec.route.WaypointSpan(window.StartWaypoint, window.EndWaypoint)
		if err != nil {
			ec.warn(DiagAARUnresolved, window.ID,
				fmt.Sprintf("AAR window %s skipped: %v", window.ID, err))
			continue
		}
		transports := []model.Transport{model.TransportX, model.TransportKa}
		if ec.opts.AARDegradesKu {
			transports = append(transports, model.TransportKu)
		}
		for _, t := range transports {
			ec.add(MissionEvent{
				Transport: t,
				Start:     start,
				End:       end,
				Severity:  model.LinkDegraded,
				Reason:    model.ReasonAAR,
				Source:    SourceAAR,
			})
		}
	}
}

func applyBuffers(ec *evalContext) {
	for _, t := range model.Transports() {
		if ec.opts.TakeoffBuffer > 0 {
			ec.add(MissionEvent{
				Transport: t,
				Start:     ec.start,
				End:       ec.start.Add(ec.opts.TakeoffBuffer),
				Severity:  model.LinkDegraded,
				Reason:    model.ReasonTakeoffBuffer,
				Source:    SourceBuffer,
			})
		}
		if ec.opts.LandingBuffer > 0 {
			ec.add(MissionEvent{
				Transport: t,
				Start:     ec.end.Add(-ec.opts.LandingBuffer),
				End:       ec.end,
				Severity:  model.LinkDegraded,
				Reason:    model.ReasonLandingBuffer,
				Source:    SourceBuffer,
			})
		}
	}
}

func (ec *evalContext) add(ev MissionEvent) {
	if !ev.End.After(ev.Start) {
		return
	}
	ec.events = append(ec.events, ev)
}

func (ec *evalContext) warn(code, subject, message string) {
	ec.diags = append(ec.diags, model.Diagnostic{
		Severity: model.AdvisoryWarning,
		Code:     code,
		Subject:  subject,
		Message:  message,
	})
}

// groupByTransport orders events X, Ka, Ku, time-sorted within each group.
// The sort is stable so equal-start events keep rule-precedence order.
func groupByTransport(events []MissionEvent) []MissionEvent {
	grouped := make([]MissionEvent, 0, len(events))
	for _, t := range model.Transports() {
		from := len(grouped)
		for _, ev := range events {
			if ev.Transport == t {
				grouped = append(grouped, ev)
			}
		}
		group := grouped[from:]
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].Start.Equal(group[j].Start) {
				return group[i].Start.Before(group[j].Start)
			}
			return group[i].End.Before(group[j].End)
		})
	}
	return grouped
}
