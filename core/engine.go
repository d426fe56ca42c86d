package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/comm-planner/catalog"
	"github.com/signalsfoundry/comm-planner/internal/logging"
	"github.com/signalsfoundry/comm-planner/model"
)

// PlannerConfig assembles a Planner. Everything is optional except Catalog;
// zero values fall back to engine defaults.
type PlannerConfig struct {
	Log       logging.Logger
	Catalog   *catalog.Store
	Sampler   SamplerOptions
	Evaluator EvaluatorOptions
	Policy    SeverityPolicy
	// KuTLEs enables the advisory-only LEO visibility check when non-empty.
	KuTLEs []TLE
}

// Planner runs the timeline pipeline. A single Planner is safe for concurrent
// use: each computation reads only its own mission, route, and the catalog
// snapshot captured at its start.
type Planner struct {
	log       logging.Logger
	tracer    trace.Tracer
	catalog   *catalog.Store
	sampler   SamplerOptions
	evaluator EvaluatorOptions
	policy    SeverityPolicy
	leo       *LEOSet
}

// NewPlanner wires a Planner from the given config.
func NewPlanner(cfg PlannerConfig) (*Planner, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("planner: catalog store is required")
	}
	log := cfg.Log
	if log == nil {
		log = logging.Noop()
	}
	leo, err := NewLEOSet(cfg.KuTLEs)
	if err != nil {
		return nil, err
	}
	return &Planner{
		log:       log,
		tracer:    otel.Tracer("comm-planner/core"),
		catalog:   cfg.Catalog,
		sampler:   cfg.Sampler,
		evaluator: cfg.Evaluator,
		policy:    cfg.Policy,
		leo:       leo,
	}, nil
}

// ComputeTimeline runs the full pipeline for one mission against the current
// catalog snapshot: coverage sampling, rule evaluation, per-transport state
// reduction, segmentation, and advisory generation. The computation is
// synchronous and pure; recomputing with unchanged inputs yields a
// byte-identical timeline. Per-input failures surface as diagnostics on the
// result, not as errors; only structural invariant violations fail.
func (p *Planner) ComputeTimeline(ctx context.Context, mission *model.Mission, route RouteProvider, now time.Time) (*model.MissionTimeline, error) {
	if mission == nil {
		return nil, fmt.Errorf("planner: mission is required")
	}
	if route == nil {
		return nil, fmt.Errorf("planner: route is required")
	}

	ctx, span := p.tracer.Start(ctx, "planner.ComputeTimeline",
		trace.WithAttributes(attribute.String("mission.id", mission.ID)))
	defer span.End()

	ctx, log := logging.WithMissionLogger(ctx, p.log, mission.ID)
	snapshot := p.catalog.Current()
	start, end := route.Window()

	track, err := p.sampleStage(ctx, route, snapshot)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	events, diagnostics := p.evaluateStage(ctx, mission.Config, route, track)

	intervals := p.reduceStage(ctx, events, start, end)

	segments, err := p.segmentStage(ctx, intervals)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Error(ctx, "timeline segmentation failed", logging.String("error", err.Error()))
		return nil, err
	}
	for i := range segments {
		segments[i].ID = fmt.Sprintf("%s-seg-%03d", mission.ID, i+1)
	}

	advisories := GenerateAdvisories(segments)
	for i := range advisories {
		advisories[i].ID = fmt.Sprintf("%s-adv-%03d", mission.ID, i+1)
	}

	if p.leo != nil {
		diagnostics = append(diagnostics, p.leo.VisibilityDiagnostics(route, p.sampler)...)
	}

	timeline := &model.MissionTimeline{
		MissionID:   mission.ID,
		CreatedAt:   now.UTC(),
		Start:       start,
		End:         end,
		Segments:    segments,
		Advisories:  advisories,
		Diagnostics: diagnostics,
	}
	timeline.Stats = computeStats(timeline)

	log.Info(ctx, "timeline computed",
		logging.Int("segments", len(segments)),
		logging.Int("advisories", len(advisories)),
		logging.Int("diagnostics", len(diagnostics)),
	)
	return timeline, nil
}

func (p *Planner) sampleStage(ctx context.Context, route RouteProvider, snapshot *catalog.Snapshot) (CoverageTrack, error) {
	_, span := p.tracer.Start(ctx, "planner.SampleCoverage")
	defer span.End()

	var footprints []catalog.Footprint
	if snapshot != nil {
		footprints = snapshot.Footprints
	}
	track, err := SampleCoverage(route, footprints, p.sampler)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return CoverageTrack{}, err
	}
	span.SetAttributes(
		attribute.Int("samples", len(track.Samples)),
		attribute.Int("crossovers", len(track.Crossovers)),
	)
	return track, nil
}

func (p *Planner) evaluateStage(ctx context.Context, cfg model.TransportConfig, route RouteProvider, track CoverageTrack) ([]MissionEvent, []model.Diagnostic) {
	_, span := p.tracer.Start(ctx, "planner.Evaluate")
	defer span.End()

	events, diagnostics := Evaluate(cfg, route, track, p.evaluator)
	span.SetAttributes(
		attribute.Int("events", len(events)),
		attribute.Int("diagnostics", len(diagnostics)),
	)
	if len(diagnostics) > 0 {
		if log := logging.LoggerFromContext(ctx); log != nil {
			log.Warn(ctx, "inputs skipped during evaluation",
				logging.Int("diagnostics", len(diagnostics)))
		}
	}
	return events, diagnostics
}

func (p *Planner) reduceStage(ctx context.Context, events []MissionEvent, start, end time.Time) [3][]model.Interval {
	_, span := p.tracer.Start(ctx, "planner.ReduceEvents")
	defer span.End()

	var intervals [3][]model.Interval
	for _, t := range model.Transports() {
		var own []MissionEvent
		for _, ev := range events {
			if ev.Transport == t {
				own = append(own, ev)
			}
		}
		intervals[t] = ReduceEvents(own, start, end)
	}
	return intervals
}

func (p *Planner) segmentStage(ctx context.Context, intervals [3][]model.Interval) ([]model.TimelineSegment, error) {
	_, span := p.tracer.Start(ctx, "planner.SegmentTimeline")
	defer span.End()

	segments, err := SegmentTimeline(
		intervals[model.TransportX],
		intervals[model.TransportKa],
		intervals[model.TransportKu],
		p.policy,
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("segments", len(segments)))
	return segments, nil
}

func computeStats(tl *model.MissionTimeline) model.TimelineStats {
	stats := model.TimelineStats{
		SegmentCount:    len(tl.Segments),
		AdvisoryCount:   len(tl.Advisories),
		DiagnosticCount: len(tl.Diagnostics),
	}
	for i := range tl.Segments {
		seg := &tl.Segments[i]
		seconds := seg.End.Sub(seg.Start).Seconds()
		switch seg.Status {
		case model.StatusNominal:
			stats.NominalSeconds += seconds
		case model.StatusDegraded:
			stats.DegradedSeconds += seconds
		case model.StatusCritical:
			stats.CriticalSeconds += seconds
		}
		for _, t := range model.Transports() {
			switch seg.StateOf(t) {
			case model.LinkDegraded:
				stats.DegradedByLink.Add(t, seconds)
			case model.LinkOffline:
				stats.OfflineByLink.Add(t, seconds)
			}
		}
	}
	return stats
}
