package core

import (
	"time"

	"github.com/signalsfoundry/comm-planner/model"
)

// EventSource identifies which rule produced a MissionEvent, so the state
// machine and tests can handle every producer exhaustively.
type EventSource int

const (
	SourceOutage EventSource = iota
	SourceTransition
	SourceCoverage
	SourceAAR
	SourceBuffer
)

func (s EventSource) String() string {
	switch s {
	case SourceOutage:
		return "outage"
	case SourceTransition:
		return "transition"
	case SourceCoverage:
		return "coverage"
	case SourceAAR:
		return "aar"
	case SourceBuffer:
		return "buffer"
	default:
		return "unknown"
	}
}

// MissionEvent is the engine's common currency: one impairment contribution
// for one transport over [Start, End). Events are created by the rule
// evaluator, consumed by the transport state machine, and then discarded;
// they are never persisted.
type MissionEvent struct {
	Transport  model.Transport
	Start      time.Time
	End        time.Time
	Severity   model.LinkState // LinkDegraded or LinkOffline
	Reason     model.ReasonCode
	Source     EventSource
	Satellites []string // satellite ids involved, for advisories/metadata
}

// RouteProvider is the engine's view of the external route collaborator. The
// engine does not implement route parsing or great-circle math itself.
type RouteProvider interface {
	// Window returns the mission time extent [start, end].
	Window() (time.Time, time.Time)
	// PositionAt returns the platform position at time t.
	PositionAt(t time.Time) (lat, lon float64, err error)
	// ProjectPoint places an off-route point onto the route, returning the
	// route time of closest approach and the progress fraction.
	ProjectPoint(lat, lon float64) (time.Time, float64, error)
	// WaypointSpan resolves a named waypoint pair to route times.
	WaypointSpan(startName, endName string) (time.Time, time.Time, error)
}
