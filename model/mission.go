package model

import "time"

// Transport identifies one of the three independent communication links the
// platform can use in flight.
type Transport int

const (
	TransportX  Transport = iota // fixed-satellite GEO band
	TransportKa                  // multi-satellite GEO band
	TransportKu                  // LEO constellation
)

// Transports returns all transports in their canonical order (X, Ka, Ku).
// Every ordered walk over transports in the engine uses this order so that
// output is stable across runs.
func Transports() []Transport {
	return []Transport{TransportX, TransportKa, TransportKu}
}

func (t Transport) String() string {
	switch t {
	case TransportX:
		return "X"
	case TransportKa:
		return "Ka"
	case TransportKu:
		return "Ku"
	default:
		return "unknown"
	}
}

// LinkState is the availability of a single transport over an interval.
// The numeric order doubles as a severity order: offline > degraded > available.
type LinkState int

const (
	LinkAvailable LinkState = iota
	LinkDegraded
	LinkOffline
)

func (s LinkState) String() string {
	switch s {
	case LinkAvailable:
		return "available"
	case LinkDegraded:
		return "degraded"
	case LinkOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Worse returns the more severe of the two states.
func (s LinkState) Worse(other LinkState) LinkState {
	if other > s {
		return other
	}
	return s
}

// ReasonCode explains why a transport is impaired over some interval.
type ReasonCode string

const (
	ReasonXTransition   ReasonCode = "x_transition"
	ReasonBeamHandoff   ReasonCode = "beam_handoff"
	ReasonKaOutage      ReasonCode = "ka_outage"
	ReasonKuOverride    ReasonCode = "ku_override"
	ReasonCoverageGap   ReasonCode = "coverage_gap"
	ReasonCoverageLost  ReasonCode = "coverage_lost"
	ReasonAAR           ReasonCode = "aar_window"
	ReasonTakeoffBuffer ReasonCode = "takeoff_buffer"
	ReasonLandingBuffer ReasonCode = "landing_buffer"
	ReasonXKuConflict   ReasonCode = "x_ku_conflict"
)

// Mission is the aggregate root for a planned flight. It owns exactly one
// TransportConfig. Once a timeline has been computed against it, callers must
// treat the mission as immutable; changes require an explicit recompute, which
// replaces the whole timeline.
type Mission struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	RouteID   string          `json:"route_id"`
	Config    TransportConfig `json:"config"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransportConfig is the per-mission geometric/operational configuration the
// engine consumes. All fields are read-only inputs; the engine never mutates
// them.
type TransportConfig struct {
	InitialXSatellite   string             `json:"initial_x_satellite"`
	DefaultKaSatellites []string           `json:"default_ka_satellites"`
	XTransitions        []XTransition      `json:"x_transitions,omitempty"`
	KaOutages           []KaOutage         `json:"ka_outages,omitempty"`
	KuOverrides         []KuOutageOverride `json:"ku_overrides,omitempty"`
	AARWindows          []AARWindow        `json:"aar_windows,omitempty"`
}

// XTransition is an operator-declared X-band handoff point. The point may lie
// off the planned route; the engine projects it onto the route to place it in
// time.
type XTransition struct {
	ID              string  `json:"id"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	TargetSatellite string  `json:"target_satellite"`
	TargetBeam      string  `json:"target_beam,omitempty"`
	// SameSatelliteBeamHandoff marks a beam change on the current satellite
	// rather than a handoff to a new one. The degrade window is identical;
	// only the reason code differs.
	SameSatelliteBeamHandoff bool `json:"same_satellite_beam_handoff,omitempty"`
}

// KaOutage is a manual Ka-band downtime window. Duration must be positive.
type KaOutage struct {
	ID       string        `json:"id"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Reason   string        `json:"reason,omitempty"`
}

// KuOutageOverride is a manual Ku downtime window. Ku is otherwise treated as
// always available.
type KuOutageOverride struct {
	ID       string        `json:"id"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Reason   string        `json:"reason,omitempty"`
}

// AARWindow names a segment of the route, bounded by two waypoints, during
// which the platform is air-refueling and antenna pointing is restricted.
type AARWindow struct {
	ID            string `json:"id"`
	StartWaypoint string `json:"start_waypoint"`
	EndWaypoint   string `json:"end_waypoint"`
}
