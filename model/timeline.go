package model

import "time"

// MissionStatus is the overall communication posture during one timeline
// segment.
type MissionStatus int

const (
	StatusNominal MissionStatus = iota
	StatusDegraded
	StatusCritical
)

func (s MissionStatus) String() string {
	switch s {
	case StatusNominal:
		return "nominal"
	case StatusDegraded:
		return "degraded"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Interval is one per-transport availability stretch produced by the transport
// state machine. For any transport the interval sequence covers the mission
// window exactly, with no gaps and no overlaps.
type Interval struct {
	Start   time.Time    `json:"start"`
	End     time.Time    `json:"end"`
	State   LinkState    `json:"state"`
	Reasons []ReasonCode `json:"reasons,omitempty"`
}

// TimelineSegment is a maximal contiguous slice of the mission window with a
// uniform status, uniform per-transport link states, and a uniform set of
// impacted transports. Segments are ordered, non-overlapping, and contiguous;
// immutable once created.
type TimelineSegment struct {
	ID                 string        `json:"id"`
	Start              time.Time     `json:"start"`
	End                time.Time     `json:"end"`
	Status             MissionStatus `json:"status"`
	XState             LinkState     `json:"x_state"`
	KaState            LinkState     `json:"ka_state"`
	KuState            LinkState     `json:"ku_state"`
	Reasons            []ReasonCode  `json:"reasons,omitempty"`
	ImpactedTransports []Transport   `json:"impacted_transports,omitempty"`
}

// StateOf returns the segment's snapshot of the given transport.
func (s *TimelineSegment) StateOf(t Transport) LinkState {
	switch t {
	case TransportX:
		return s.XState
	case TransportKa:
		return s.KaState
	default:
		return s.KuState
	}
}

// AdvisorySeverity grades operator-facing advisories.
type AdvisorySeverity int

const (
	AdvisoryInfo AdvisorySeverity = iota
	AdvisoryWarning
	AdvisoryCritical
)

func (s AdvisorySeverity) String() string {
	switch s {
	case AdvisoryInfo:
		return "info"
	case AdvisoryWarning:
		return "warning"
	case AdvisoryCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// TimelineAdvisory is a derived, operator-facing note describing what changes
// at a segment boundary. Many advisories may reference the same boundary.
type TimelineAdvisory struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Transport Transport         `json:"transport"`
	Severity  AdvisorySeverity  `json:"severity"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Diagnostic records a per-input failure that was isolated rather than allowed
// to abort the computation. Diagnostics live alongside the timeline and are
// never mixed into segment reasons.
type Diagnostic struct {
	Severity AdvisorySeverity `json:"severity"`
	Code     string           `json:"code"`
	Subject  string           `json:"subject,omitempty"`
	Message  string           `json:"message"`
}

// TransportSeconds holds a per-transport duration total.
type TransportSeconds struct {
	X  float64 `json:"x"`
	Ka float64 `json:"ka"`
	Ku float64 `json:"ku"`
}

// Add accumulates d seconds against the given transport.
func (t *TransportSeconds) Add(tr Transport, d float64) {
	switch tr {
	case TransportX:
		t.X += d
	case TransportKa:
		t.Ka += d
	case TransportKu:
		t.Ku += d
	}
}

// TimelineStats aggregates segment durations for export and metrics consumers.
type TimelineStats struct {
	NominalSeconds  float64          `json:"nominal_seconds"`
	DegradedSeconds float64          `json:"degraded_seconds"`
	CriticalSeconds float64          `json:"critical_seconds"`
	DegradedByLink  TransportSeconds `json:"degraded_by_link"`
	OfflineByLink   TransportSeconds `json:"offline_by_link"`
	SegmentCount    int              `json:"segment_count"`
	AdvisoryCount   int              `json:"advisory_count"`
	DiagnosticCount int              `json:"diagnostic_count"`
}

// MissionTimeline is the result of one timeline computation. A recompute
// produces a fresh MissionTimeline that supersedes the previous one; timelines
// are never patched in place.
type MissionTimeline struct {
	MissionID   string             `json:"mission_id"`
	CreatedAt   time.Time          `json:"created_at"`
	Start       time.Time          `json:"start"`
	End         time.Time          `json:"end"`
	Segments    []TimelineSegment  `json:"segments"`
	Advisories  []TimelineAdvisory `json:"advisories,omitempty"`
	Diagnostics []Diagnostic       `json:"diagnostics,omitempty"`
	Stats       TimelineStats      `json:"stats"`
}

// NextNonNominal returns the start of the first segment at or after t whose
// status is not nominal, or false when the remainder of the mission is clean.
func (tl *MissionTimeline) NextNonNominal(t time.Time) (time.Time, bool) {
	for i := range tl.Segments {
		seg := &tl.Segments[i]
		if seg.Status == StatusNominal || seg.End.Before(t) || seg.End.Equal(t) {
			continue
		}
		if seg.Start.After(t) {
			return seg.Start, true
		}
		return t, true
	}
	return time.Time{}, false
}
