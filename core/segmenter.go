package core

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/comm-planner/model"
)

// SeverityPolicy is the configurable mission-status mapping. The X-Ku
// conflict downgrade is an explicit product rule, kept as a policy hook
// rather than a hardcoded exception.
type SeverityPolicy struct {
	// XKuConflictCritical escalates the simultaneous X+Ku loss (with Ka
	// still up) to critical. The product default keeps it warning-only, so
	// the pair surfaces as a degraded segment tagged x_ku_conflict.
	XKuConflictCritical bool
}

// SegmentTimeline merges the three per-transport interval sequences into one
// ordered, contiguous segment list. Segment boundaries are drawn from the
// union of the inputs' boundaries; adjacent segments are merged only when
// status, all three link states, and the impacted-transport set are
// identical, so every segment reports a uniform per-link snapshot. Malformed
// input sequences are a bug in the caller and fail with InvariantViolation.
func SegmentTimeline(x, ka, ku []model.Interval, policy SeverityPolicy) ([]model.TimelineSegment, error) {
	lists := [][]model.Interval{x, ka, ku}
	for i, list := range lists {
		if err := validateIntervals(list); err != nil {
			return nil, &InvariantViolation{Msg: fmt.Sprintf("%s intervals: %v", model.Transport(i), err)}
		}
	}
	if len(x) == 0 && len(ka) == 0 && len(ku) == 0 {
		return nil, nil
	}
	for i, list := range lists {
		if len(list) == 0 {
			return nil, &InvariantViolation{Msg: fmt.Sprintf("%s intervals empty while others are not", model.Transport(i))}
		}
	}
	start, end := x[0].Start, x[len(x)-1].End
	for i, list := range lists {
		if !list[0].Start.Equal(start) || !list[len(list)-1].End.Equal(end) {
			return nil, &InvariantViolation{Msg: fmt.Sprintf("%s intervals do not cover the mission window", model.Transport(i))}
		}
	}

	boundaries := mergeBoundaries(lists)

	cursors := [3]int{}
	var segments []model.TimelineSegment
	for i := 0; i+1 < len(boundaries); i++ {
		lo, hi := boundaries[i], boundaries[i+1]

		var states [3]model.LinkState
		var reasons []model.ReasonCode
		for t, list := range lists {
			for cursors[t] < len(list) && !list[cursors[t]].End.After(lo) {
				cursors[t]++
			}
			iv := list[cursors[t]]
			states[t] = iv.State
			for _, r := range iv.Reasons {
				reasons = appendReason(reasons, r)
			}
		}

		var impacted []model.Transport
		for _, t := range model.Transports() {
			if states[t] != model.LinkAvailable {
				impacted = append(impacted, t)
			}
		}
		status, conflict := policy.statusFor(states)
		if conflict {
			reasons = appendReason(reasons, model.ReasonXKuConflict)
		}

		if n := len(segments); n > 0 && segments[n-1].Status == status &&
			segments[n-1].XState == states[model.TransportX] &&
			segments[n-1].KaState == states[model.TransportKa] &&
			segments[n-1].KuState == states[model.TransportKu] &&
			sameTransports(segments[n-1].ImpactedTransports, impacted) {
			prev := &segments[n-1]
			prev.End = hi
			for _, r := range reasons {
				prev.Reasons = appendReason(prev.Reasons, r)
			}
			continue
		}
		segments = append(segments, model.TimelineSegment{
			Start:              lo,
			End:                hi,
			Status:             status,
			XState:             states[model.TransportX],
			KaState:            states[model.TransportKa],
			KuState:            states[model.TransportKu],
			Reasons:            reasons,
			ImpactedTransports: impacted,
		})
	}
	return segments, nil
}

// statusFor derives the mission status from the three link states. Two or
// more impaired transports are critical, except the X+Ku-only pair when the
// warning-only conflict rule is in force; a single impaired transport is
// degraded.
func (p SeverityPolicy) statusFor(states [3]model.LinkState) (model.MissionStatus, bool) {
	xDown := states[model.TransportX] != model.LinkAvailable
	kaDown := states[model.TransportKa] != model.LinkAvailable
	kuDown := states[model.TransportKu] != model.LinkAvailable

	down := 0
	for _, d := range []bool{xDown, kaDown, kuDown} {
		if d {
			down++
		}
	}

	if xDown && kuDown && !kaDown {
		if p.XKuConflictCritical {
			return model.StatusCritical, true
		}
		return model.StatusDegraded, true
	}
	switch {
	case down >= 2:
		return model.StatusCritical, false
	case down == 1:
		return model.StatusDegraded, false
	default:
		return model.StatusNominal, false
	}
}

func validateIntervals(list []model.Interval) error {
	for i, iv := range list {
		if !iv.End.After(iv.Start) {
			return fmt.Errorf("interval %d is empty or inverted", i)
		}
		if i > 0 && !iv.Start.Equal(list[i-1].End) {
			return fmt.Errorf("interval %d does not abut interval %d", i, i-1)
		}
	}
	return nil
}

// mergeBoundaries merges the already-sorted boundary lists of the three
// interval sequences into one deduplicated ascending list.
func mergeBoundaries(lists [][]model.Interval) []time.Time {
	var all []time.Time
	for _, list := range lists {
		for i, iv := range list {
			if i == 0 {
				all = insertBoundary(all, iv.Start)
			}
			all = insertBoundary(all, iv.End)
		}
	}
	return all
}

func insertBoundary(sorted []time.Time, b time.Time) []time.Time {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if sorted[mid].Before(b) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(sorted) && sorted[lo].Equal(b) {
		return sorted
	}
	sorted = append(sorted, time.Time{})
	copy(sorted[lo+1:], sorted[lo:])
	sorted[lo] = b
	return sorted
}

func sameTransports(a, b []model.Transport) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
