package core

import (
	"sort"
	"time"

	"github.com/signalsfoundry/comm-planner/model"
)

// ReduceEvents collapses one transport's event stream into a non-overlapping,
// time-ordered interval sequence covering [start, end) exactly. At every
// event boundary the active state is the maximum severity of all open events;
// reasons accumulate in event order, deduplicated. Stretches with no open
// event are available. Adjacent intervals with identical state are merged.
// Transitions happen only at explicit boundaries; the machine has no implicit
// timeouts.
func ReduceEvents(events []MissionEvent, start, end time.Time) []model.Interval {
	if !end.After(start) {
		return nil
	}

	clamped := make([]MissionEvent, 0, len(events))
	for _, ev := range events {
		if ev.Start.Before(start) {
			ev.Start = start
		}
		if ev.End.After(end) {
			ev.End = end
		}
		if ev.End.After(ev.Start) {
			clamped = append(clamped, ev)
		}
	}

	boundaries := boundarySet(clamped, start, end)

	var intervals []model.Interval
	for i := 0; i+1 < len(boundaries); i++ {
		lo, hi := boundaries[i], boundaries[i+1]

		state := model.LinkAvailable
		var reasons []model.ReasonCode
		for _, ev := range clamped {
			if ev.Start.After(lo) || !ev.End.After(lo) {
				continue
			}
			state = state.Worse(ev.Severity)
			reasons = appendReason(reasons, ev.Reason)
		}

		if n := len(intervals); n > 0 && intervals[n-1].State == state {
			intervals[n-1].End = hi
			for _, r := range reasons {
				intervals[n-1].Reasons = appendReason(intervals[n-1].Reasons, r)
			}
			continue
		}
		intervals = append(intervals, model.Interval{
			Start:   lo,
			End:     hi,
			State:   state,
			Reasons: reasons,
		})
	}
	return intervals
}

func boundarySet(events []MissionEvent, start, end time.Time) []time.Time {
	boundaries := []time.Time{start, end}
	for _, ev := range events {
		boundaries = append(boundaries, ev.Start, ev.End)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	dedup := boundaries[:1]
	for _, b := range boundaries[1:] {
		if !b.Equal(dedup[len(dedup)-1]) {
			dedup = append(dedup, b)
		}
	}
	return dedup
}

// appendReason keeps reasons insertion-order-stable and deduplicated.
func appendReason(reasons []model.ReasonCode, r model.ReasonCode) []model.ReasonCode {
	for _, have := range reasons {
		if have == r {
			return reasons
		}
	}
	return append(reasons, r)
}
