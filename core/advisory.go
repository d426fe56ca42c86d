package core

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/comm-planner/model"
)

// GenerateAdvisories walks the segment list and emits one operator-facing
// advisory per impacted transport at every entry into a non-nominal segment.
// Returns to nominal are silent. Advisory timestamps equal the segment start;
// transports tie-break in X, Ka, Ku order.
func GenerateAdvisories(segments []model.TimelineSegment) []model.TimelineAdvisory {
	var advisories []model.TimelineAdvisory
	for i := range segments {
		seg := &segments[i]
		if seg.Status == model.StatusNominal {
			continue
		}
		severity := model.AdvisoryWarning
		if seg.Status == model.StatusCritical {
			severity = model.AdvisoryCritical
		}
		for _, t := range seg.ImpactedTransports {
			advisories = append(advisories, model.TimelineAdvisory{
				Timestamp: seg.Start,
				EventType: advisoryEventType(seg.StateOf(t)),
				Transport: t,
				Severity:  severity,
				Message:   advisoryMessage(seg, t),
				Metadata: map[string]string{
					"segment_status": seg.Status.String(),
					"window_start":   seg.Start.UTC().Format(time.RFC3339),
					"window_end":     seg.End.UTC().Format(time.RFC3339),
				},
			})
		}
	}
	return advisories
}

func advisoryEventType(state model.LinkState) string {
	if state == model.LinkOffline {
		return "transport_offline"
	}
	return "transport_degraded"
}

func advisoryMessage(seg *model.TimelineSegment, t model.Transport) string {
	return fmt.Sprintf("%s %s %s-%s (%s)",
		t, seg.StateOf(t),
		seg.Start.UTC().Format("15:04"), seg.End.UTC().Format("15:04"),
		primaryReason(seg))
}

// primaryReason is the first reason recorded for the segment. Segment reasons
// are ordered X, Ka, Ku, so the leading code names the highest-precedence
// cause in transport order.
func primaryReason(seg *model.TimelineSegment) model.ReasonCode {
	if len(seg.Reasons) == 0 {
		return "unspecified"
	}
	return seg.Reasons[0]
}
