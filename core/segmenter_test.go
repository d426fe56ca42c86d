package core

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/comm-planner/model"
)

func TestSegmentTimeline_AllNominalIsOneSegment(t *testing.T) {
	segs, err := SegmentTimeline(
		availableAll(t0, at(120)),
		availableAll(t0, at(120)),
		availableAll(t0, at(120)),
		SeverityPolicy{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1: %+v", len(segs), segs)
	}
	seg := segs[0]
	if seg.Status != model.StatusNominal || len(seg.ImpactedTransports) != 0 {
		t.Errorf("segment = %+v, want nominal with no impacted transports", seg)
	}
	if !seg.Start.Equal(t0) || !seg.End.Equal(at(120)) {
		t.Errorf("window = [%v, %v), want full mission", seg.Start, seg.End)
	}
}

func TestSegmentTimeline_SingleTransportDegraded(t *testing.T) {
	ka := []model.Interval{
		{Start: t0, End: at(30), State: model.LinkAvailable},
		{Start: at(30), End: at(45), State: model.LinkDegraded, Reasons: []model.ReasonCode{model.ReasonCoverageGap}},
		{Start: at(45), End: at(120), State: model.LinkAvailable},
	}
	segs, err := SegmentTimeline(availableAll(t0, at(120)), ka, availableAll(t0, at(120)), SeverityPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3: %+v", len(segs), segs)
	}
	mid := segs[1]
	if mid.Status != model.StatusDegraded {
		t.Errorf("status = %v, want degraded", mid.Status)
	}
	if len(mid.ImpactedTransports) != 1 || mid.ImpactedTransports[0] != model.TransportKa {
		t.Errorf("impacted = %v, want [Ka]", mid.ImpactedTransports)
	}
	if len(mid.Reasons) != 1 || mid.Reasons[0] != model.ReasonCoverageGap {
		t.Errorf("reasons = %v, want [coverage_gap]", mid.Reasons)
	}
	if mid.KaState != model.LinkDegraded || mid.XState != model.LinkAvailable {
		t.Errorf("per-link states wrong: %+v", mid)
	}
}

func TestSegmentTimeline_TwoTransportsDownIsCritical(t *testing.T) {
	x := []model.Interval{
		{Start: t0, End: at(35), State: model.LinkAvailable},
		{Start: at(35), End: at(50), State: model.LinkDegraded, Reasons: []model.ReasonCode{model.ReasonXTransition}},
		{Start: at(50), End: at(120), State: model.LinkAvailable},
	}
	ka := []model.Interval{
		{Start: t0, End: at(30), State: model.LinkAvailable},
		{Start: at(30), End: at(40), State: model.LinkOffline, Reasons: []model.ReasonCode{model.ReasonKaOutage}},
		{Start: at(40), End: at(120), State: model.LinkAvailable},
	}
	segs, err := SegmentTimeline(x, ka, availableAll(t0, at(120)), SeverityPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	// 00:00 nominal, 00:30 degraded(Ka), 00:35 critical(X+Ka),
	// 00:40 degraded(X), 00:50 nominal.
	if len(segs) != 5 {
		t.Fatalf("got %d segments, want 5: %+v", len(segs), segs)
	}
	crit := segs[2]
	if !crit.Start.Equal(at(35)) || !crit.End.Equal(at(40)) {
		t.Errorf("critical window = [%v, %v), want [00:35, 00:40)", crit.Start, crit.End)
	}
	if crit.Status != model.StatusCritical {
		t.Errorf("status = %v, want critical", crit.Status)
	}
	if len(crit.ImpactedTransports) != 2 ||
		crit.ImpactedTransports[0] != model.TransportX || crit.ImpactedTransports[1] != model.TransportKa {
		t.Errorf("impacted = %v, want [X Ka]", crit.ImpactedTransports)
	}
	if len(crit.Reasons) != 2 ||
		crit.Reasons[0] != model.ReasonXTransition || crit.Reasons[1] != model.ReasonKaOutage {
		t.Errorf("reasons = %v, want [x_transition ka_outage]", crit.Reasons)
	}
}

func xKuOverlap() (x, ka, ku []model.Interval) {
	x = []model.Interval{
		{Start: t0, End: at(30), State: model.LinkAvailable},
		{Start: at(30), End: at(60), State: model.LinkDegraded, Reasons: []model.ReasonCode{model.ReasonXTransition}},
		{Start: at(60), End: at(120), State: model.LinkAvailable},
	}
	ka = availableAll(t0, at(120))
	ku = []model.Interval{
		{Start: t0, End: at(40), State: model.LinkAvailable},
		{Start: at(40), End: at(50), State: model.LinkOffline, Reasons: []model.ReasonCode{model.ReasonKuOverride}},
		{Start: at(50), End: at(120), State: model.LinkAvailable},
	}
	return x, ka, ku
}

func TestSegmentTimeline_XKuConflictDefaultsToWarning(t *testing.T) {
	x, ka, ku := xKuOverlap()
	segs, err := SegmentTimeline(x, ka, ku, SeverityPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	var conflict *model.TimelineSegment
	for i := range segs {
		if segs[i].Start.Equal(at(40)) {
			conflict = &segs[i]
		}
	}
	if conflict == nil {
		t.Fatalf("no segment starting at 00:40: %+v", segs)
	}
	if conflict.Status != model.StatusDegraded {
		t.Errorf("status = %v, want degraded under the warning-only rule", conflict.Status)
	}
	found := false
	for _, r := range conflict.Reasons {
		if r == model.ReasonXKuConflict {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want x_ku_conflict tag present", conflict.Reasons)
	}
}

func TestSegmentTimeline_XKuConflictEscalatesUnderPolicy(t *testing.T) {
	x, ka, ku := xKuOverlap()
	segs, err := SegmentTimeline(x, ka, ku, SeverityPolicy{XKuConflictCritical: true})
	if err != nil {
		t.Fatal(err)
	}
	for i := range segs {
		if segs[i].Start.Equal(at(40)) {
			if segs[i].Status != model.StatusCritical {
				t.Errorf("status = %v, want critical with XKuConflictCritical", segs[i].Status)
			}
			return
		}
	}
	t.Fatalf("no segment starting at 00:40: %+v", segs)
}

func TestSegmentTimeline_LinkStateChangeStartsNewSegment(t *testing.T) {
	// A Ka coverage gap deteriorating into a full loss keeps the same status
	// and impacted set, but the link state changes at 00:10. The two
	// stretches must stay separate segments so the offline half is not
	// reported as merely degraded.
	ka := []model.Interval{
		{Start: t0, End: at(10), State: model.LinkDegraded, Reasons: []model.ReasonCode{model.ReasonCoverageGap}},
		{Start: at(10), End: at(20), State: model.LinkOffline, Reasons: []model.ReasonCode{model.ReasonCoverageLost}},
		{Start: at(20), End: at(60), State: model.LinkAvailable},
	}
	segs, err := SegmentTimeline(availableAll(t0, at(60)), ka, availableAll(t0, at(60)), SeverityPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3: %+v", len(segs), segs)
	}
	first, second := segs[0], segs[1]
	if first.Status != model.StatusDegraded || second.Status != model.StatusDegraded {
		t.Errorf("statuses = %v, %v, want degraded, degraded", first.Status, second.Status)
	}
	if !second.Start.Equal(at(10)) {
		t.Errorf("second segment starts %v, want 00:10", second.Start)
	}
	if first.KaState != model.LinkDegraded {
		t.Errorf("first KaState = %v, want degraded", first.KaState)
	}
	if second.KaState != model.LinkOffline {
		t.Errorf("second KaState = %v, want offline", second.KaState)
	}
	if len(second.Reasons) != 1 || second.Reasons[0] != model.ReasonCoverageLost {
		t.Errorf("second reasons = %v, want [coverage_lost]", second.Reasons)
	}

	// The offline stretch must also announce itself as offline.
	advisories := GenerateAdvisories(segs)
	if len(advisories) != 2 {
		t.Fatalf("got %d advisories, want 2: %+v", len(advisories), advisories)
	}
	if advisories[0].EventType != "transport_degraded" || advisories[1].EventType != "transport_offline" {
		t.Errorf("event types = %q, %q, want transport_degraded, transport_offline",
			advisories[0].EventType, advisories[1].EventType)
	}
}

func TestSegmentTimeline_AllEmptyIsNil(t *testing.T) {
	segs, err := SegmentTimeline(nil, nil, nil, SeverityPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	if segs != nil {
		t.Fatalf("got %+v, want nil", segs)
	}
}

func TestSegmentTimeline_RejectsGappedInput(t *testing.T) {
	ka := []model.Interval{
		{Start: t0, End: at(30), State: model.LinkAvailable},
		{Start: at(40), End: at(120), State: model.LinkAvailable},
	}
	_, err := SegmentTimeline(availableAll(t0, at(120)), ka, availableAll(t0, at(120)), SeverityPolicy{})
	var inv *InvariantViolation
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want InvariantViolation", err)
	}
}

func TestSegmentTimeline_RejectsMismatchedWindows(t *testing.T) {
	_, err := SegmentTimeline(
		availableAll(t0, at(120)),
		availableAll(t0, at(90)),
		availableAll(t0, at(120)),
		SeverityPolicy{},
	)
	var inv *InvariantViolation
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want InvariantViolation", err)
	}
}

func TestSegmentTimeline_RejectsOneEmptyList(t *testing.T) {
	_, err := SegmentTimeline(availableAll(t0, at(120)), nil, availableAll(t0, at(120)), SeverityPolicy{})
	var inv *InvariantViolation
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want InvariantViolation", err)
	}
}

func TestSegmentTimeline_ContiguousAndOrdered(t *testing.T) {
	x, ka, ku := xKuOverlap()
	segs, err := SegmentTimeline(x, ka, ku, SeverityPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	if !segs[0].Start.Equal(t0) || !segs[len(segs)-1].End.Equal(at(120)) {
		t.Fatalf("segments span [%v, %v), want the mission window", segs[0].Start, segs[len(segs)-1].End)
	}
	for i := 1; i < len(segs); i++ {
		if !segs[i].Start.Equal(segs[i-1].End) {
			t.Errorf("segment %d does not abut segment %d", i, i-1)
		}
	}
}
