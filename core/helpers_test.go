package core

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/comm-planner/model"
)

// testRoute is a minimal RouteProvider for engine tests: the platform flies a
// straight line from (lat0, lon0) to (lat1, lon1) across the window, and
// off-route points project by longitude fraction.
type testRoute struct {
	start, end  time.Time
	lat0, lon0  float64
	lat1, lon1  float64
	waypoints   map[string]time.Time
	projectFail bool
}

func newTestRoute(start, end time.Time) *testRoute {
	return &testRoute{
		start: start, end: end,
		lat0: 0, lon0: 0,
		lat1: 0, lon1: 10,
	}
}

func (r *testRoute) Window() (time.Time, time.Time) { return r.start, r.end }

func (r *testRoute) frac(t time.Time) float64 {
	f := t.Sub(r.start).Seconds() / r.end.Sub(r.start).Seconds()
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return f
}

func (r *testRoute) PositionAt(t time.Time) (float64, float64, error) {
	f := r.frac(t)
	return r.lat0 + (r.lat1-r.lat0)*f, r.lon0 + (r.lon1-r.lon0)*f, nil
}

func (r *testRoute) ProjectPoint(lat, lon float64) (time.Time, float64, error) {
	if r.projectFail {
		return time.Time{}, 0, fmt.Errorf("point (%v, %v) is nowhere near the route", lat, lon)
	}
	f := (lon - r.lon0) / (r.lon1 - r.lon0)
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	at := r.start.Add(time.Duration(f * float64(r.end.Sub(r.start))))
	return at, f, nil
}

func (r *testRoute) WaypointSpan(a, b string) (time.Time, time.Time, error) {
	start, ok := r.waypoints[a]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("waypoint %q not found", a)
	}
	end, ok := r.waypoints[b]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("waypoint %q not found", b)
	}
	return start, end, nil
}

// t0 is the shared mission start for engine tests: 2026-03-01T00:00:00Z.
var t0 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

// noBuffers disables the takeoff/landing degrade windows so scenario tests
// can pin exact segment boundaries.
var noBuffers = EvaluatorOptions{TakeoffBuffer: -1, LandingBuffer: -1}

func availableAll(start, end time.Time) []model.Interval {
	return []model.Interval{{Start: start, End: end, State: model.LinkAvailable}}
}
