// Package route supplies the planned-flight position feed the timeline engine
// consumes: time-ordered lat/lon samples, interpolation, and projection of
// off-route points onto the route. The engine only sees this package through
// its RouteProvider interface, so alternative providers (live flight plans,
// recorded tracks) can be dropped in.
package route

import (
	"fmt"
	"math"
	"time"
)

const earthRadiusKm = 6371.0

// MaxProjectionKm bounds how far an off-route point may sit from the route
// and still be projected onto it. Beyond this the point is considered
// unplaceable and projection fails.
const MaxProjectionKm = 500.0

// Sample is one planned route fix.
type Sample struct {
	Time     time.Time `json:"time"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	Waypoint string    `json:"waypoint,omitempty"`
}

// Route is an ordered sequence of samples covering the mission window.
type Route struct {
	samples []Sample
}

// New validates and wraps the given samples. At least two samples are needed
// and times must be strictly increasing.
func New(samples []Sample) (*Route, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("route: need at least 2 samples, got %d", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if !samples[i].Time.After(samples[i-1].Time) {
			return nil, fmt.Errorf("route: sample %d time %s is not after sample %d time %s",
				i, samples[i].Time.Format(time.RFC3339), i-1, samples[i-1].Time.Format(time.RFC3339))
		}
	}
	return &Route{samples: append([]Sample(nil), samples...)}, nil
}

// Window returns the route's time extent [start, end].
func (r *Route) Window() (time.Time, time.Time) {
	return r.samples[0].Time, r.samples[len(r.samples)-1].Time
}

// Samples returns a copy of the underlying samples.
func (r *Route) Samples() []Sample {
	return append([]Sample(nil), r.samples...)
}

// PositionAt linearly interpolates the platform position at time t. Times
// outside the window clamp to the first/last sample.
func (r *Route) PositionAt(t time.Time) (lat, lon float64, err error) {
	first, last := r.samples[0], r.samples[len(r.samples)-1]
	if !t.After(first.Time) {
		return first.Lat, first.Lon, nil
	}
	if !t.Before(last.Time) {
		return last.Lat, last.Lon, nil
	}

	// Find the bracketing pair; routes are short enough that a linear scan
	// is fine.
	for i := 1; i < len(r.samples); i++ {
		a, b := r.samples[i-1], r.samples[i]
		if t.After(b.Time) {
			continue
		}
		span := b.Time.Sub(a.Time).Seconds()
		frac := t.Sub(a.Time).Seconds() / span
		return a.Lat + (b.Lat-a.Lat)*frac, a.Lon + (b.Lon-a.Lon)*frac, nil
	}
	return last.Lat, last.Lon, nil
}

// ProjectPoint places an off-route point onto the route, returning the route
// time at the closest approach and the progress fraction through the mission
// window. Points further than MaxProjectionKm from the route fail.
func (r *Route) ProjectPoint(lat, lon float64) (time.Time, float64, error) {
	bestDist := math.Inf(1)
	bestTime := r.samples[0].Time

	for i := 1; i < len(r.samples); i++ {
		a, b := r.samples[i-1], r.samples[i]
		t, d := closestOnSegment(lat, lon, a, b)
		if d < bestDist {
			bestDist = d
			bestTime = t
		}
	}

	if bestDist > MaxProjectionKm {
		return time.Time{}, 0, fmt.Errorf("route: point (%.4f, %.4f) is %.0f km from the route, max %v km",
			lat, lon, bestDist, MaxProjectionKm)
	}

	start, end := r.Window()
	frac := bestTime.Sub(start).Seconds() / end.Sub(start).Seconds()
	return bestTime, frac, nil
}

// WaypointSpan resolves a named waypoint pair to the route times of the two
// fixes, for placing AAR windows.
func (r *Route) WaypointSpan(startName, endName string) (time.Time, time.Time, error) {
	var start, end time.Time
	var haveStart, haveEnd bool
	for _, s := range r.samples {
		if !haveStart && s.Waypoint == startName {
			start, haveStart = s.Time, true
		}
		if !haveEnd && s.Waypoint == endName {
			end, haveEnd = s.Time, true
		}
	}
	if !haveStart {
		return time.Time{}, time.Time{}, fmt.Errorf("route: waypoint %q not found", startName)
	}
	if !haveEnd {
		return time.Time{}, time.Time{}, fmt.Errorf("route: waypoint %q not found", endName)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("route: waypoint %q is not after %q", endName, startName)
	}
	return start, end, nil
}

// closestOnSegment projects the point onto the segment a-b in a local
// equirectangular plane and returns the interpolated route time plus the
// distance in kilometres. Adequate for segment lengths flown between fixes;
// great-circle precision is not needed for projection.
func closestOnSegment(lat, lon float64, a, b Sample) (time.Time, float64) {
	meanLat := (a.Lat + b.Lat) / 2 * math.Pi / 180
	kx := math.Cos(meanLat) // longitude scale at this latitude

	ax, ay := a.Lon*kx, a.Lat
	bx, by := b.Lon*kx, b.Lat
	px, py := lon*kx, lat

	dx, dy := bx-ax, by-ay
	segLen2 := dx*dx + dy*dy

	frac := 0.0
	if segLen2 > 0 {
		frac = ((px-ax)*dx + (py-ay)*dy) / segLen2
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
	}

	cx, cy := ax+dx*frac, ay+dy*frac
	distDeg := math.Sqrt((px-cx)*(px-cx) + (py-cy)*(py-cy))
	distKm := distDeg * math.Pi / 180 * earthRadiusKm

	span := b.Time.Sub(a.Time).Seconds()
	at := a.Time.Add(time.Duration(frac * span * float64(time.Second)))
	return at, distKm
}
