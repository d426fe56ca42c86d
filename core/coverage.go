package core

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/signalsfoundry/comm-planner/catalog"
)

// SamplerOptions tunes the coverage sweep along the route.
type SamplerOptions struct {
	// Cadence between route samples. Defaults to 60s.
	Cadence time.Duration
	// MinElevationDeg is the elevation floor for the geometry fallback when
	// no footprint contains a sample. Defaults to 5 degrees.
	MinElevationDeg float64
	// PlatformAltM is the assumed cruise altitude used for look-angle
	// computation. Defaults to 10600 m (roughly FL350).
	PlatformAltM float64
}

func (o SamplerOptions) withDefaults() SamplerOptions {
	if o.Cadence <= 0 {
		o.Cadence = 60 * time.Second
	}
	if o.MinElevationDeg == 0 {
		o.MinElevationDeg = 5
	}
	if o.PlatformAltM == 0 {
		o.PlatformAltM = 10600
	}
	return o
}

// CoverageSample is one point of the sweep: which satellite footprint (if
// any) contained the platform, and the best fallback elevation seen when none
// did.
type CoverageSample struct {
	Time          time.Time
	SatelliteID   string // empty when out of coverage
	InCoverage    bool
	BestElevation float64 // degrees, toward the nearest candidate when out of coverage
}

// CrossoverEvent marks the route crossing a footprint boundary.
type CrossoverEvent struct {
	Time        time.Time
	SatelliteID string
	Enter       bool // true: entered coverage of SatelliteID; false: exited it
}

// CoverageTrack is the sampler's full output. The rule evaluator reads
// Samples: gap runs carry the fallback elevations it needs to grade a gap
// degraded versus offline, which the collapsed events do not. Crossovers are
// a derived summary of the same sweep, kept for trace attributes and for
// clients that want the handoff sequence without rescanning Samples.
type CoverageTrack struct {
	Samples         []CoverageSample
	Crossovers      []CrossoverEvent
	MinElevationDeg float64
}

// SampleCoverage walks the route at a fixed cadence, testing each sample
// against every footprint. Overlapping footprints resolve to the one whose
// centroid longitude is closest to the sample longitude, with the
// lexicographically smaller satellite id breaking exact ties; the choice is
// never random. When no footprint contains the sample, the geometry kernel's
// elevation test against the nearest candidate decides whether any coverage
// is plausibly in range.
func SampleCoverage(route RouteProvider, footprints []catalog.Footprint, opts SamplerOptions) (CoverageTrack, error) {
	if route == nil {
		return CoverageTrack{}, fmt.Errorf("coverage: route is required")
	}
	opts = opts.withDefaults()

	// No footprint data at all means coverage is unknown, not absent; emit
	// nothing rather than declaring the whole mission out of coverage.
	if len(footprints) == 0 {
		return CoverageTrack{MinElevationDeg: opts.MinElevationDeg}, nil
	}

	// Deterministic candidate order regardless of catalog file order.
	sorted := append([]catalog.Footprint(nil), footprints...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SatelliteID < sorted[j].SatelliteID
	})

	start, end := route.Window()
	track := CoverageTrack{MinElevationDeg: opts.MinElevationDeg}

	for t := start; !t.After(end); t = t.Add(opts.Cadence) {
		lat, lon, err := route.PositionAt(t)
		if err != nil {
			return CoverageTrack{}, fmt.Errorf("coverage: position at %s: %w", t.Format(time.RFC3339), err)
		}
		track.Samples = append(track.Samples, sampleAt(t, lat, lon, sorted, opts))
	}

	track.Crossovers = collapseCrossovers(track.Samples)
	return track, nil
}

func sampleAt(t time.Time, lat, lon float64, footprints []catalog.Footprint, opts SamplerOptions) CoverageSample {
	sample := CoverageSample{Time: t}

	bestDelta := math.Inf(1)
	for _, fp := range footprints {
		if !footprintContains(fp, lat, lon) {
			continue
		}
		delta := math.Abs(lonDelta(fp.CentroidLon, lon))
		if delta < bestDelta {
			bestDelta = delta
			sample.SatelliteID = fp.SatelliteID
			sample.InCoverage = true
		}
	}
	if sample.InCoverage {
		return sample
	}

	// No footprint covers the point: fall back to the look-angle test against
	// the nearest candidate sub-longitude.
	sample.BestElevation = -90
	nearest := math.Inf(1)
	for _, fp := range footprints {
		delta := math.Abs(lonDelta(fp.CentroidLon, lon))
		if delta >= nearest {
			continue
		}
		_, el, err := LookAngles(lat, lon, opts.PlatformAltM, fp.CentroidLon)
		if err != nil {
			continue
		}
		nearest = delta
		sample.BestElevation = el
	}
	return sample
}

// collapseCrossovers turns consecutive identical satellite ids into
// enter/exit events at the first sample where the id changed.
func collapseCrossovers(samples []CoverageSample) []CrossoverEvent {
	var events []CrossoverEvent
	prev := ""
	for i, s := range samples {
		cur := ""
		if s.InCoverage {
			cur = s.SatelliteID
		}
		if i == 0 {
			if cur != "" {
				events = append(events, CrossoverEvent{Time: s.Time, SatelliteID: cur, Enter: true})
			}
			prev = cur
			continue
		}
		if cur == prev {
			continue
		}
		if prev != "" {
			events = append(events, CrossoverEvent{Time: s.Time, SatelliteID: prev, Enter: false})
		}
		if cur != "" {
			events = append(events, CrossoverEvent{Time: s.Time, SatelliteID: cur, Enter: true})
		}
		prev = cur
	}
	return events
}

// footprintContains runs an even-odd ray cast across every ring, so holes
// toggle containment back off.
func footprintContains(fp catalog.Footprint, lat, lon float64) bool {
	inside := false
	for _, ring := range fp.Rings {
		if pointInRing(lat, lon, ring) {
			inside = !inside
		}
	}
	return inside
}

// pointInRing assumes the ring does not repeat its first vertex, and so
// includes the closing edge from the last vertex back to the first.
func pointInRing(lat, lon float64, ring []catalog.Vertex) bool {
	inside := false
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if (a.Lat <= lat && lat < b.Lat) || (b.Lat <= lat && lat < a.Lat) {
			x := a.Lon + (lat-a.Lat)*(b.Lon-a.Lon)/(b.Lat-a.Lat)
			if x > lon {
				inside = !inside
			}
		}
	}
	return inside
}

// lonDelta returns the signed shortest angular difference a-b in degrees.
func lonDelta(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}
