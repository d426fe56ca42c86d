package core

import (
	"fmt"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/comm-planner/model"
)

// TLE is one two-line element set for a Ku constellation member.
type TLE struct {
	Name  string `json:"name"`
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// LEOSet propagates a handful of Ku constellation members with SGP4 so the
// planner can sanity-check the "Ku is always available" assumption along the
// route. The check is advisory only: it reports stretches where no member
// clears the elevation floor as diagnostics and never alters the Ku link
// state.
type LEOSet struct {
	names []string
	sats  []satellite.Satellite
}

// NewLEOSet parses the given TLEs. An empty input returns a nil set, which
// disables the check.
func NewLEOSet(tles []TLE) (*LEOSet, error) {
	if len(tles) == 0 {
		return nil, nil
	}
	set := &LEOSet{}
	for i, tle := range tles {
		if tle.Line1 == "" || tle.Line2 == "" {
			return nil, fmt.Errorf("leo: TLE %d (%s) is incomplete", i, tle.Name)
		}
		set.names = append(set.names, tle.Name)
		set.sats = append(set.sats, satellite.TLEToSat(tle.Line1, tle.Line2, satellite.GravityWGS72))
	}
	return set, nil
}

// VisibilityDiagnostics samples the route at the given cadence and reports
// every stretch where no constellation member is above minElevationDeg.
func (s *LEOSet) VisibilityDiagnostics(route RouteProvider, opts SamplerOptions) []model.Diagnostic {
	if s == nil || len(s.sats) == 0 || route == nil {
		return nil
	}
	opts = opts.withDefaults()

	start, end := route.Window()
	var diags []model.Diagnostic
	var gapStart time.Time
	inGap := false

	for t := start; !t.After(end); t = t.Add(opts.Cadence) {
		lat, lon, err := route.PositionAt(t)
		if err != nil {
			continue
		}
		visible := s.anyVisible(t, lat, lon, opts.PlatformAltM, opts.MinElevationDeg)
		if !visible && !inGap {
			gapStart, inGap = t, true
		}
		if visible && inGap {
			diags = append(diags, kuVisibilityDiag(gapStart, t, opts.MinElevationDeg))
			inGap = false
		}
	}
	if inGap {
		diags = append(diags, kuVisibilityDiag(gapStart, end, opts.MinElevationDeg))
	}
	return diags
}

func (s *LEOSet) anyVisible(t time.Time, lat, lon, altM, minElevationDeg float64) bool {
	observer, err := ECEFFromGeodetic(lat, lon, altM)
	if err != nil {
		return true // bad observer input is someone else's diagnostic
	}

	year, month, day := t.UTC().Date()
	hour, min, sec := t.UTC().Clock()
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)

	for _, sat := range s.sats {
		posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
		posECEF := satellite.ECIToECEF(posECI, gmst)

		const kmToM = 1000.0
		target := Vec3{X: posECEF.X * kmToM, Y: posECEF.Y * kmToM, Z: posECEF.Z * kmToM}
		if ElevationDegrees(observer, target) >= minElevationDeg {
			return true
		}
	}
	return false
}

func kuVisibilityDiag(from, to time.Time, minElevationDeg float64) model.Diagnostic {
	return model.Diagnostic{
		Severity: model.AdvisoryInfo,
		Code:     DiagKuConstellation,
		Message: fmt.Sprintf("no Ku constellation member above %.0f deg between %s and %s",
			minElevationDeg, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339)),
	}
}
