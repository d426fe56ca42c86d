package catalog

import (
	"encoding/json"
	"fmt"
	"io"
)

// internal JSON shapes for the GeoJSON-flavoured catalog file - kept
// unexported so we are free to evolve them.
type catalogJSON struct {
	Type     string        `json:"type"`
	Defaults defaultsJSON  `json:"defaults"`
	Features []featureJSON `json:"features"`
}

type defaultsJSON struct {
	XSatellite   string   `json:"x_satellite"`
	KaSatellites []string `json:"ka_satellites"`
}

type featureJSON struct {
	Type       string         `json:"type"`
	Properties propertiesJSON `json:"properties"`
	Geometry   geometryJSON   `json:"geometry"`
}

type propertiesJSON struct {
	SatelliteID string   `json:"satellite_id"`
	CentroidLon *float64 `json:"centroid_lon"`
}

type geometryJSON struct {
	Type string `json:"type"`
	// GeoJSON Polygon rings: [ring][vertex][lon, lat].
	Coordinates [][][]float64 `json:"coordinates"`
}

// LoadSnapshot parses a coverage-catalog file. Malformed features are skipped
// and reported as warnings; the satellite they belong to simply contributes no
// coverage. Only an unreadable or structurally broken document is an error.
func LoadSnapshot(r io.Reader) (*Snapshot, []error, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc catalogJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse catalog: %w", err)
	}
	if doc.Type != "" && doc.Type != "FeatureCollection" {
		return nil, nil, fmt.Errorf("parse catalog: unexpected document type %q", doc.Type)
	}

	snapshot := &Snapshot{
		DefaultXSatellite:   doc.Defaults.XSatellite,
		DefaultKaSatellites: append([]string(nil), doc.Defaults.KaSatellites...),
	}

	var warnings []error
	for i, feature := range doc.Features {
		fp, err := footprintFromFeature(feature)
		if err != nil {
			warnings = append(warnings, &Error{
				SatelliteID: feature.Properties.SatelliteID,
				Err:         fmt.Errorf("feature %d: %w", i, err),
			})
			continue
		}
		snapshot.Footprints = append(snapshot.Footprints, fp)
	}
	return snapshot, warnings, nil
}

func footprintFromFeature(feature featureJSON) (Footprint, error) {
	if feature.Properties.SatelliteID == "" {
		return Footprint{}, fmt.Errorf("missing satellite_id")
	}
	if feature.Geometry.Type != "Polygon" {
		return Footprint{}, fmt.Errorf("unsupported geometry type %q", feature.Geometry.Type)
	}
	if len(feature.Geometry.Coordinates) == 0 {
		return Footprint{}, fmt.Errorf("polygon has no rings")
	}

	rings := make([][]Vertex, 0, len(feature.Geometry.Coordinates))
	for r, rawRing := range feature.Geometry.Coordinates {
		ring, err := ringFromCoordinates(rawRing)
		if err != nil {
			return Footprint{}, fmt.Errorf("ring %d: %w", r, err)
		}
		rings = append(rings, ring)
	}

	fp := Footprint{
		SatelliteID: feature.Properties.SatelliteID,
		Rings:       rings,
	}
	if feature.Properties.CentroidLon != nil {
		fp.CentroidLon = *feature.Properties.CentroidLon
	} else {
		fp.CentroidLon = meanLongitude(rings[0])
	}
	return fp, nil
}

func ringFromCoordinates(raw [][]float64) ([]Vertex, error) {
	// GeoJSON rings repeat the first vertex at the end; drop the repeat so
	// point-in-polygon can treat the ring as implicitly closed.
	if n := len(raw); n >= 2 && len(raw[0]) >= 2 && len(raw[n-1]) >= 2 &&
		raw[0][0] == raw[n-1][0] && raw[0][1] == raw[n-1][1] {
		raw = raw[:n-1]
	}
	if len(raw) < 3 {
		return nil, fmt.Errorf("ring has %d distinct vertices, need at least 3", len(raw))
	}

	ring := make([]Vertex, 0, len(raw))
	for i, pair := range raw {
		if len(pair) < 2 {
			return nil, fmt.Errorf("vertex %d has %d coordinates", i, len(pair))
		}
		lon, lat := pair[0], pair[1]
		if lat < -90 || lat > 90 {
			return nil, fmt.Errorf("vertex %d latitude %v out of range", i, lat)
		}
		ring = append(ring, Vertex{Lat: lat, Lon: lon})
	}
	return ring, nil
}

func meanLongitude(ring []Vertex) float64 {
	if len(ring) == 0 {
		return 0
	}
	var sum float64
	for _, v := range ring {
		sum += v.Lon
	}
	return sum / float64(len(ring))
}
