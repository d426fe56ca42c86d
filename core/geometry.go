package core

import "math"

// WGS-84 ellipsoid parameters. ECEF conversion has to agree with the
// reference look-angle calculators to within 0.01 degrees, so the spherical
// shortcut is not good enough here.
const (
	wgs84A  = 6378137.0             // semi-major axis (metres)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// GeostationaryRadiusM is the orbital radius of a geostationary satellite
// measured from the Earth's centre, in metres.
const GeostationaryRadiusM = 42164000.0

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Vec3 is an ECEF vector in metres.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// NormalizeLon wraps a longitude into [-180, 180).
func NormalizeLon(lonDeg float64) float64 {
	lon := math.Mod(lonDeg+180.0, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon - 180.0
}

// ECEFFromGeodetic converts a geodetic position (degrees, metres above the
// WGS-84 ellipsoid) to ECEF metres. Latitude must lie in [-90, 90]; longitude
// is normalized into [-180, 180). Inputs must be finite.
func ECEFFromGeodetic(latDeg, lonDeg, altM float64) (Vec3, error) {
	if math.IsNaN(latDeg) || math.IsInf(latDeg, 0) || latDeg < -90 || latDeg > 90 {
		return Vec3{}, &GeometryError{Field: "latitude", Value: latDeg}
	}
	if math.IsNaN(lonDeg) || math.IsInf(lonDeg, 0) {
		return Vec3{}, &GeometryError{Field: "longitude", Value: lonDeg}
	}
	if math.IsNaN(altM) || math.IsInf(altM, 0) {
		return Vec3{}, &GeometryError{Field: "altitude", Value: altM}
	}

	lat := latDeg * degToRad
	lon := NormalizeLon(lonDeg) * degToRad

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Vec3{
		X: (n + altM) * cosLat * math.Cos(lon),
		Y: (n + altM) * cosLat * math.Sin(lon),
		Z: (n*(1-wgs84E2) + altM) * sinLat,
	}, nil
}

// GeostationaryECEF returns the ECEF position of a geostationary satellite
// parked at the given sub-satellite longitude (zero latitude, fixed orbital
// radius).
func GeostationaryECEF(subLonDeg float64) Vec3 {
	lon := NormalizeLon(subLonDeg) * degToRad
	return Vec3{
		X: GeostationaryRadiusM * math.Cos(lon),
		Y: GeostationaryRadiusM * math.Sin(lon),
	}
}

// LookAngles computes azimuth and elevation (degrees) from an observer to a
// geostationary satellite at the given sub-satellite longitude, using the SEZ
// topocentric rotation. Azimuth is measured from north, clockwise, in
// [0, 360); elevation is 0 at the geometric horizon and 90 at zenith.
func LookAngles(obsLatDeg, obsLonDeg, obsAltM, satSubLonDeg float64) (azDeg, elDeg float64, err error) {
	obs, err := ECEFFromGeodetic(obsLatDeg, obsLonDeg, obsAltM)
	if err != nil {
		return 0, 0, err
	}
	if math.IsNaN(satSubLonDeg) || math.IsInf(satSubLonDeg, 0) {
		return 0, 0, &GeometryError{Field: "satellite longitude", Value: satSubLonDeg}
	}
	sat := GeostationaryECEF(satSubLonDeg)

	r := sat.Sub(obs)

	lat := obsLatDeg * degToRad
	lon := NormalizeLon(obsLonDeg) * degToRad
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	sinLon := math.Sin(lon)
	cosLon := math.Cos(lon)

	// Rotate the ECEF range vector into South-East-Zenith axes.
	south := sinLat*cosLon*r.X + sinLat*sinLon*r.Y - cosLat*r.Z
	east := -sinLon*r.X + cosLon*r.Y
	zenith := cosLat*cosLon*r.X + cosLat*sinLon*r.Y + sinLat*r.Z

	rangeM := math.Sqrt(south*south + east*east + zenith*zenith)
	elDeg = math.Asin(zenith/rangeM) * radToDeg

	azDeg = math.Atan2(east, -south) * radToDeg
	if azDeg < 0 {
		azDeg += 360
	}
	return azDeg, elDeg, nil
}

// ElevationDegrees returns the elevation of the target as seen from the
// observer using spherical zenith geometry: 0 = geometric horizon,
// 90 = overhead. Both positions are ECEF metres. Used for the LEO visibility
// sweep, where sub-degree precision is not required.
func ElevationDegrees(observer, target Vec3) float64 {
	v := target.Sub(observer)
	vNorm := v.Norm()
	if vNorm == 0 {
		return 90
	}
	r := observer.Norm()
	if r == 0 {
		return 90
	}
	zenith := Vec3{X: observer.X / r, Y: observer.Y / r, Z: observer.Z / r}

	cosGamma := v.Dot(zenith) / vNorm
	if cosGamma > 1 {
		cosGamma = 1
	} else if cosGamma < -1 {
		cosGamma = -1
	}
	return 90.0 - math.Acos(cosGamma)*radToDeg
}
