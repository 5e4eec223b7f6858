package pan

import "fmt"

// KmPerDegree is the approximate great-circle length of one degree of
// latitude, used for the degree-based radius approximation.
const KmPerDegree = 111.0

// GeoShape is the kind of geographic constraint.
type GeoShape string

// Geographic shape constants.
const (
	ShapeBoundingBox GeoShape = "bbox"
	ShapePointRadius GeoShape = "point_radius"
	ShapePolygon     GeoShape = "polygon"
	ShapeAdminUnit   GeoShape = "admin_unit"
)

// Geographic is a canonical geographic filter: exactly one shape.
type Geographic struct {
	shape GeoShape

	minLon, minLat, maxLon, maxLat float64
	area                           float64

	lat, lon, radiusKm float64

	adminUnit string
}

// NewBoundingBox canonicalizes a [minLon,minLat,maxLon,maxLat] box.
func NewBoundingBox(minLon, minLat, maxLon, maxLat float64) (Geographic, error) {
	if minLon >= maxLon {
		return Geographic{}, fmt.Errorf("bbox minLon %g must be less than maxLon %g", minLon, maxLon)
	}
	if minLat >= maxLat {
		return Geographic{}, fmt.Errorf("bbox minLat %g must be less than maxLat %g", minLat, maxLat)
	}
	if !validCoords(minLat, minLon) || !validCoords(maxLat, maxLon) {
		return Geographic{}, fmt.Errorf("bbox corners out of range")
	}
	return Geographic{
		shape:  ShapeBoundingBox,
		minLon: minLon, minLat: minLat, maxLon: maxLon, maxLat: maxLat,
		area: (maxLon - minLon) * (maxLat - minLat),
	}, nil
}

// NewPointRadius canonicalizes a center point with a radius in kilometers.
func NewPointRadius(lat, lon, radiusKm float64) (Geographic, error) {
	if !validCoords(lat, lon) {
		return Geographic{}, fmt.Errorf("center lat %g / lon %g out of range", lat, lon)
	}
	if radiusKm <= 0 {
		return Geographic{}, fmt.Errorf("radius must be positive, got %g", radiusKm)
	}
	return Geographic{shape: ShapePointRadius, lat: lat, lon: lon, radiusKm: radiusKm}, nil
}

// NewPolygon canonicalizes a polygon ring as its bounding-box approximation.
// Points are (lon, lat) pairs; at least three are required.
func NewPolygon(points [][2]float64) (Geographic, error) {
	if len(points) < 3 {
		return Geographic{}, fmt.Errorf("polygon needs at least 3 points, got %d", len(points))
	}
	minLon, minLat := points[0][0], points[0][1]
	maxLon, maxLat := minLon, minLat
	for _, p := range points {
		if !validCoords(p[1], p[0]) {
			return Geographic{}, fmt.Errorf("polygon point lat %g / lon %g out of range", p[1], p[0])
		}
		minLon = min(minLon, p[0])
		maxLon = max(maxLon, p[0])
		minLat = min(minLat, p[1])
		maxLat = max(maxLat, p[1])
	}
	g, err := NewBoundingBox(minLon, minLat, maxLon, maxLat)
	if err != nil {
		return Geographic{}, fmt.Errorf("degenerate polygon: %w", err)
	}
	g.shape = ShapePolygon
	return g, nil
}

// NewAdminUnit canonicalizes an administrative-unit membership filter.
func NewAdminUnit(unit string) (Geographic, error) {
	if unit == "" {
		return Geographic{}, fmt.Errorf("administrative unit is required")
	}
	return Geographic{shape: ShapeAdminUnit, adminUnit: unit}, nil
}

// Shape returns the constraint kind.
func (g Geographic) Shape() GeoShape { return g.shape }

// Bounds returns the bounding box (valid for bbox and polygon shapes).
func (g Geographic) Bounds() (minLon, minLat, maxLon, maxLat float64) {
	return g.minLon, g.minLat, g.maxLon, g.maxLat
}

// Area returns the box area in square degrees (0 for other shapes).
func (g Geographic) Area() float64 { return g.area }

// Center returns the center point (valid for point_radius).
func (g Geographic) Center() (lat, lon float64) { return g.lat, g.lon }

// RadiusKm returns the radius in kilometers (valid for point_radius).
func (g Geographic) RadiusKm() float64 { return g.radiusKm }

// RadiusDegrees returns the radius converted at 111 km/degree.
func (g Geographic) RadiusDegrees() float64 { return g.radiusKm / KmPerDegree }

// AdminUnit returns the administrative unit name (valid for admin_unit).
func (g Geographic) AdminUnit() string { return g.adminUnit }

func validCoords(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
