package panfilter

import (
	"fmt"

	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/navquery"
)

// GeoStrategy is the closed set of geographic strategies.
type GeoStrategy int

// Geographic strategies.
const (
	// GeoPointRadius approximates a circle as a degree box (111 km/degree).
	GeoPointRadius GeoStrategy = iota
	// GeoBoundingBox matches the box exactly.
	GeoBoundingBox
	// GeoPolygon matches the polygon's bounding-box approximation.
	GeoPolygon
	// GeoAdminUnit matches administrative-unit membership.
	GeoAdminUnit
)

func (s GeoStrategy) String() string {
	switch s {
	case GeoPointRadius:
		return "point_radius"
	case GeoBoundingBox:
		return "bounding_box"
	case GeoPolygon:
		return "polygon"
	case GeoAdminUnit:
		return "admin_unit"
	}
	panic(fmt.Sprintf("panfilter: unknown geo strategy %d", int(s)))
}

func geoStrategyFor(shape pan.GeoShape) GeoStrategy {
	switch shape {
	case pan.ShapePointRadius:
		return GeoPointRadius
	case pan.ShapeBoundingBox:
		return GeoBoundingBox
	case pan.ShapePolygon:
		return GeoPolygon
	case pan.ShapeAdminUnit:
		return GeoAdminUnit
	}
	panic(fmt.Sprintf("panfilter: unknown geo shape %q", shape))
}

func (f *Filterer) applyGeographic(g pan.Geographic) Result {
	strategy := geoStrategyFor(g.Shape())

	var (
		fragment    navquery.Fragment
		selectivity float64
	)

	switch strategy {
	case GeoPointRadius:
		lat, lon := g.Center()
		r := g.RadiusDegrees()
		fragment = boxFragment(lon-r, lat-r, lon+r, lat+r)
		selectivity = (2 * r) * (2 * r) / f.cfg.GeoAreaDenominator

	case GeoBoundingBox, GeoPolygon:
		minLon, minLat, maxLon, maxLat := g.Bounds()
		fragment = boxFragment(minLon, minLat, maxLon, maxLat)
		selectivity = g.Area() / f.cfg.GeoAreaDenominator

	case GeoAdminUnit:
		fragment = navquery.TagMatch{Field: FieldAdminUnit, Values: []string{g.AdminUnit()}}
		selectivity = f.cfg.AdminUnitSelectivity

	default:
		panic(fmt.Sprintf("panfilter: unknown geo strategy %d", int(strategy)))
	}

	return Result{
		Dimension:    pan.DimGeographic,
		StrategyUsed: strategy.String(),
		Fragment:     fragment,
		Selectivity:  clampSelectivity(selectivity),
	}
}

func boxFragment(minLon, minLat, maxLon, maxLat float64) navquery.Fragment {
	return navquery.And{Parts: []navquery.Fragment{
		navquery.Bounded(FieldLon, minLon, maxLon),
		navquery.Bounded(FieldLat, minLat, maxLat),
	}}
}
