package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var (
	ErrInvalidGeometry     = errors.New("invalid geometry")
	ErrUnsupportedGeometry = errors.New("only Polygon and MultiPolygon drawings are supported")
)

// ParseDrawing accepts a GeoJSON geometry, Feature or FeatureCollection. For
// a collection the last polygonal feature wins, as with a redrawn boundary.
func ParseDrawing(raw []byte) (orb.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}

	var g orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
		}
		for i := len(fc.Features) - 1; i >= 0; i-- {
			if isPolygonal(fc.Features[i].Geometry) {
				g = fc.Features[i].Geometry
				break
			}
		}
		if g == nil {
			return nil, ErrUnsupportedGeometry
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
		}
		g = f.Geometry
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrInvalidGeometry)
	default:
		gg, err := geojson.UnmarshalGeometry(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
		}
		g = gg.Geometry()
	}

	if !isPolygonal(g) {
		return nil, ErrUnsupportedGeometry
	}
	if err := validatePolygonal(g); err != nil {
		return nil, err
	}
	return g, nil
}

func isPolygonal(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return true
	}
	return false
}

func validatePolygonal(g orb.Geometry) error {
	var polys []orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{v}
	case orb.MultiPolygon:
		polys = v
	}
	if len(polys) == 0 {
		return fmt.Errorf("%w: empty polygon", ErrInvalidGeometry)
	}
	for _, p := range polys {
		if len(p) == 0 || len(p[0]) < 4 {
			return fmt.Errorf("%w: ring needs at least 4 positions", ErrInvalidGeometry)
		}
	}
	return nil
}

// Centroid is the area-weighted planar centroid in lon/lat space.
func Centroid(g orb.Geometry) LatLon {
	c, _ := planar.CentroidArea(g)
	return LatLon{Lat: c.Lat(), Lon: c.Lon()}
}

// AreaHectares projects the geometry to UTM zone 17N and returns its area.
func AreaHectares(g orb.Geometry) float64 {
	var polys []orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{v}
	case orb.MultiPolygon:
		polys = v
	default:
		return 0
	}

	var m2 float64
	for _, p := range polys {
		for i, ring := range p {
			a := math.Abs(projectedRingArea(ring))
			if i == 0 {
				m2 += a
			} else {
				m2 -= a
			}
		}
	}
	return m2 / 10000
}

func projectedRingArea(r orb.Ring) float64 {
	proj := make(orb.Ring, len(r))
	for i, p := range r {
		e, n := ToUTM17N(p.Lon(), p.Lat())
		proj[i] = orb.Point{e, n}
	}
	return signedArea(closeRing(proj))
}

// RoundTo rounds v to the given number of decimals, half away from zero.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
