package geo

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyRegion    = errors.New("boundary contains no polygons")
	ErrUnsupportedCRS = errors.New("unsupported boundary coordinate system")
)

//go:embed eaa_boundary.geojson
var defaultBoundary []byte

// LatLon is a WGS84 coordinate in degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Region is the unioned study-area outline, always held in WGS84 lon/lat.
type Region struct {
	Name  string
	shape orb.MultiPolygon
	bound orb.Bound
}

func NewRegion(name string, mp orb.MultiPolygon) (*Region, error) {
	if len(mp) == 0 {
		return nil, ErrEmptyRegion
	}
	return &Region{Name: name, shape: mp, bound: mp.Bound()}, nil
}

// LoadRegion reads a .shp or .geojson/.json boundary. An empty path loads the
// embedded approximate EAA outline.
func LoadRegion(path string) (*Region, error) {
	if strings.TrimSpace(path) == "" {
		log.Warn().Msg("[geo] BOUNDARY_PATH not set, using embedded approximate EAA outline")
		mp, err := multiPolygonFromGeoJSON(defaultBoundary)
		if err != nil {
			return nil, fmt.Errorf("embedded boundary: %w", err)
		}
		return NewRegion("EAA Boundary", mp)
	}

	var (
		mp  orb.MultiPolygon
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		mp, err = readShapefile(path)
	case ".geojson", ".json":
		var b []byte
		if b, err = os.ReadFile(path); err == nil {
			mp, err = multiPolygonFromGeoJSON(b)
		}
	default:
		err = fmt.Errorf("unsupported boundary file %q", path)
	}
	if err != nil {
		return nil, fmt.Errorf("load boundary %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("polygons", len(mp)).Msg("[geo] boundary loaded")
	return NewRegion("EAA Boundary", mp)
}

func (r *Region) Contains(lat, lon float64) bool {
	pt := orb.Point{lon, lat}
	if !r.bound.Contains(pt) {
		return false
	}
	return planar.MultiPolygonContains(r.shape, pt)
}

func (r *Region) Center() LatLon {
	c, _ := planar.CentroidArea(r.shape)
	return LatLon{Lat: c.Lat(), Lon: c.Lon()}
}

// Bounds is (min lon, min lat, max lon, max lat).
func (r *Region) Bounds() [4]float64 {
	return [4]float64{r.bound.Min.Lon(), r.bound.Min.Lat(), r.bound.Max.Lon(), r.bound.Max.Lat()}
}

func (r *Region) Shape() orb.MultiPolygon { return r.shape }

func (r *Region) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(r.shape)
	f.Properties["name"] = r.Name
	fc.Append(f)
	return fc
}

func multiPolygonFromGeoJSON(b []byte) (orb.MultiPolygon, error) {
	var geoms []orb.Geometry
	if fc, err := geojson.UnmarshalFeatureCollection(b); err == nil && fc.Type == "FeatureCollection" {
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	} else if f, err := geojson.UnmarshalFeature(b); err == nil && f.Type == "Feature" {
		geoms = append(geoms, f.Geometry)
	} else {
		g, err := geojson.UnmarshalGeometry(b)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, g.Geometry())
	}

	var mp orb.MultiPolygon
	for _, g := range geoms {
		switch v := g.(type) {
		case orb.Polygon:
			mp = append(mp, v)
		case orb.MultiPolygon:
			mp = append(mp, v...)
		}
	}
	if len(mp) == 0 {
		return nil, ErrEmptyRegion
	}
	return mp, nil
}

func readShapefile(path string) (orb.MultiPolygon, error) {
	projected, err := shapefileIsUTM17N(path)
	if err != nil {
		return nil, err
	}

	rd, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	var mp orb.MultiPolygon
	for rd.Next() {
		_, shape := rd.Shape()
		parts, points, ok := polygonParts(shape)
		if !ok {
			continue
		}
		rings := make([]orb.Ring, 0, len(parts))
		for i, start := range parts {
			end := int32(len(points))
			if i+1 < len(parts) {
				end = parts[i+1]
			}
			ring := make(orb.Ring, 0, end-start)
			for _, p := range points[start:end] {
				x, y := p.X, p.Y
				if projected {
					x, y = FromUTM17N(x, y)
				} else if math.Abs(x) > 180 || math.Abs(y) > 90 {
					return nil, fmt.Errorf("%w: projected coordinates without a UTM 17N .prj", ErrUnsupportedCRS)
				}
				ring = append(ring, orb.Point{x, y})
			}
			rings = append(rings, closeRing(ring))
		}
		mp = append(mp, assemblePolygons(rings)...)
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	if len(mp) == 0 {
		return nil, ErrEmptyRegion
	}
	return mp, nil
}

func polygonParts(s shp.Shape) ([]int32, []shp.Point, bool) {
	switch p := s.(type) {
	case *shp.Polygon:
		return p.Parts, p.Points, true
	case *shp.PolygonZ:
		return p.Parts, p.Points, true
	case *shp.PolygonM:
		return p.Parts, p.Points, true
	}
	return nil, nil, false
}

// shapefileIsUTM17N inspects the .prj sidecar. No sidecar means geographic.
func shapefileIsUTM17N(path string) (bool, error) {
	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	b, err := os.ReadFile(prj)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	wkt := strings.ToUpper(string(b))
	switch {
	case strings.HasPrefix(wkt, "GEOGCS") || strings.HasPrefix(wkt, "GEOGCRS"):
		return false, nil
	case strings.Contains(wkt, "UTM") && strings.Contains(wkt, "17N"):
		return true, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnsupportedCRS, strings.SplitN(string(b), ",", 2)[0])
}

// assemblePolygons groups shapefile rings: clockwise rings open a new polygon,
// counter-clockwise rings are holes of the polygon before them.
func assemblePolygons(rings []orb.Ring) []orb.Polygon {
	var out []orb.Polygon
	for _, r := range rings {
		if len(r) < 4 {
			continue
		}
		if signedArea(r) < 0 || len(out) == 0 {
			out = append(out, orb.Polygon{r})
			continue
		}
		out[len(out)-1] = append(out[len(out)-1], r)
	}
	return out
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && !r[0].Equal(r[len(r)-1]) {
		r = append(r, r[0])
	}
	return r
}

// signedArea is positive for counter-clockwise rings.
func signedArea(r orb.Ring) float64 {
	var s float64
	for i := 0; i+1 < len(r); i++ {
		s += r[i][0]*r[i+1][1] - r[i+1][0]*r[i][1]
	}
	return s / 2
}
