package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"eaadss/entities"
	"eaadss/pkg/field/repository"
	"eaadss/pkg/field/service"
	"eaadss/pkg/geo"
	"eaadss/pkg/metrics"
	"eaadss/pkg/soil"
)

type fieldSvc struct {
	r      repository.FieldRepository
	region *geo.Region
	est    soil.Estimator
	m      *metrics.Metrics
}

func NewFieldService(r repository.FieldRepository, region *geo.Region, est soil.Estimator, m *metrics.Metrics) service.FieldService {
	return &fieldSvc{r: r, region: region, est: est, m: m}
}

func (s *fieldSvc) Region() *geo.Region { return s.region }

func (s *fieldSvc) Locate(ctx context.Context, sid string, in service.LocationInput) (*entities.Field, error) {
	f, err := s.resolve(in)
	if err != nil {
		s.m.LocationRejected(rejectReason(err))
		zerolog.Ctx(ctx).Info().Err(err).Msg("[field] location rejected")
		return nil, err
	}

	est := s.est.Predict(f.Lat, f.Lon)
	s.m.Predicted()
	f.SessionID = sid
	f.EstSOM = est.SOM
	f.EstDepthCM = est.DepthCM

	if err := s.r.Create(f); err != nil {
		return nil, fmt.Errorf("save field: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Uint("field_id", f.FieldID).Str("mode", f.Mode).
		Float64("som", est.SOM).Int("depth_cm", est.DepthCM).Msg("[field] located")
	return f, nil
}

func (s *fieldSvc) resolve(in service.LocationInput) (*entities.Field, error) {
	if in.HasDrawing() {
		g, err := geo.ParseDrawing(in.Drawing)
		if err != nil {
			return nil, err
		}
		c := geo.Centroid(g)
		if !s.region.Contains(c.Lat, c.Lon) {
			return nil, fmt.Errorf("%w: drawing centroid %.4f, %.4f", service.ErrOutOfBounds, c.Lat, c.Lon)
		}
		area := geo.RoundTo(geo.AreaHectares(g), 1)
		raw, err := geojson.NewGeometry(g).MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", geo.ErrInvalidGeometry, err)
		}
		return &entities.Field{Mode: entities.ModePolygon, Lat: c.Lat, Lon: c.Lon, AreaHa: &area, GeometryJSON: string(raw)}, nil
	}

	if in.Lat == nil || in.Lon == nil {
		return nil, service.ErrNoLocation
	}
	lat, lon := *in.Lat, *in.Lon
	if math.IsNaN(lat) || math.IsNaN(lon) || !s.region.Contains(lat, lon) {
		return nil, fmt.Errorf("%w: point %.4f, %.4f", service.ErrOutOfBounds, lat, lon)
	}
	return &entities.Field{Mode: entities.ModePoint, Lat: lat, Lon: lon}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, service.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, service.ErrNoLocation):
		return "missing"
	case errors.Is(err, geo.ErrUnsupportedGeometry):
		return "unsupported_geometry"
	default:
		return "invalid_geometry"
	}
}

func (s *fieldSvc) Get(sid string, id uint) (*entities.Field, error) {
	f, err := s.r.FindByID(id, sid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrNotFound
	}
	return f, err
}

func (s *fieldSvc) List(sid string) ([]entities.Field, error) { return s.r.ListBySession(sid) }
