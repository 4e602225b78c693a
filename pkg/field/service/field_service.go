package service

import (
	"context"
	"encoding/json"
	"errors"

	"eaadss/entities"
	"eaadss/pkg/geo"
)

var (
	ErrOutOfBounds = errors.New("selected location is outside the EAA boundary")
	ErrNoLocation  = errors.New("location needs lat and lon or a drawing")
	ErrNotFound    = errors.New("field not found")
)

// LocationInput is either a clicked point or a drawn boundary. A drawing
// wins when both are present.
type LocationInput struct {
	Lat     *float64        `json:"lat,omitempty"`
	Lon     *float64        `json:"lon,omitempty"`
	Drawing json.RawMessage `json:"drawing,omitempty"`
}

func (in LocationInput) HasDrawing() bool {
	return len(in.Drawing) > 0 && string(in.Drawing) != "null"
}

type FieldService interface {
	Locate(ctx context.Context, sid string, in LocationInput) (*entities.Field, error)
	Get(sid string, id uint) (*entities.Field, error)
	List(sid string) ([]entities.Field, error)
	Region() *geo.Region
}
