package entities

import "time"

// Field is a location a grower selected on the map: either a clicked point or
// a drawn boundary. Lat/Lon hold the point or the boundary centroid.
type Field struct {
	FieldID      uint      `gorm:"primaryKey" json:"field_id"`
	SessionID    string    `gorm:"index" json:"-"`
	Mode         string    `json:"mode"` // point|polygon
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	AreaHa       *float64  `json:"area_ha,omitempty"`
	GeometryJSON string    `json:"geometry,omitempty"`
	EstSOM       float64   `json:"est_som_pct"`
	EstDepthCM   int       `json:"est_depth_cm"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	ModePoint   = "point"
	ModePolygon = "polygon"
)
