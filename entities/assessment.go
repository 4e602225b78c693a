package entities

import "time"

// Assessment is one pass through the guided workflow for a session.
type Assessment struct {
	AssessmentID uint   `gorm:"primaryKey" json:"assessment_id"`
	SessionID    string `gorm:"index" json:"-"`
	Step         int    `json:"step"`
	StepName     string `gorm:"-" json:"step_name"`

	FieldID *uint  `gorm:"index" json:"field_id,omitempty"`
	Field   *Field `gorm:"foreignKey:FieldID;references:FieldID" json:"field,omitempty"`

	SoilSource string  `json:"soil_source,omitempty"` // model|soil_test
	DisplayPH  float64 `json:"display_ph"`
	DisplaySOM float64 `json:"display_som_pct"`

	Crop       string `json:"crop"`
	FarmSizeHa int    `json:"farm_size_ha"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	SoilFromModel = "model"
	SoilFromTest  = "soil_test"
)
