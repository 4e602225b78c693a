package types

import (
	"eaadss/entities"
	"eaadss/pkg/bmp"
	"eaadss/pkg/soil"
)

// Workflow steps.
const (
	StepLocation    = 1
	StepSoilInput   = 2
	StepDiagnostics = 3
	StepCropPlan    = 4
	StepProtocols   = 5
)

var StepNames = map[int]string{
	StepLocation:    "Select Location",
	StepSoilInput:   "Soil Input",
	StepDiagnostics: "Soil Diagnostics",
	StepCropPlan:    "Crop Planning",
	StepProtocols:   "Management Protocols",
}

const (
	MinFarmSizeHa     = 1
	MaxFarmSizeHa     = 500000
	DefaultFarmSizeHa = 100
	DefaultCrop       = "Sugarcane"
)

// SoilInput either confirms the model estimate or supplies a soil test.
type SoilInput struct {
	HasTest bool `json:"has_test"`
	soil.Test
}

type CropInput struct {
	Crop       string `json:"crop"`
	FarmSizeHa *int   `json:"farm_size_ha,omitempty"`
}

// Report is the management protocol shown at the end of an assessment.
type Report struct {
	AssessmentID uint     `json:"assessment_id,omitempty"`
	Location     string   `json:"location"`
	Mode         string   `json:"mode"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	AreaHa       *float64 `json:"area_ha,omitempty"`

	SoilSource string        `json:"soil_source"`
	PH         float64       `json:"ph"`
	SOMPct     float64       `json:"som_pct"`
	DepthCM    int           `json:"depth_cm"`
	DepthClass string        `json:"depth_class"`
	Diagnosis  bmp.Diagnosis `json:"diagnosis"`

	Crop       string         `json:"crop"`
	FarmSizeHa int            `json:"farm_size_ha"`
	Practices  []bmp.Practice `json:"practices"`

	CarbonCredits float64 `json:"carbon_credits_t_yr"`
	CarsPerHa     float64 `json:"cars_offset_per_ha"`
	CO2Released   float64 `json:"co2_released_t_yr"`

	Summary  string                `json:"summary_md"`
	Articles []entities.ArticleRef `json:"articles"`
}
