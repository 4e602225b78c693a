package entities

import "time"

type SoilTest struct {
	SoilTestID   uint      `gorm:"primaryKey" json:"soil_test_id"`
	FieldID      uint      `gorm:"index" json:"field_id"`
	AssessmentID uint      `gorm:"index" json:"assessment_id"`
	PHRange      string    `json:"ph_range"`
	SOMRating    string    `json:"som_rating"`
	PH           float64   `json:"ph"`
	SOMPct       float64   `json:"som_pct"`
	CreatedAt    time.Time `json:"created_at"`
}
