package service

import (
	"eaadss/entities"
	"eaadss/pkg/soil"
)

type SoilTestService interface {
	// Record maps the submitted ranges to values and stores the test.
	Record(fieldID, assessmentID uint, in soil.Test) (*entities.SoilTest, error)
	ListByField(sid string, fieldID uint) ([]entities.SoilTest, error)
}
