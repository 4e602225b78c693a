package serviceImp

import (
	"eaadss/entities"
	"eaadss/pkg/soil"
	repo "eaadss/pkg/soiltest/repository"
	"eaadss/pkg/soiltest/service"
)

type soilTestSvc struct{ r repo.SoilTestRepository }

func NewSoilTestService(r repo.SoilTestRepository) service.SoilTestService { return &soilTestSvc{r} }

func (s *soilTestSvc) Record(fieldID, assessmentID uint, in soil.Test) (*entities.SoilTest, error) {
	ph, som, err := in.Resolve()
	if err != nil {
		return nil, err
	}
	t := &entities.SoilTest{
		FieldID:      fieldID,
		AssessmentID: assessmentID,
		PHRange:      ph.Key,
		SOMRating:    som.Key,
		PH:           ph.Value,
		SOMPct:       som.Value,
	}
	if err := s.r.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *soilTestSvc) ListByField(sid string, fieldID uint) ([]entities.SoilTest, error) {
	return s.r.ListByField(fieldID, sid)
}
