package serviceImp

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"eaadss/entities"
	"eaadss/pkg/bmp"
	repo "eaadss/pkg/practice/repository"
	"eaadss/pkg/practice/service"
)

type practiceSvc struct{ r repo.PracticeRepository }

func NewPracticeService(r repo.PracticeRepository) service.PracticeService { return &practiceSvc{r} }

func (s *practiceSvc) Materialize(assessmentID uint, crop string, ps []bmp.Practice) ([]entities.PracticeItem, error) {
	items := make([]entities.PracticeItem, 0, len(ps))
	for i, p := range ps {
		items = append(items, entities.PracticeItem{
			AssessmentID: assessmentID,
			Crop:         crop,
			Ord:          i + 1,
			Title:        p.Title,
			Detail:       p.Detail,
			Status:       entities.PracticeTodo,
		})
	}
	if err := s.r.ReplaceForAssessment(assessmentID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *practiceSvc) List(sid string, assessmentID uint) ([]entities.PracticeItem, error) {
	return s.r.ListByAssessment(assessmentID, sid)
}

func (s *practiceSvc) SetStatus(sid string, practiceID uint, status string) (*entities.PracticeItem, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case entities.PracticeTodo, entities.PracticeAdopted, entities.PracticeSkipped:
	default:
		return nil, service.ErrInvalidStatus
	}
	p, err := s.r.PatchStatus(practiceID, sid, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrNotFound
	}
	return p, err
}

func (s *practiceSvc) WithTx(tx *gorm.DB) service.PracticeService {
	return &practiceSvc{s.r.WithTx(tx)}
}

func (s *practiceSvc) Clear(assessmentID uint) error { return s.r.DeleteByAssessment(assessmentID) }
