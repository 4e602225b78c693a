package repository

import (
	"gorm.io/gorm"

	"eaadss/entities"
)

type PracticeRepository interface {
	// ReplaceForAssessment drops any earlier rows for the assessment and
	// inserts items in one transaction.
	ReplaceForAssessment(assessmentID uint, items []entities.PracticeItem) error
	ListByAssessment(assessmentID uint, sid string) ([]entities.PracticeItem, error)
	PatchStatus(practiceID uint, sid, status string) (*entities.PracticeItem, error)
	DeleteByAssessment(assessmentID uint) error
	WithTx(tx *gorm.DB) PracticeRepository
}
