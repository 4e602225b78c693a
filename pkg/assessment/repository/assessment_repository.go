package repository

import (
	"gorm.io/gorm"

	"eaadss/entities"
)

type AssessmentRepository interface {
	Create(a *entities.Assessment) error
	// Save writes the assessment row only, never its Field.
	Save(a *entities.Assessment) error
	FindByID(id uint, sid string) (*entities.Assessment, error)
	ListBySession(sid string) ([]entities.Assessment, error)

	// Transaction runs fn in one database transaction; WithTx binds a copy
	// of the repository to it.
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AssessmentRepository
}
