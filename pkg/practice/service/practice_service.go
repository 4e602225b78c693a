package service

import (
	"errors"

	"gorm.io/gorm"

	"eaadss/entities"
	"eaadss/pkg/bmp"
)

var (
	ErrInvalidStatus = errors.New("status must be todo, adopted or skipped")
	ErrNotFound      = errors.New("practice not found")
)

type PracticeService interface {
	// Materialize stores the crop's practices for an assessment, replacing
	// rows from an earlier plan.
	Materialize(assessmentID uint, crop string, ps []bmp.Practice) ([]entities.PracticeItem, error)
	List(sid string, assessmentID uint) ([]entities.PracticeItem, error)
	SetStatus(sid string, practiceID uint, status string) (*entities.PracticeItem, error)
	Clear(assessmentID uint) error
	// WithTx returns a service whose writes join tx.
	WithTx(tx *gorm.DB) PracticeService
}
