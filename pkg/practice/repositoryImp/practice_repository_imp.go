package repositoryImp

import (
	"eaadss/entities"
	"eaadss/pkg/practice/repository"

	"gorm.io/gorm"
)

type practiceRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PracticeRepository { return &practiceRepo{db} }

func (r *practiceRepo) WithTx(tx *gorm.DB) repository.PracticeRepository { return &practiceRepo{tx} }

func (r *practiceRepo) ReplaceForAssessment(assessmentID uint, items []entities.PracticeItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", assessmentID).Delete(&entities.PracticeItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *practiceRepo) ListByAssessment(assessmentID uint, sid string) ([]entities.PracticeItem, error) {
	var out []entities.PracticeItem
	err := r.db.
		Joins("JOIN assessments ON assessments.assessment_id = practice_items.assessment_id").
		Where("practice_items.assessment_id = ? AND assessments.session_id = ?", assessmentID, sid).
		Order("practice_items.ord ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PatchStatus returns gorm.ErrRecordNotFound when the practice does not exist
// or belongs to another session.
func (r *practiceRepo) PatchStatus(practiceID uint, sid, status string) (*entities.PracticeItem, error) {
	var p entities.PracticeItem
	err := r.db.
		Joins("JOIN assessments ON assessments.assessment_id = practice_items.assessment_id").
		Where("practice_items.practice_id = ? AND assessments.session_id = ?", practiceID, sid).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(&p).Update("status", status).Error; err != nil {
		return nil, err
	}
	p.Status = status
	return &p, nil
}

func (r *practiceRepo) DeleteByAssessment(assessmentID uint) error {
	return r.db.Where("assessment_id = ?", assessmentID).Delete(&entities.PracticeItem{}).Error
}
