package repositoryImp

import (
	"eaadss/entities"
	"eaadss/pkg/assessment/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type assessmentRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AssessmentRepository { return &assessmentRepo{db} }

func (r *assessmentRepo) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *assessmentRepo) WithTx(tx *gorm.DB) repository.AssessmentRepository {
	return &assessmentRepo{tx}
}

func (r *assessmentRepo) Create(a *entities.Assessment) error {
	return r.db.Omit(clause.Associations).Create(a).Error
}

func (r *assessmentRepo) Save(a *entities.Assessment) error {
	return r.db.Omit(clause.Associations).Save(a).Error
}

func (r *assessmentRepo) FindByID(id uint, sid string) (*entities.Assessment, error) {
	var a entities.Assessment
	if err := r.db.Preload("Field").Where("assessment_id = ? AND session_id = ?", id, sid).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepo) ListBySession(sid string) ([]entities.Assessment, error) {
	var out []entities.Assessment
	if err := r.db.Preload("Field").Where("session_id = ?", sid).Order("assessment_id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
