package repositoryImp

import (
	"eaadss/entities"
	"eaadss/pkg/field/repository"

	"gorm.io/gorm"
)

type fieldRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.FieldRepository { return &fieldRepo{db} }

func (r *fieldRepo) Create(f *entities.Field) error { return r.db.Create(f).Error }

func (r *fieldRepo) FindByID(id uint, sid string) (*entities.Field, error) {
	var f entities.Field
	if err := r.db.Where("field_id = ? AND session_id = ?", id, sid).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fieldRepo) ListBySession(sid string) ([]entities.Field, error) {
	var fs []entities.Field
	if err := r.db.Where("session_id = ?", sid).Order("field_id DESC").Find(&fs).Error; err != nil {
		return nil, err
	}
	return fs, nil
}
