package repositoryImp

import (
	"eaadss/entities"
	"eaadss/pkg/soiltest/repository"

	"gorm.io/gorm"
)

type soilTestRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.SoilTestRepository { return &soilTestRepo{db} }

func (r *soilTestRepo) Create(t *entities.SoilTest) error { return r.db.Create(t).Error }

// ListByField returns the field's tests newest first, only when the field
// belongs to sid.
func (r *soilTestRepo) ListByField(fieldID uint, sid string) ([]entities.SoilTest, error) {
	var out []entities.SoilTest
	err := r.db.
		Joins("JOIN fields ON fields.field_id = soil_tests.field_id").
		Where("soil_tests.field_id = ? AND fields.session_id = ?", fieldID, sid).
		Order("soil_tests.soil_test_id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
