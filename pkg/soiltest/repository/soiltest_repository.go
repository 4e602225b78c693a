package repository

import "eaadss/entities"

type SoilTestRepository interface {
	Create(t *entities.SoilTest) error
	ListByField(fieldID uint, sid string) ([]entities.SoilTest, error)
}
