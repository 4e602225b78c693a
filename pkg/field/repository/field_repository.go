package repository

import "eaadss/entities"

type FieldRepository interface {
	Create(f *entities.Field) error
	FindByID(id uint, sid string) (*entities.Field, error)
	ListBySession(sid string) ([]entities.Field, error)
}
