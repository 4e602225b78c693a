package service

import (
	"context"
	"errors"

	"eaadss/entities"
	"eaadss/pkg/assessment/types"
	"eaadss/pkg/bmp"
	fieldsvc "eaadss/pkg/field/service"
)

var (
	ErrNotFound        = errors.New("assessment not found")
	ErrWrongStep       = errors.New("operation not allowed at the current step")
	ErrUnknownCrop     = errors.New("crop is not in the carbon table")
	ErrInvalidFarmSize = errors.New("farm size must be between 1 and 500000 ha")
)

// AssessmentService drives the guided workflow:
// 1 location, 2 soil input, 3 diagnostics, 4 crop planning, 5 protocols.
type AssessmentService interface {
	Create(ctx context.Context, sid string, loc *fieldsvc.LocationInput) (*entities.Assessment, error)
	Get(sid string, id uint) (*entities.Assessment, error)
	List(sid string) ([]entities.Assessment, error)

	SetLocation(ctx context.Context, sid string, id uint, in fieldsvc.LocationInput) (*entities.Assessment, error)
	SubmitSoil(ctx context.Context, sid string, id uint, in types.SoilInput) (*entities.Assessment, error)
	Diagnostics(sid string, id uint) (*bmp.Diagnosis, error)
	Advance(ctx context.Context, sid string, id uint) (*entities.Assessment, error)
	Back(ctx context.Context, sid string, id uint) (*entities.Assessment, error)
	PlanCrop(ctx context.Context, sid string, id uint, in types.CropInput) (*entities.Assessment, error)
	Report(ctx context.Context, sid string, id uint) (*types.Report, error)
	Reset(ctx context.Context, sid string, id uint) (*entities.Assessment, error)
}
