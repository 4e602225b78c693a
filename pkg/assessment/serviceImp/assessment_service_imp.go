package serviceImp

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"eaadss/entities"
	"eaadss/pkg/ai"
	"eaadss/pkg/assessment/repository"
	"eaadss/pkg/assessment/service"
	"eaadss/pkg/assessment/types"
	"eaadss/pkg/bmp"
	fieldsvc "eaadss/pkg/field/service"
	"eaadss/pkg/metrics"
	practicesvc "eaadss/pkg/practice/service"
	"eaadss/pkg/soil"
	soiltestsvc "eaadss/pkg/soiltest/service"
)

const maxArticles = 5

type articleFinder interface {
	Articles(ctx context.Context, query string, k int) ([]entities.ArticleRef, string, error)
}

type Deps struct {
	Repo      repository.AssessmentRepository
	Fields    fieldsvc.FieldService
	SoilTests soiltestsvc.SoilTestService
	Practices practicesvc.PracticeService
	Rules     bmp.RulesEngine
	LLM       ai.Client
	KB        articleFinder // optional
	Metrics   *metrics.Metrics
}

type AssessmentSvc struct{ Deps }

func NewAssessmentService(d Deps) service.AssessmentService {
	if d.LLM == nil {
		d.LLM = ai.NewMock()
	}
	return &AssessmentSvc{d}
}

func newAssessment(sid string) *entities.Assessment {
	return &entities.Assessment{
		SessionID:  sid,
		Step:       types.StepLocation,
		DisplayPH:  soil.DefaultPH,
		Crop:       types.DefaultCrop,
		FarmSizeHa: types.DefaultFarmSizeHa,
	}
}

func (s *AssessmentSvc) Create(ctx context.Context, sid string, loc *fieldsvc.LocationInput) (*entities.Assessment, error) {
	a := newAssessment(sid)
	if loc != nil && (loc.HasDrawing() || loc.Lat != nil || loc.Lon != nil) {
		f, err := s.Fields.Locate(ctx, sid, *loc)
		if err != nil {
			return nil, err
		}
		attach(a, f)
	}
	if err := s.Repo.Create(a); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	s.Metrics.StepEntered(a.Step)
	return named(a), nil
}

func (s *AssessmentSvc) Get(sid string, id uint) (*entities.Assessment, error) {
	a, err := s.Repo.FindByID(id, sid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return named(a), nil
}

func (s *AssessmentSvc) List(sid string) ([]entities.Assessment, error) {
	out, err := s.Repo.ListBySession(sid)
	if err != nil {
		return nil, err
	}
	for i := range out {
		named(&out[i])
	}
	return out, nil
}

// SetLocation is accepted at any step and restarts the soil input.
func (s *AssessmentSvc) SetLocation(ctx context.Context, sid string, id uint, in fieldsvc.LocationInput) (*entities.Assessment, error) {
	a, err := s.Get(sid, id)
	if err != nil {
		return nil, err
	}
	f, err := s.Fields.Locate(ctx, sid, in)
	if err != nil {
		return nil, err
	}
	attach(a, f)
	return s.save(ctx, a)
}

func (s *AssessmentSvc) SubmitSoil(ctx context.Context, sid string, id uint, in types.SoilInput) (*entities.Assessment, error) {
	a, err := s.Get(sid, id)
	if err != nil {
		return nil, err
	}
	if a.Step < types.StepSoilInput || a.Field == nil {
		return nil, wrongStep(a)
	}

	if in.HasTest {
		st, err := s.SoilTests.Record(a.Field.FieldID, a.AssessmentID, in.Test)
		if err != nil {
			return nil, err
		}
		a.SoilSource, a.DisplayPH, a.DisplaySOM = entities.SoilFromTest, st.PH, st.SOMPct
	} else {
		a.SoilSource, a.DisplayPH, a.DisplaySOM = entities.SoilFromModel, soil.DefaultPH, a.Field.EstSOM
	}
	a.Step = types.StepDiagnostics
	return s.save(ctx, a)
}

func (s *AssessmentSvc) Diagnostics(sid string, id uint) (*bmp.Diagnosis, error) {
	a, err := s.Get(sid, id)
	if err != nil {
		return nil, err
	}
	if a.Step < types.StepDiagnostics || a.Field == nil {
		return nil, wrongStep(a)
	}
	d := s.Rules.Diagnose(a.DisplaySOM, a.DisplayPH, a.Field.EstDepthCM)
	return &d, nil
}

func (s *AssessmentSvc) Advance(ctx context.Context, sid string, id uint) (*entities.Assessment, error) {
	a, err := s.Get(sid, id)
	if err != nil {
		return nil, err
	}
	if a.Step != types.StepDiagnostics {
		return nil, wrongStep(a)
	}
	a.Step = types.StepCropPlan
	return s.save(ctx, a)
}

func (s *AssessmentSvc) Back(ctx context.Context, sid string, id uint) (*entities.Assessment, error) {
	a, err := s.Get(sid, id)
	if err != nil {
		return nil, err
	}
	if a.Step <= types.StepLocation {
		return nil, wrongStep(a)
	}
	a.Step--
	return s.save(ctx, a)
}

func (s *AssessmentSvc) PlanCrop(ctx context.Context, sid string, id uint, in types.CropInput) (*entities.Assessment, error) {
	a, err := s.Get(sid, id)
	if err != nil {
		return nil, err
	}
	if a.Step < types.StepDiagnostics || a.Field == nil {
		return nil, wrongStep(a)
	}

	crop, ok := s.Rules.Crop(in.Crop)
	if !ok {
		return nil, fmt.Errorf("%w: %q", service.ErrUnknownCrop, in.Crop)
	}
	size := DefaultFarmSize(a.Field, a.FarmSizeHa)
	if in.FarmSizeHa != nil {
		size = *in.FarmSizeHa
	}
	if size < types.MinFarmSizeHa || size > types.MaxFarmSizeHa {
		return nil, fmt.Errorf("%w: got %d", service.ErrInvalidFarmSize, size)
	}

	a.Crop, a.FarmSizeHa, a.Step = crop.Crop, size, types.StepProtocols
	return s.saveWith(ctx, a, func(ps practicesvc.PracticeService) error {
		if _, err := ps.Materialize(a.AssessmentID, crop.Crop, s.Rules.Practices(crop.Crop)); err != nil {
			return fmt.Errorf("store practices: %w", err)
		}
		return nil
	})
}

func (s *AssessmentSvc) Report(ctx context.Context, sid string, id uint) (*types.Report, error) {
	a, err := s.Get(sid, id)
	if err != nil {
		return nil, err
	}
	if a.Step != types.StepProtocols {
		return nil, wrongStep(a)
	}
	r, err := BuildReport(s.Rules, a.Field, a.SoilSource, a.DisplayPH, a.DisplaySOM, a.Crop, a.FarmSizeHa)
	if err != nil {
		return nil, err
	}
	r.AssessmentID = a.AssessmentID

	var kbCtx string
	if s.KB != nil {
		refs, kctx, err := s.KB.Articles(ctx, articleQuery(r), maxArticles)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("[assessment] article lookup failed")
		}
		if len(refs) > 0 {
			r.Articles = refs
		}
		kbCtx = kctx
	}
	r.Summary = s.LLM.Summarize(ctx, r, kbCtx)
	return r, nil
}

// Reset restores the defaults and returns to step 1. Stored fields and soil
// tests are kept as history.
func (s *AssessmentSvc) Reset(ctx context.Context, sid string, id uint) (*entities.Assessment, error) {
	a, err := s.Get(sid, id)
	if err != nil {
		return nil, err
	}
	fresh := newAssessment(sid)
	fresh.AssessmentID, fresh.CreatedAt = a.AssessmentID, a.CreatedAt
	return s.saveWith(ctx, fresh, func(ps practicesvc.PracticeService) error {
		if err := ps.Clear(a.AssessmentID); err != nil {
			return fmt.Errorf("clear practices: %w", err)
		}
		return nil
	})
}

func (s *AssessmentSvc) save(ctx context.Context, a *entities.Assessment) (*entities.Assessment, error) {
	return s.saveWith(ctx, a, nil)
}

// saveWith commits the practice writes and the assessment row together.
func (s *AssessmentSvc) saveWith(ctx context.Context, a *entities.Assessment, practices func(practicesvc.PracticeService) error) (*entities.Assessment, error) {
	var err error
	if practices == nil {
		err = s.Repo.Save(a)
	} else {
		err = s.Repo.Transaction(func(tx *gorm.DB) error {
			if err := practices(s.Practices.WithTx(tx)); err != nil {
				return err
			}
			return s.Repo.WithTx(tx).Save(a)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	s.Metrics.StepEntered(a.Step)
	zerolog.Ctx(ctx).Debug().Uint("assessment_id", a.AssessmentID).Int("step", a.Step).Msg("[assessment] step")
	return named(a), nil
}

func attach(a *entities.Assessment, f *entities.Field) {
	a.FieldID, a.Field = &f.FieldID, f
	a.SoilSource, a.DisplayPH, a.DisplaySOM = "", soil.DefaultPH, 0
	a.Step = types.StepSoilInput
}

func named(a *entities.Assessment) *entities.Assessment {
	a.StepName = types.StepNames[a.Step]
	return a
}

func wrongStep(a *entities.Assessment) error {
	return fmt.Errorf("%w: assessment is at step %d (%s)", service.ErrWrongStep, a.Step, types.StepNames[a.Step])
}
