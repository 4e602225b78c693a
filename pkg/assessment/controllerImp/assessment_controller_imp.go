package controllerImp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"eaadss/entities"
	"eaadss/pkg/assessment/controller"
	"eaadss/pkg/assessment/service"
	"eaadss/pkg/assessment/serviceImp"
	"eaadss/pkg/assessment/types"
	fieldsvc "eaadss/pkg/field/service"
	"eaadss/pkg/geo"
	"eaadss/pkg/middleware"
	"eaadss/pkg/soil"
)

type AssessmentCtrl struct{ svc service.AssessmentService }

func New(svc service.AssessmentService) controller.AssessmentController {
	return &AssessmentCtrl{svc}
}

func (h *AssessmentCtrl) Create(c echo.Context) error {
	var loc *fieldsvc.LocationInput
	if c.Request().ContentLength != 0 {
		loc = &fieldsvc.LocationInput{}
		if err := c.Bind(loc); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
		}
	}
	a, err := h.svc.Create(c.Request().Context(), middleware.SessionID(c), loc)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AssessmentCtrl) List(c echo.Context) error {
	out, err := h.svc.List(middleware.SessionID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AssessmentCtrl) Get(c echo.Context) error {
	return h.step(c, func(_ context.Context, sid string, id uint) (*entities.Assessment, error) {
		return h.svc.Get(sid, id)
	})
}

func (h *AssessmentCtrl) SetLocation(c echo.Context) error {
	var in fieldsvc.LocationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	return h.step(c, func(ctx context.Context, sid string, id uint) (*entities.Assessment, error) {
		return h.svc.SetLocation(ctx, sid, id, in)
	})
}

func (h *AssessmentCtrl) SubmitSoil(c echo.Context) error {
	var in types.SoilInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	return h.step(c, func(ctx context.Context, sid string, id uint) (*entities.Assessment, error) {
		return h.svc.SubmitSoil(ctx, sid, id, in)
	})
}

func (h *AssessmentCtrl) Diagnostics(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	d, err := h.svc.Diagnostics(middleware.SessionID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AssessmentCtrl) Advance(c echo.Context) error { return h.step(c, h.svc.Advance) }

func (h *AssessmentCtrl) Back(c echo.Context) error { return h.step(c, h.svc.Back) }

func (h *AssessmentCtrl) PlanCrop(c echo.Context) error {
	var in types.CropInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	return h.step(c, func(ctx context.Context, sid string, id uint) (*entities.Assessment, error) {
		return h.svc.PlanCrop(ctx, sid, id, in)
	})
}

func (h *AssessmentCtrl) Report(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	r, err := h.svc.Report(c.Request().Context(), middleware.SessionID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *AssessmentCtrl) ExportXLSX(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	r, err := h.svc.Report(c.Request().Context(), middleware.SessionID(c), id)
	if err != nil {
		return fail(c, err)
	}
	x, err := serviceImp.ReportWorkbook(r)
	if err != nil {
		return fail(c, err)
	}
	defer x.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="eaa-assessment-%d.xlsx"`, id))
	res.WriteHeader(http.StatusOK)
	_, err = x.WriteTo(res)
	return err
}

func (h *AssessmentCtrl) Reset(c echo.Context) error { return h.step(c, h.svc.Reset) }

// step runs a workflow transition for the :id assessment of the caller.
func (h *AssessmentCtrl) step(c echo.Context, fn func(ctx context.Context, sid string, id uint) (*entities.Assessment, error)) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	a, err := fn(c.Request().Context(), middleware.SessionID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}

func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrWrongStep):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnknownCrop), errors.Is(err, service.ErrInvalidFarmSize),
		errors.Is(err, soil.ErrInvalidSoilInput):
		status = http.StatusBadRequest
	case errors.Is(err, fieldsvc.ErrOutOfBounds), errors.Is(err, fieldsvc.ErrNoLocation),
		errors.Is(err, geo.ErrInvalidGeometry), errors.Is(err, geo.ErrUnsupportedGeometry):
		status = http.StatusUnprocessableEntity
	default:
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("[assessment] request failed")
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
