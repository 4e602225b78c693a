package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"eaadss/pkg/field/controller"
	"eaadss/pkg/field/service"
	"eaadss/pkg/geo"
	"eaadss/pkg/middleware"
)

type FieldCtrl struct{ svc service.FieldService }

func New(svc service.FieldService) controller.FieldController { return &FieldCtrl{svc} }

func (h *FieldCtrl) Create(c echo.Context) error {
	var req service.LocationInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	f, err := h.svc.Locate(c.Request().Context(), middleware.SessionID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *FieldCtrl) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	f, err := h.svc.Get(middleware.SessionID(c), uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FieldCtrl) List(c echo.Context) error {
	fs, err := h.svc.List(middleware.SessionID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, fs)
}

// Boundary returns what a map needs to draw the EAA overlay and frame it.
func (h *FieldCtrl) Boundary(c echo.Context) error {
	r := h.svc.Region()
	return c.JSON(http.StatusOK, map[string]any{
		"name":    r.Name,
		"center":  r.Center(),
		"bounds":  r.Bounds(),
		"geojson": r.FeatureCollection(),
	})
}

func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrOutOfBounds), errors.Is(err, service.ErrNoLocation),
		errors.Is(err, geo.ErrInvalidGeometry), errors.Is(err, geo.ErrUnsupportedGeometry):
		status = http.StatusUnprocessableEntity
	default:
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("[field] request failed")
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
