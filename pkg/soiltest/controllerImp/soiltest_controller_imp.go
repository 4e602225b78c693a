package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"eaadss/pkg/middleware"
	"eaadss/pkg/soil"
	"eaadss/pkg/soiltest/controller"
	"eaadss/pkg/soiltest/service"
)

type SoilTestCtrl struct{ svc service.SoilTestService }

func New(svc service.SoilTestService) controller.SoilTestController { return &SoilTestCtrl{svc} }

func (h *SoilTestCtrl) List(c echo.Context) error {
	fid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	out, err := h.svc.ListByField(middleware.SessionID(c), uint(fid))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// Options lists the accepted soil test ranges for the input form.
func (h *SoilTestCtrl) Options(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"ph_ranges":   soil.PHRanges,
		"som_ratings": soil.SOMRatings,
		"default_ph":  soil.DefaultPH,
	})
}
