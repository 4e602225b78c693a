package controllerImp

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"eaadss/pkg/bmp"
	"eaadss/pkg/crop/controller"
)

type CropCtrl struct{ rules bmp.RulesEngine }

func New(rules bmp.RulesEngine) controller.CropController { return &CropCtrl{rules} }

func (h *CropCtrl) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"crops":              h.rules.Crops(),
		"car_t_co2_per_year": bmp.CarTonsCO2PerYear,
		"credit_definition":  "1 carbon credit = 1 ton of CO2 stored",
	})
}

func (h *CropCtrl) Recommended(c echo.Context) error {
	return c.JSON(http.StatusOK, h.rules.Recommended())
}

func (h *CropCtrl) Practices(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad crop name"})
	}
	cc, ok := h.rules.Crop(name)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown crop"})
	}
	return c.JSON(http.StatusOK, map[string]any{"crop": cc, "practices": h.rules.Practices(cc.Crop)})
}
