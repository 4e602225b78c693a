package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"eaadss/pkg/middleware"
	"eaadss/pkg/practice/controller"
	"eaadss/pkg/practice/service"
)

type PracticeCtrl struct{ svc service.PracticeService }

func New(svc service.PracticeService) controller.PracticeController { return &PracticeCtrl{svc} }

func (h *PracticeCtrl) List(c echo.Context) error {
	aid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	out, err := h.svc.List(middleware.SessionID(c), uint(aid))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PracticeCtrl) Patch(c echo.Context) error {
	pid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	p, err := h.svc.SetStatus(middleware.SessionID(c), uint(pid), body.Status)
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}
