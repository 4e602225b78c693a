package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eaadss/pkg/middleware"
	"eaadss/pkg/session/controller"
)

type sessionCtrl struct{}

func NewSessionController() controller.SessionController { return &sessionCtrl{} }

// New always starts a fresh session, discarding whatever the caller sent.
func (h *sessionCtrl) New(c echo.Context) error {
	sid := middleware.NewSession(c)
	return c.JSON(http.StatusCreated, map[string]string{"session_id": sid})
}

func (h *sessionCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"session_id": middleware.SessionID(c)})
}
