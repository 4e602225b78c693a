package controller

import "github.com/labstack/echo/v4"

type SessionController interface {
	New(c echo.Context) error
	WhoAmI(c echo.Context) error
}
