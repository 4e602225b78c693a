package controller

import "github.com/labstack/echo/v4"

type SoilTestController interface {
	List(c echo.Context) error
	Options(c echo.Context) error
}
