package controller

import "github.com/labstack/echo/v4"

type CropController interface {
	List(c echo.Context) error
	Recommended(c echo.Context) error
	Practices(c echo.Context) error
}
