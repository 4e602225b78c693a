package controller

import "github.com/labstack/echo/v4"

type AssessmentController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Get(c echo.Context) error
	SetLocation(c echo.Context) error
	SubmitSoil(c echo.Context) error
	Diagnostics(c echo.Context) error
	Advance(c echo.Context) error
	Back(c echo.Context) error
	PlanCrop(c echo.Context) error
	Report(c echo.Context) error
	ExportXLSX(c echo.Context) error
	Reset(c echo.Context) error
}
