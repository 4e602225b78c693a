package router

import (
	"github.com/labstack/echo/v4"

	assessment "eaadss/pkg/assessment/controller"
	crop "eaadss/pkg/crop/controller"
	field "eaadss/pkg/field/controller"
	kb "eaadss/pkg/kb/controller"
	"eaadss/pkg/middleware"
	practice "eaadss/pkg/practice/controller"
	session "eaadss/pkg/session/controller"
	soiltest "eaadss/pkg/soiltest/controller"
)

type Controllers struct {
	Field      field.FieldController
	Assessment assessment.AssessmentController
	SoilTest   soiltest.SoilTestController
	Practice   practice.PracticeController
	Crop       crop.CropController
	KB         kb.KBController
	Session    session.SessionController
	Health     interface{ Health(echo.Context) error }
	Metrics    echo.HandlerFunc
}

// New registers every route. strictSession rejects session-scoped calls that
// carry no session id instead of minting one.
func New(e *echo.Echo, c Controllers, strictSession bool) *echo.Echo {
	e.GET("/health", c.Health.Health)
	if c.Metrics != nil {
		e.GET("/metrics", c.Metrics)
	}
	e.POST("/session", c.Session.New)

	api := e.Group("", middleware.Session(strictSession))
	api.GET("/whoami", c.Session.WhoAmI)

	// reference data
	api.GET("/boundary", c.Field.Boundary)
	api.GET("/crops", c.Crop.List)
	api.GET("/crops/recommended", c.Crop.Recommended)
	api.GET("/crops/:name/practices", c.Crop.Practices)
	api.GET("/soil/options", c.SoilTest.Options)

	api.POST("/fields", c.Field.Create)
	api.GET("/fields", c.Field.List)
	api.GET("/fields/:id", c.Field.Get)
	api.GET("/fields/:id/soil-tests", c.SoilTest.List)

	a := api.Group("/assessments")
	a.POST("", c.Assessment.Create)
	a.GET("", c.Assessment.List)
	a.GET("/:id", c.Assessment.Get)
	a.PUT("/:id/location", c.Assessment.SetLocation)
	a.POST("/:id/soil", c.Assessment.SubmitSoil)
	a.GET("/:id/diagnostics", c.Assessment.Diagnostics)
	a.POST("/:id/advance", c.Assessment.Advance)
	a.POST("/:id/back", c.Assessment.Back)
	a.POST("/:id/crop", c.Assessment.PlanCrop)
	a.GET("/:id/report", c.Assessment.Report)
	a.GET("/:id/report.xlsx", c.Assessment.ExportXLSX)
	a.POST("/:id/reset", c.Assessment.Reset)
	a.GET("/:id/practices", c.Practice.List)
	api.PATCH("/practices/:id", c.Practice.Patch)

	// KB endpoints
	api.POST("/kb/ingest", c.KB.IngestText)
	api.POST("/kb/ingest/url", c.KB.IngestURL)
	api.GET("/kb/search", c.KB.Search)
	api.GET("/kb/docs", c.KB.ListDocs)
	return e
}
