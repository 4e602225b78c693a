package controllerImp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaadss/pkg/bmp"
)

func TestCropEndpoints(t *testing.T) {
	e := echo.New()
	h := New(bmp.Default())
	e.GET("/crops", h.List)
	e.GET("/crops/recommended", h.Recommended)
	e.GET("/crops/:name/practices", h.Practices)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		return rec
	}

	rec := get("/crops")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"carbon_credits_t_ha_yr":9.12`)
	assert.Contains(t, rec.Body.String(), `"car_t_co2_per_year":4.6`)

	rec = get("/crops/recommended")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Best for slowing subsidence.")

	rec = get("/crops/Turf%20Grass/practices")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Manage Water Table")

	rec = get("/crops/Tomato/practices")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
