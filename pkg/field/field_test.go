package field_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaadss/database"
	"eaadss/entities"
	"eaadss/pkg/field/controllerImp"
	"eaadss/pkg/field/repositoryImp"
	"eaadss/pkg/field/service"
	"eaadss/pkg/field/serviceImp"
	"eaadss/pkg/geo"
	"eaadss/pkg/metrics"
	"eaadss/pkg/middleware"
	"eaadss/pkg/soil"
)

const square = `{"type":"Polygon","coordinates":[[[-80.70,26.60],[-80.69,26.60],[-80.69,26.61],[-80.70,26.61],[-80.70,26.60]]]}`

func newService(t *testing.T) service.FieldService {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	region, err := geo.LoadRegion("")
	require.NoError(t, err)
	return serviceImp.NewFieldService(repositoryImp.New(db), region, soil.NewSpatialModel(), metrics.New())
}

func ptr(v float64) *float64 { return &v }

func TestLocatePoint(t *testing.T) {
	svc := newService(t)
	f, err := svc.Locate(context.Background(), "s1", service.LocationInput{Lat: ptr(26.6), Lon: ptr(-80.7)})
	require.NoError(t, err)

	assert.Equal(t, entities.ModePoint, f.Mode)
	assert.Nil(t, f.AreaHa)
	assert.NotZero(t, f.FieldID)

	want := soil.NewSpatialModel().Predict(26.6, -80.7)
	assert.Equal(t, want.SOM, f.EstSOM)
	assert.Equal(t, want.DepthCM, f.EstDepthCM)

	got, err := svc.Get("s1", f.FieldID)
	require.NoError(t, err)
	assert.Equal(t, f.Lat, got.Lat)

	_, err = svc.Get("other", f.FieldID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestLocateDrawing(t *testing.T) {
	svc := newService(t)
	f, err := svc.Locate(context.Background(), "s1", service.LocationInput{
		Lat: ptr(0), Lon: ptr(0), Drawing: json.RawMessage(square),
	})
	require.NoError(t, err)

	assert.Equal(t, entities.ModePolygon, f.Mode)
	require.NotNil(t, f.AreaHa)
	assert.InDelta(t, 110.3, *f.AreaHa, 0.15)
	assert.InDelta(t, 26.605, f.Lat, 1e-6)
	assert.InDelta(t, -80.695, f.Lon, 1e-6)
	assert.Contains(t, f.GeometryJSON, `"Polygon"`)
}

func TestLocateRejects(t *testing.T) {
	svc := newService(t)
	outside := `{"type":"Polygon","coordinates":[[[-82,28],[-81.9,28],[-81.9,28.1],[-82,28.1],[-82,28]]]}`
	tests := []struct {
		name string
		in   service.LocationInput
		want error
	}{
		{"point outside", service.LocationInput{Lat: ptr(25.76), Lon: ptr(-80.19)}, service.ErrOutOfBounds},
		{"missing lon", service.LocationInput{Lat: ptr(26.6)}, service.ErrNoLocation},
		{"nothing", service.LocationInput{}, service.ErrNoLocation},
		{"null drawing", service.LocationInput{Drawing: json.RawMessage("null")}, service.ErrNoLocation},
		{"drawing outside", service.LocationInput{Drawing: json.RawMessage(outside)}, service.ErrOutOfBounds},
		{"line drawing", service.LocationInput{Drawing: json.RawMessage(`{"type":"LineString","coordinates":[[-80.7,26.6],[-80.6,26.6]]}`)}, geo.ErrUnsupportedGeometry},
		{"garbage drawing", service.LocationInput{Drawing: json.RawMessage(`{"type":`)}, geo.ErrInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Locate(context.Background(), "s1", tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFieldEndpoints(t *testing.T) {
	e := echo.New()
	ctrl := controllerImp.New(newService(t))
	g := e.Group("", middleware.Session(true))
	g.POST("/fields", ctrl.Create)
	g.GET("/fields/:id", ctrl.Get)
	g.GET("/fields", ctrl.List)
	e.GET("/boundary", ctrl.Boundary)
	sid := uuid.NewString()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(middleware.SessionHeader, sid)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/fields", `{"lat":26.6,"lon":-80.7}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var f entities.Field
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))

	rec = do(http.MethodGet, "/fields/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/fields/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodGet, "/fields/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPost, "/fields", `{"lat":40,"lon":-100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(http.MethodGet, "/fields", "")
	var list []entities.Field
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(http.MethodGet, "/boundary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var b struct {
		Name    string     `json:"name"`
		Bounds  [4]float64 `json:"bounds"`
		GeoJSON struct {
			Type string `json:"type"`
		} `json:"geojson"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, "FeatureCollection", b.GeoJSON.Type)
	assert.Less(t, b.Bounds[0], b.Bounds[2])
}
