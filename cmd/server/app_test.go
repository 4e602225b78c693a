package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaadss/config"
	"eaadss/pkg/assessment/types"
)

const squareField = `{"type":"Polygon","coordinates":[[[-80.70,26.60],[-80.69,26.60],[-80.69,26.61],[-80.70,26.61],[-80.70,26.60]]]}`

func testConfig() config.AppConfig {
	return config.AppConfig{
		Port:             "0",
		LogLevel:         "error",
		DBPath:           ":memory:",
		KBAllowedDomains: []string{"edis.ifas.ufl.edu"},
		KBMaxBytes:       1 << 20,
	}
}

func TestAppServesWorkflow(t *testing.T) {
	a, err := newApp(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	do := func(method, path, sid, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if sid != "" {
			req.Header.Set("X-Session-Id", sid)
		}
		rec := httptest.NewRecorder()
		a.echo.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/session", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	sid := sess["session_id"]
	require.NotEmpty(t, sid)

	rec = do(http.MethodPost, "/assessments", sid, `{"lat":26.6,"lon":-80.65}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Equal(t, http.StatusOK, do(http.MethodPost, "/assessments/1/soil", sid, `{"has_test":false}`).Code)
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/assessments/1/advance", sid, "").Code)
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/assessments/1/crop", sid, `{"crop":"Sunn Hemp","farm_size_ha":20}`).Code)

	rec = do(http.MethodGet, "/assessments/1/report", sid, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var r types.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, "Sunn Hemp", r.Crop)
	assert.Equal(t, 20, r.FarmSizeHa)
	assert.Equal(t, "Lat: 26.6000", r.Location)

	// another session cannot see it
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/assessments/1", "5f0c7a43-9a1d-4d3e-8a52-0c7f3b0e2a11", "").Code)

	rec = do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `eaa_assessment_step_transitions_total{step="5"} 1`)
}

func TestLLMNeedsOnlyEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"local model summary"}}]}`))
	}))
	defer srv.Close()

	r := &types.Report{Crop: "Sugarcane", Location: "Lat: 26.6000", FarmSizeHa: 100}

	cfg := testConfig()
	cfg.LLMEndpoint, cfg.LLMModel = srv.URL, "llama3"
	assert.Equal(t, "local model summary", newLLM(cfg).Summarize(context.Background(), r, ""))

	cfg.LLMEndpoint = "  "
	assert.Contains(t, newLLM(cfg).Summarize(context.Background(), r, ""), "**Sugarcane plan for Lat: 26.6000 (100 ha)**")
}

func TestAssessCommandPrintsReport(t *testing.T) {
	t.Setenv("LLM_ENDPOINT", "")
	t.Setenv("EMB_ENDPOINT", "")
	t.Setenv("BOUNDARY_PATH", "")
	t.Setenv("CROP_TABLE_PATH", "")
	t.Setenv("PRACTICES_PATH", "")

	drawing := filepath.Join(t.TempDir(), "field.geojson")
	require.NoError(t, os.WriteFile(drawing, []byte(squareField), 0o600))

	var out bytes.Buffer
	cmd := rootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"assess", "--drawing", drawing, "--ph-range", "neutral", "--som-rating", "high"})
	require.NoError(t, cmd.Execute())

	var r types.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, "polygon", r.Mode)
	assert.Equal(t, "110.3 ha Area", r.Location)
	assert.Equal(t, 110, r.FarmSizeHa)
	assert.Equal(t, 7.0, r.PH)
	assert.Equal(t, 77.5, r.SOMPct)
	assert.Equal(t, types.DefaultCrop, r.Crop)
	assert.NotEmpty(t, r.Summary)
}

func TestAssessCommandRejections(t *testing.T) {
	t.Setenv("BOUNDARY_PATH", "")

	cmd := rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"assess", "--lat", "26.6"})
	assert.ErrorContains(t, cmd.Execute(), "--lat and --lon")

	cmd = rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"assess", "--lat", "25.76", "--lon", "-80.19"})
	assert.ErrorContains(t, cmd.Execute(), "outside the EAA boundary")

	cmd = rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"assess", "--lat", "26.6", "--lon", "-80.65", "--crop", "Tomato"})
	assert.ErrorContains(t, cmd.Execute(), "carbon table")
}
