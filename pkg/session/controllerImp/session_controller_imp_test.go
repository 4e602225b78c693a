package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaadss/pkg/middleware"
)

func TestNewSession(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/session", http.NoBody), rec)

	require.NoError(t, NewSessionController().New(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, err := uuid.Parse(body["session_id"])
	require.NoError(t, err)
	assert.Equal(t, body["session_id"], middleware.SessionID(c))
}

func TestWhoAmI(t *testing.T) {
	e := echo.New()
	sid := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
	req.Header.Set(middleware.SessionHeader, sid)
	rec := httptest.NewRecorder()

	h := middleware.Session(true)(NewSessionController().WhoAmI)
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.JSONEq(t, `{"session_id":"`+sid+`"}`, rec.Body.String())
}
