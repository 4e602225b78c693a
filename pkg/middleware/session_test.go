package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSID(c echo.Context) error { return c.String(http.StatusOK, SessionID(c)) }

func TestSessionMintsCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Session(false)(echoSID)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	sid := rec.Body.String()
	_, err := uuid.Parse(sid)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
}

func TestSessionHeaderWinsOverCookie(t *testing.T) {
	e := echo.New()
	header, cookie := uuid.NewString(), uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(SessionHeader, header)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	rec := httptest.NewRecorder()

	require.NoError(t, Session(true)(echoSID)(e.NewContext(req, rec)))
	assert.Equal(t, header, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionFromCookie(t *testing.T) {
	e := echo.New()
	sid := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	rec := httptest.NewRecorder()

	require.NoError(t, Session(false)(echoSID)(e.NewContext(req, rec)))
	assert.Equal(t, sid, rec.Body.String())
}

func TestStrictSessionRejects(t *testing.T) {
	e := echo.New()
	for _, v := range []string{"", "not-a-uuid"} {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		if v != "" {
			req.Header.Set(SessionHeader, v)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, Session(true)(echoSID)(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "session required")
	}
}

func TestSessionIDOutsideMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody), httptest.NewRecorder())
	assert.Empty(t, SessionID(c))
}
