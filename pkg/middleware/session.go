package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "EAA_SESSION"
	SessionHeader = "X-Session-Id"
	sessionKey    = "sid"
)

// Session resolves the caller's session id from the X-Session-Id header or the
// EAA_SESSION cookie. Without one, a fresh id is minted and set as a cookie,
// unless strict is on, in which case the request is rejected with 401.
func Session(strict bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := lookupSession(c)
			if sid == "" {
				if strict {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session required"})
				}
				sid = NewSession(c)
			}
			c.Set(sessionKey, sid)
			return next(c)
		}
	}
}

// NewSession mints an id, sets the cookie and returns it.
func NewSession(c echo.Context) string {
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{Name: SessionCookie, Value: sid, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	c.Set(sessionKey, sid)
	return sid
}

// SessionID is the id Session stored on the context, "" outside the middleware.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionKey).(string)
	return sid
}

func lookupSession(c echo.Context) string {
	v := strings.TrimSpace(c.Request().Header.Get(SessionHeader))
	if v == "" {
		if ck, err := c.Cookie(SessionCookie); err == nil {
			v = ck.Value
		}
	}
	if _, err := uuid.Parse(v); err != nil {
		return ""
	}
	return v
}
