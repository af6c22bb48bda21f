package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
	"trocagames/pkg/errors"
	"trocagames/pkg/response"
)

const (
	SessionCookie = "trocagames_session"
	sessionKey    = "session"
	cookieMaxAge  = 30 * 24 * time.Hour
)

type SessionMiddleware struct {
	sessions *usecase.SessionStore
	secure   bool
}

func NewSessionMiddleware(sessions *usecase.SessionStore, secureCookie bool) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		secure:   secureCookie,
	}
}

// Require rejects requests without a live session with SESSION_EXPIRED.
func (m *SessionMiddleware) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			return response.Error(c, errors.SessionExpired(err))
		}

		session, err := m.sessions.Get(c.Request().Context(), cookie.Value)
		if err != nil {
			if errors.IsSessionExpired(err) {
				m.ClearCookie(c)
			}
			return response.Error(c, err)
		}

		c.Set(sessionKey, session)
		return next(c)
	}
}

// Optional loads the session when there is one and carries on anonymously otherwise.
func (m *SessionMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookie)
		if err == nil && cookie.Value != "" {
			session, err := m.sessions.Get(c.Request().Context(), cookie.Value)
			if err == nil {
				c.Set(sessionKey, session)
			} else if errors.IsSessionExpired(err) {
				m.ClearCookie(c)
			}
		}
		return next(c)
	}
}

func (m *SessionMiddleware) SetCookie(c echo.Context, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieMaxAge.Seconds()),
	})
}

func (m *SessionMiddleware) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SessionFrom returns the session loaded by Require or Optional, or nil.
func SessionFrom(c echo.Context) *entity.Session {
	session, _ := c.Get(sessionKey).(*entity.Session)
	return session
}
