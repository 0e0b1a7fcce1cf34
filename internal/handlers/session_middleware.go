package handlers

import (
	"net/http"
	"strings"

	"alphaDash/internal/services"
	"alphaDash/internal/session"
	"alphaDash/utils"
)

// SessionMiddleware resolves the session handle of a request and attaches the
// restored session to its context.
type SessionMiddleware struct {
	Auth       *services.AuthService
	Tokens     *utils.Manager
	CookieName string
	Logger     services.Logger
}

// Require rejects requests without an authenticated session.
func (m *SessionMiddleware) Require(next http.Handler) http.Handler {
	return m.wrap(next, false, true)
}

// RequireSocket is Require that also reads the handle from the token query
// parameter, since browsers cannot set headers on a WebSocket handshake.
func (m *SessionMiddleware) RequireSocket(next http.Handler) http.Handler {
	return m.wrap(next, true, true)
}

// Optional attaches the session when there is one and never rejects.
func (m *SessionMiddleware) Optional(next http.Handler) http.Handler {
	return m.wrap(next, false, false)
}

func (m *SessionMiddleware) wrap(next http.Handler, allowQuery, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handle := m.handle(r, allowQuery)
		if handle == "" {
			if required {
				writeError(w, http.StatusUnauthorized, "Authorization required")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		sessionID, err := m.Tokens.Parse(handle)
		if err != nil {
			if required {
				writeError(w, http.StatusUnauthorized, "Invalid session")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.Auth.Restore(r.Context(), sessionID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Errorf("restore session %s: %v", sessionID, err)
			}
			writeError(w, http.StatusInternalServerError, "Failed to load session")
			return
		}
		if required && !sess.IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, "Session expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

func (m *SessionMiddleware) handle(r *http.Request, allowQuery bool) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if m.CookieName != "" {
		if c, err := r.Cookie(m.CookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}
	if allowQuery {
		return r.URL.Query().Get("token")
	}
	return ""
}
