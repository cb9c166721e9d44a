package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// Session keys shared between the middleware and the session handler
const (
	SessionName             = "session"
	SessionAuthenticatedKey = "authenticated"
)

// SessionMiddleware guards routes that require an authenticated session
type SessionMiddleware struct {
	store sessions.Store
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(store sessions.Store) *SessionMiddleware {
	return &SessionMiddleware{store: store}
}

// RequireSession rejects requests without an authenticated session
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		authenticated, ok := session.Values[SessionAuthenticatedKey].(bool)
		if !ok || !authenticated {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
