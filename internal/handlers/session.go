package handlers

import (
	"context"
	"net/http"

	"food-delivery-storefront/internal/middleware"
	"food-delivery-storefront/internal/services"

	"github.com/gorilla/sessions"
)

// SessionHandler owns the authenticated-session lifecycle the real-time
// feed is scoped to: the feed connects when a session starts and must stop
// emitting when it ends.
type SessionHandler struct {
	store sessions.Store
	feed  services.RealTimeServiceInterface
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store sessions.Store, feed services.RealTimeServiceInterface) *SessionHandler {
	return &SessionHandler{store: store, feed: feed}
}

// Start begins an authenticated session and connects the feed
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName string `json:"customer_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get session")
		return
	}

	session.Values[middleware.SessionAuthenticatedKey] = true
	session.Values["customer_name"] = req.CustomerName
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	if err := h.feed.Connect(context.Background()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"connected":     h.feed.IsConnected(),
	})
}

// End terminates the session and disconnects the feed
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err == nil {
		session.Values = make(map[interface{}]interface{})
		session.Options.MaxAge = -1
		session.Save(r, w)
	}

	h.feed.Disconnect()

	w.WriteHeader(http.StatusNoContent)
}
