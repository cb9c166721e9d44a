package handlers

import (
	"net/http"
	"strconv"

	"food-delivery-storefront/internal/models"
	"food-delivery-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// NotificationHandler handles notification feed requests
type NotificationHandler struct {
	feed services.RealTimeServiceInterface
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(feed services.RealTimeServiceInterface) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// List returns the notification log, newest first
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications := h.feed.Notifications()
	if notifications == nil {
		notifications = []models.NotificationEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  h.feed.UnreadCount(),
		"connected":     h.feed.IsConnected(),
	})
}

// MarkRead marks one notification as read; unknown ids are a no-op
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "notificationID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	h.feed.MarkAsRead(id)
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": h.feed.UnreadCount()})
}

// ClearAll empties the notification log
func (h *NotificationHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	h.feed.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

// UnreadCount returns the number of unread notifications
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": h.feed.UnreadCount()})
}
