package models

import "time"

// NotificationType classifies entries in the notification log
type NotificationType string

const (
	NotificationOrderUpdate NotificationType = "order_update"
	NotificationSystem      NotificationType = "system"
)

// MaxNotifications bounds the notification log; the oldest entries are
// evicted first once the cap is exceeded.
const MaxNotifications = 50

// NotificationEvent represents one entry in the bounded notification log
type NotificationEvent struct {
	ID             int64            `json:"id"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Timestamp      time.Time        `json:"timestamp"`
	Read           bool             `json:"read"`
	RelatedOrderID string           `json:"related_order_id,omitempty"`
}
