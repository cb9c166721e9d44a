package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"food-delivery-storefront/internal/models"
)

// StatusEvent is one status change arriving from the event source
type StatusEvent struct {
	OrderID   string             `json:"order_id"`
	Status    models.OrderStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

// RealTimeService maintains the bounded notification log and the per-order
// latest-status map fed by an EventSource. It is connected while a session is
// authenticated; disconnecting cancels the subscription and stops emission.
// All state lives behind one mutex.
type RealTimeService struct {
	// connectMu serializes Connect and Disconnect so overlapping calls can
	// never leave two live subscriptions or orphan a cancel handle
	connectMu sync.Mutex

	mu            sync.Mutex
	source        EventSource
	notifications []models.NotificationEvent // newest first
	latestStatus  map[string]models.OrderStatus
	connected     bool
	cancel        context.CancelFunc
	done          chan struct{}
	lastID        int64
}

// NewRealTimeService creates a feed over the given event source
func NewRealTimeService(source EventSource) *RealTimeService {
	return &RealTimeService{
		source:       source,
		latestStatus: make(map[string]models.OrderStatus),
	}
}

// Connect subscribes to the event source and starts consuming. An existing
// subscription is torn down first, so at most one is ever active even when
// calls overlap.
func (s *RealTimeService) Connect(ctx context.Context) error {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()

	s.teardown()

	subCtx, cancel := context.WithCancel(ctx)

	events, err := s.source.Subscribe(subCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to event source: %w", err)
	}

	done := make(chan struct{})

	s.mu.Lock()
	s.connected = true
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.consume(events, done)

	return nil
}

// consume drains the subscription until the source closes it
func (s *RealTimeService) consume(events <-chan StatusEvent, done chan struct{}) {
	defer close(done)

	for event := range events {
		if err := s.EmitStatusChange(event.OrderID, event.Status); err != nil {
			log.Printf("Warning: dropped status event for order %s: %v", event.OrderID, err)
		}
	}

	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
}

// Disconnect cancels the subscription and marks the feed disconnected. It is
// safe to call when not connected.
func (s *RealTimeService) Disconnect() {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()
	s.teardown()
}

// teardown cancels the active subscription and waits for the consumer to
// drain. Callers hold connectMu.
func (s *RealTimeService) teardown() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.connected = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// IsConnected reports whether the feed is currently connected
func (s *RealTimeService) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// EmitStatusChange records latestStatus for the order and appends a
// notification. The change is validated against the canonical lifecycle when
// a prior status is known; the first status seen for an order is accepted
// as externally validated. The feed must be connected; a disconnected feed
// emits nothing.
func (s *RealTimeService) EmitStatusChange(orderID string, status models.OrderStatus) error {
	return s.emit(orderID, status, models.ValidateTransition)
}

// EmitStatusOverride records an administratively set status. Adjacency is
// not enforced but a terminal prior status still rejects the change.
func (s *RealTimeService) EmitStatusOverride(orderID string, status models.OrderStatus) error {
	return s.emit(orderID, status, models.ValidateAdminOverride)
}

func (s *RealTimeService) emit(orderID string, status models.OrderStatus, validate func(from, to models.OrderStatus) error) error {
	if err := models.ValidateStatus(status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return models.ErrNotConnected
	}

	if prior, ok := s.latestStatus[orderID]; ok {
		if err := validate(prior, status); err != nil {
			return err
		}
	}

	s.latestStatus[orderID] = status
	s.append(models.NotificationEvent{
		Type:           models.NotificationOrderUpdate,
		Title:          "Order Update",
		Message:        status.Message(),
		RelatedOrderID: orderID,
	})

	return nil
}

// AddNotification appends an arbitrary notification to the log
func (s *RealTimeService) AddNotification(notifType models.NotificationType, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.append(models.NotificationEvent{
		Type:    notifType,
		Title:   title,
		Message: message,
	})
}

// append prepends a notification and enforces the log bound. Callers hold
// the lock. IDs are time-derived and strictly monotonic even when two events
// land within the same millisecond.
func (s *RealTimeService) append(notification models.NotificationEvent) {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	notification.ID = id
	notification.Timestamp = time.Now()

	s.notifications = append([]models.NotificationEvent{notification}, s.notifications...)
	if len(s.notifications) > models.MaxNotifications {
		s.notifications = s.notifications[:models.MaxNotifications]
	}
}

// MarkAsRead marks a notification as read. Unknown or already-read ids are a
// no-op.
func (s *RealTimeService) MarkAsRead(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return
		}
	}
}

// ClearAll empties the notification log. latestStatus is untouched.
func (s *RealTimeService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// UnreadCount returns the number of unread notifications
func (s *RealTimeService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i := range s.notifications {
		if !s.notifications[i].Read {
			count++
		}
	}
	return count
}

// Notifications returns a newest-first snapshot of the log
func (s *RealTimeService) Notifications() []models.NotificationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]models.NotificationEvent, len(s.notifications))
	copy(snapshot, s.notifications)
	return snapshot
}

// LatestStatus returns the most recent status seen for an order
func (s *RealTimeService) LatestStatus(orderID string) (models.OrderStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.latestStatus[orderID]
	return status, ok
}
