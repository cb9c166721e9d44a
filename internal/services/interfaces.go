package services

import (
	"context"

	"food-delivery-storefront/internal/api"
	"food-delivery-storefront/internal/models"

	"github.com/shopspring/decimal"
)

// CartPersistence is the durable local store the cart writes through to.
// Writes are best-effort: in-memory state is the source of truth for the
// session and a failed write never fails the mutation.
type CartPersistence interface {
	Save(cart *models.Cart) error
	Load() *models.Cart
}

// OrderAPI is the surface of the external order service the core consumes
type OrderAPI interface {
	CreateOrder(req *api.CreateOrderRequest) (*models.Order, error)
	FetchOrder(orderID string) (*models.Order, error)
	UpdateOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error)
	ListMyOrders() ([]*models.Order, error)
}

// EventSource produces order status-change events. The simulated timer
// generator and the AMQP push channel are interchangeable implementations;
// the returned channel closes when the context is cancelled or the source
// shuts down.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan StatusEvent, error)
}

// CartServiceInterface defines the interface for cart operations
type CartServiceInterface interface {
	AddItem(meal *models.Meal, quantity int) (*AddResult, error)
	ResolveConflict(accept bool) (*AddResult, error)
	PendingConflict() *ConflictInfo
	RemoveItem(lineID string) error
	UpdateQuantity(lineID string, quantity int) error
	Clear()
	Snapshot() models.Cart
	ItemCount() int
	Subtotal() decimal.Decimal
	Total() decimal.Decimal
	IsEmpty() bool
}

// OrderServiceInterface defines the interface for order operations
type OrderServiceInterface interface {
	Checkout(address models.DeliveryAddress) (*models.Order, error)
	GetOrder(orderID string) (*models.Order, error)
	ListMyOrders() ([]*models.Order, error)
	CancelOrder(orderID string) (*models.Order, error)
	OverrideStatus(orderID string, status models.OrderStatus) (*models.Order, error)
}

// RealTimeServiceInterface defines the interface for the notification feed
type RealTimeServiceInterface interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
	EmitStatusChange(orderID string, status models.OrderStatus) error
	EmitStatusOverride(orderID string, status models.OrderStatus) error
	AddNotification(notifType models.NotificationType, title, message string)
	MarkAsRead(id int64)
	ClearAll()
	UnreadCount() int
	Notifications() []models.NotificationEvent
	LatestStatus(orderID string) (models.OrderStatus, bool)
}
