package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// validStatusTransitions is the canonical forward-only lifecycle. Cancellation
// is reachable from pending only; delivered and cancelled are terminal.
var validStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderConfirmed, OrderCancelled},
	OrderConfirmed:      {OrderPreparing},
	OrderPreparing:      {OrderOutForDelivery},
	OrderOutForDelivery: {OrderDelivered},
	OrderDelivered:      {},
	OrderCancelled:      {},
}

// DeliveryAddress represents a structured delivery address
type DeliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	Phone   string `json:"phone"`
}

// OrderLine is an immutable snapshot of a cart line taken at checkout time.
// Later menu price changes never retroactively affect a placed order.
type OrderLine struct {
	MealID    string          `json:"meal_id"`
	MealName  string          `json:"meal_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Order represents an order placed against the external order service. The
// client holds a read-mostly cached copy; Status may be more current than the
// last server fetch when updated by the real-time feed.
type Order struct {
	ID              string          `json:"id"`
	RestaurantID    string          `json:"restaurant_id"`
	Lines           []OrderLine     `json:"lines"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ValidateStatus checks that a status is one of the known lifecycle values
func ValidateStatus(status OrderStatus) error {
	if _, ok := validStatusTransitions[status]; !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return nil
}

// ValidateTransition checks a status change against the canonical lifecycle.
// Transitions not present in the table fail with ErrInvalidTransition and
// must leave the caller's state unchanged.
func ValidateTransition(from, to OrderStatus) error {
	allowed, ok := validStatusTransitions[from]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, from)
	}
	for _, status := range allowed {
		if status == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// ValidateAdminOverride checks a status change on the administrative path.
// The operator-facing control surface may skip adjacency, but transitions out
// of a terminal status are still rejected.
func ValidateAdminOverride(from, to OrderStatus) error {
	if err := ValidateStatus(to); err != nil {
		return err
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: cannot leave %s", ErrTerminalStatus, from)
	}
	return nil
}

// IsTerminal returns true if no further transition is defined from the status
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// DisplayName returns a human-readable status name
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderPending:
		return "Order Placed"
	case OrderConfirmed:
		return "Confirmed"
	case OrderPreparing:
		return "Preparing"
	case OrderOutForDelivery:
		return "Out for Delivery"
	case OrderDelivered:
		return "Delivered"
	case OrderCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Message returns the customer-facing text used for status notifications
func (s OrderStatus) Message() string {
	switch s {
	case OrderConfirmed:
		return "Your order has been confirmed!"
	case OrderPreparing:
		return "Your order is being prepared"
	case OrderOutForDelivery:
		return "Your order is out for delivery"
	case OrderDelivered:
		return "Your order has been delivered!"
	case OrderCancelled:
		return "Your order has been cancelled"
	default:
		return "Order status updated"
	}
}

// IsPending returns true if the order is pending
func (o *Order) IsPending() bool {
	return o.Status == OrderPending
}

// CanBeCancelled returns true if the customer may still cancel the order.
// Only placed-but-unconfirmed orders are customer-cancellable.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPending
}

// ItemCount returns the total quantity across the order's lines
func (o *Order) ItemCount() int {
	count := 0
	for i := range o.Lines {
		count += o.Lines[i].Quantity
	}
	return count
}
