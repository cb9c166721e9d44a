package services

import (
	"fmt"
	"log"

	"food-delivery-storefront/internal/api"
	"food-delivery-storefront/internal/models"
)

// OrderService handles checkout and order lifecycle operations against the
// external order service
type OrderService struct {
	api  OrderAPI
	cart CartServiceInterface
}

// NewOrderService creates a new order service
func NewOrderService(orderAPI OrderAPI, cart CartServiceInterface) *OrderService {
	return &OrderService{
		api:  orderAPI,
		cart: cart,
	}
}

// Checkout snapshots the cart and places the order. The cart is cleared only
// after the remote call succeeds, so a failed submission never loses cart
// contents.
func (s *OrderService) Checkout(address models.DeliveryAddress) (*models.Order, error) {
	snapshot := s.cart.Snapshot()
	if snapshot.IsEmpty() {
		return nil, fmt.Errorf("%w: cart is empty", models.ErrInvalidInput)
	}

	lines := make([]models.OrderLine, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, models.OrderLine{
			MealID:    line.MealID,
			MealName:  line.MealName,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	order, err := s.api.CreateOrder(&api.CreateOrderRequest{
		RestaurantID:    snapshot.RestaurantID,
		Lines:           lines,
		DeliveryAddress: address,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}

	s.cart.Clear()

	return order, nil
}

// GetOrder retrieves a single order
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	order, err := s.api.FetchOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return order, nil
}

// ListMyOrders retrieves the customer's orders
func (s *OrderService) ListMyOrders() ([]*models.Order, error) {
	orders, err := s.api.ListMyOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// CancelOrder cancels a pending order. Orders past pending are not
// customer-cancellable; the guard runs locally before any remote call.
func (s *OrderService) CancelOrder(orderID string) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanBeCancelled() {
		return nil, fmt.Errorf("order cannot be cancelled in current status: %s", order.Status)
	}

	updated, err := s.api.UpdateOrderStatus(orderID, models.OrderCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	log.Printf("Order %s cancelled by customer", orderID)

	return updated, nil
}

// OverrideStatus sets an order's status through the administrative path. It
// may skip canonical adjacency but still rejects moves out of a terminal
// status; validation runs locally against the last known status before the
// remote call.
func (s *OrderService) OverrideStatus(orderID string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if err := models.ValidateAdminOverride(order.Status, status); err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateOrderStatus(orderID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	log.Printf("Order %s status changed from %s to %s (operator override)", orderID, order.Status, status)

	return updated, nil
}

// CountByStatus tallies orders per status for the operator dashboard filters
func CountByStatus(orders []*models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(orders))
	for _, order := range orders {
		counts[order.Status]++
	}
	return counts
}
