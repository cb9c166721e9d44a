package handlers

import (
	"errors"
	"log"
	"net/http"

	"food-delivery-storefront/internal/models"
	"food-delivery-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// OrderHandler handles checkout, order history and live tracking requests
type OrderHandler struct {
	orders services.OrderServiceInterface
	feed   services.RealTimeServiceInterface
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders services.OrderServiceInterface, feed services.RealTimeServiceInterface) *OrderHandler {
	return &OrderHandler{orders: orders, feed: feed}
}

// Checkout places an order from the current cart
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeliveryAddress models.DeliveryAddress `json:"delivery_address"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.Checkout(req.DeliveryAddress)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Remote failures surface for a user-visible retry; the cart
		// is still intact
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// ListOrders returns the customer's orders with per-status counts
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListMyOrders()
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	for _, order := range orders {
		h.overlayFeedStatus(order)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"counts": services.CountByStatus(orders),
	})
}

// GetOrder returns one order, with the feed's more current status when the
// feed has seen a later change than the last server fetch
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.overlayFeedStatus(order)
	writeJSON(w, http.StatusOK, order)
}

// TrackOrder returns the live tracking projection for an order
func (h *OrderHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	status, ok := h.feed.LatestStatus(orderID)
	if !ok {
		order, err := h.orders.GetOrder(orderID)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		status = order.Status
	}

	view, ok := services.ProjectTracker(orderID, status)
	if !ok {
		// Cancelled orders have no progress display
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"order_id": orderID,
			"status":   status,
			"tracking": nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order_id": orderID,
		"status":   status,
		"tracking": view,
	})
}

// CancelOrder cancels a pending order
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orders.CancelOrder(orderID)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	h.emitToFeed(orderID, models.OrderCancelled, false)
	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus sets an order's status through the operator override path
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.OverrideStatus(orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTerminalStatus), errors.Is(err, models.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, models.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	h.emitToFeed(orderID, req.Status, true)
	writeJSON(w, http.StatusOK, order)
}

// overlayFeedStatus replaces the fetched status with the feed's latest one
func (h *OrderHandler) overlayFeedStatus(order *models.Order) {
	if status, ok := h.feed.LatestStatus(order.ID); ok {
		order.Status = status
	}
}

// emitToFeed propagates a locally initiated status change to the feed so
// notifications and tracking update without waiting for the push channel. A
// disconnected feed is fine; the change is already on the server.
func (h *OrderHandler) emitToFeed(orderID string, status models.OrderStatus, override bool) {
	var err error
	if override {
		err = h.feed.EmitStatusOverride(orderID, status)
	} else {
		err = h.feed.EmitStatusChange(orderID, status)
	}
	if err != nil && !errors.Is(err, models.ErrNotConnected) {
		log.Printf("Warning: failed to emit status change for order %s: %v", orderID, err)
	}
}
