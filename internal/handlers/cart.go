package handlers

import (
	"errors"
	"net/http"

	"food-delivery-storefront/internal/models"
	"food-delivery-storefront/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// CartHandler handles shopping cart requests
type CartHandler struct {
	cart services.CartServiceInterface
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart services.CartServiceInterface) *CartHandler {
	return &CartHandler{cart: cart}
}

// cartView is the JSON shape returned for the current cart
type cartView struct {
	Lines        []models.CartLine      `json:"lines"`
	RestaurantID string                 `json:"restaurant_id,omitempty"`
	DeliveryFee  decimal.Decimal        `json:"delivery_fee"`
	Subtotal     decimal.Decimal        `json:"subtotal"`
	Tax          decimal.Decimal        `json:"tax"`
	Total        decimal.Decimal        `json:"total"`
	ItemCount    int                    `json:"item_count"`
	IsEmpty      bool                   `json:"is_empty"`
	Conflict     *services.ConflictInfo `json:"pending_conflict,omitempty"`
}

func (h *CartHandler) view() cartView {
	snapshot := h.cart.Snapshot()
	lines := snapshot.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}

	return cartView{
		Lines:        lines,
		RestaurantID: snapshot.RestaurantID,
		DeliveryFee:  snapshot.DeliveryFee,
		Subtotal:     snapshot.Subtotal(),
		Tax:          snapshot.Tax(),
		Total:        snapshot.Total(),
		ItemCount:    snapshot.ItemCount(),
		IsEmpty:      snapshot.IsEmpty(),
		Conflict:     h.cart.PendingConflict(),
	}
}

// GetCart returns the cart with derived totals
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

// AddItem adds a meal to the cart. A cross-restaurant add returns 409 with
// the pending conflict; the client settles it through ResolveConflict.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Meal     *models.Meal `json:"meal"`
		Quantity int          `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result, err := h.cart.AddItem(req.Meal, req.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if result.Conflict {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"added":            false,
			"conflict":         true,
			"pending_conflict": h.cart.PendingConflict(),
		})
		return
	}

	writeJSON(w, http.StatusOK, h.view())
}

// ResolveConflict settles a pending cross-restaurant add
func (h *CartHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.cart.ResolveConflict(req.Accept); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.view())
}

// UpdateQuantity sets a line's quantity; zero or below removes the line
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.cart.UpdateQuantity(lineID, req.Quantity); err != nil {
		if errors.Is(err, models.ErrCartLineNotFound) {
			writeError(w, http.StatusNotFound, "cart line not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.view())
}

// RemoveItem removes a line from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	if err := h.cart.RemoveItem(lineID); err != nil {
		if errors.Is(err, models.ErrCartLineNotFound) {
			writeError(w, http.StatusNotFound, "cart line not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.view())
}

// ClearCart empties the cart unconditionally
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	writeJSON(w, http.StatusOK, h.view())
}
