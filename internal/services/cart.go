package services

import (
	"fmt"
	"log"
	"sync"

	"food-delivery-storefront/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService owns the shopping cart and its single-restaurant invariant:
// at most one restaurant's items in the cart at a time. All mutations are
// serialized behind one mutex and persisted write-through after completion,
// so the stored snapshot always reflects the most recently finished mutation.
type CartService struct {
	mu      sync.Mutex
	cart    *models.Cart
	store   CartPersistence
	pending *pendingAdd
}

// pendingAdd holds an add blocked on cross-restaurant confirmation
type pendingAdd struct {
	meal     *models.Meal
	quantity int
}

// AddResult reports the outcome of an add attempt
type AddResult struct {
	Added    bool             `json:"added"`
	Conflict bool             `json:"conflict"`
	Line     *models.CartLine `json:"line,omitempty"`
}

// ConflictInfo describes a pending cross-restaurant add for the caller's
// confirmation UI
type ConflictInfo struct {
	MealName          string `json:"meal_name"`
	NewRestaurantID   string `json:"new_restaurant_id"`
	NewRestaurantName string `json:"new_restaurant_name"`
	CurrentRestaurant string `json:"current_restaurant_id"`
}

// NewCartService creates a cart service, restoring any persisted cart
func NewCartService(store CartPersistence) *CartService {
	return &CartService{
		cart:  store.Load(),
		store: store,
	}
}

// AddItem attempts to add a meal to the cart. Adding from the active
// restaurant (or when none is set) merges into an existing line for the same
// meal or appends a new one. Adding from a different restaurant while one is
// active does not mutate anything: the item is parked and the result reports
// a conflict the caller must settle through ResolveConflict.
func (s *CartService) AddItem(meal *models.Meal, quantity int) (*AddResult, error) {
	if meal == nil {
		return nil, fmt.Errorf("%w: meal is required", models.ErrInvalidInput)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", models.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if meal.HasRestaurant() && s.cart.RestaurantID != "" && s.cart.RestaurantID != meal.Restaurant.ID {
		s.pending = &pendingAdd{meal: meal, quantity: quantity}
		return &AddResult{Conflict: true}, nil
	}

	line := s.applyAdd(meal, quantity)
	s.persist()

	return &AddResult{Added: true, Line: line}, nil
}

// ResolveConflict settles a pending cross-restaurant add. Accepting clears
// the cart, adopts the new restaurant and applies the parked add; declining
// discards it and leaves the cart untouched. Either way the pending slot is
// emptied. Without a pending conflict the call reports nothing applied.
func (s *CartService) ResolveConflict(accept bool) (*AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return &AddResult{}, nil
	}

	pending := s.pending
	s.pending = nil

	if !accept {
		return &AddResult{}, nil
	}

	s.cart.Lines = nil
	s.cart.RestaurantID = ""
	s.cart.DeliveryFee = decimal.Zero

	line := s.applyAdd(pending.meal, pending.quantity)
	s.persist()

	return &AddResult{Added: true, Line: line}, nil
}

// PendingConflict returns the pending cross-restaurant add, or nil
func (s *CartService) PendingConflict() *ConflictInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil
	}

	info := &ConflictInfo{
		MealName:          s.pending.meal.Name,
		CurrentRestaurant: s.cart.RestaurantID,
	}
	if s.pending.meal.HasRestaurant() {
		info.NewRestaurantID = s.pending.meal.Restaurant.ID
		info.NewRestaurantName = s.pending.meal.Restaurant.Name
	}

	return info
}

// applyAdd merges or appends a line for the meal. Callers hold the lock.
// Meals without a restaurant association are accepted but never set the
// active restaurant; a cart left without one adopts the next associated
// meal's restaurant and keeps its existing lines.
func (s *CartService) applyAdd(meal *models.Meal, quantity int) *models.CartLine {
	if s.cart.RestaurantID == "" && meal.HasRestaurant() {
		s.cart.RestaurantID = meal.Restaurant.ID
		s.cart.DeliveryFee = meal.Restaurant.DeliveryFee
	}

	if i := s.cart.FindLineByMeal(meal.ID); i >= 0 {
		s.cart.Lines[i].Quantity += quantity
		return &s.cart.Lines[i]
	}

	s.cart.Lines = append(s.cart.Lines, models.CartLine{
		ID:        uuid.NewString(),
		MealID:    meal.ID,
		MealName:  meal.Name,
		UnitPrice: meal.Price,
		Quantity:  quantity,
	})

	return &s.cart.Lines[len(s.cart.Lines)-1]
}

// RemoveItem removes a line. Emptying the cart resets the active restaurant
// and delivery fee.
func (s *CartService) RemoveItem(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.FindLine(lineID)
	if i < 0 {
		return fmt.Errorf("%w: %s", models.ErrCartLineNotFound, lineID)
	}

	s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
	if s.cart.IsEmpty() {
		s.cart.RestaurantID = ""
		s.cart.DeliveryFee = decimal.Zero
	}
	s.persist()

	return nil
}

// UpdateQuantity sets a line's quantity exactly. A quantity of zero or less
// removes the line instead; a line never survives with quantity below 1.
func (s *CartService) UpdateQuantity(lineID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(lineID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.FindLine(lineID)
	if i < 0 {
		return fmt.Errorf("%w: %s", models.ErrCartLineNotFound, lineID)
	}

	s.cart.Lines[i].Quantity = quantity
	s.persist()

	return nil
}

// Clear empties the cart unconditionally
func (s *CartService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Lines = nil
	s.cart.RestaurantID = ""
	s.cart.DeliveryFee = decimal.Zero
	s.pending = nil
	s.persist()
}

// Snapshot returns a copy of the current cart state
func (s *CartService) Snapshot() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := *s.cart
	snapshot.Lines = make([]models.CartLine, len(s.cart.Lines))
	copy(snapshot.Lines, s.cart.Lines)

	return snapshot
}

// ItemCount returns the sum of all line quantities
func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Subtotal returns the sum of unit price times quantity over all lines
func (s *CartService) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

// Total returns subtotal plus delivery fee plus tax
func (s *CartService) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// IsEmpty reports whether the cart holds no lines
func (s *CartService) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// persist writes the current cart through to durable storage. Callers hold
// the lock. Failures are logged and the in-memory mutation stands.
func (s *CartService) persist() {
	if err := s.store.Save(s.cart); err != nil {
		log.Printf("Warning: failed to persist cart: %v", err)
	}
}
