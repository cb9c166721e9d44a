package storage

import (
	"fmt"
	"log"

	"food-delivery-storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Keys under which cart state is persisted. cartRestaurantKey is removed
// whenever the cart is empty.
const (
	cartKey           = "cart"
	cartRestaurantKey = "cartRestaurant"
)

// cartRestaurant identifies the active restaurant for a persisted cart
type cartRestaurant struct {
	ID          string          `json:"id"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

// CartStore persists cart snapshots to the local store
type CartStore struct {
	store *Store
}

// NewCartStore creates a cart store on top of a local store
func NewCartStore(store *Store) *CartStore {
	return &CartStore{store: store}
}

// Save writes the cart snapshot. Lines and the active restaurant live under
// separate keys; the restaurant key is dropped when the cart is empty.
func (c *CartStore) Save(cart *models.Cart) error {
	if err := c.store.Put(cartKey, cart.Lines); err != nil {
		return fmt.Errorf("failed to persist cart lines: %w", err)
	}

	if cart.IsEmpty() {
		if err := c.store.Delete(cartRestaurantKey); err != nil {
			return fmt.Errorf("failed to clear cart restaurant: %w", err)
		}
		return nil
	}

	restaurant := cartRestaurant{ID: cart.RestaurantID, DeliveryFee: cart.DeliveryFee}
	if err := c.store.Put(cartRestaurantKey, restaurant); err != nil {
		return fmt.Errorf("failed to persist cart restaurant: %w", err)
	}

	return nil
}

// Load reads the persisted cart. Corrupt or missing state yields an empty
// cart rather than an error; the session starts clean either way.
func (c *CartStore) Load() *models.Cart {
	cart := &models.Cart{DeliveryFee: decimal.Zero}

	var lines []models.CartLine
	found, err := c.store.Get(cartKey, &lines)
	if err != nil {
		log.Printf("Warning: failed to load saved cart, starting empty: %v", err)
		return cart
	}
	if !found {
		return cart
	}
	cart.Lines = lines

	var restaurant cartRestaurant
	found, err = c.store.Get(cartRestaurantKey, &restaurant)
	if err != nil {
		log.Printf("Warning: failed to load cart restaurant, starting empty: %v", err)
		return &models.Cart{DeliveryFee: decimal.Zero}
	}
	if found {
		cart.RestaurantID = restaurant.ID
		cart.DeliveryFee = restaurant.DeliveryFee
	}

	// An empty cart never carries restaurant state, even when a stale
	// restaurant key survived
	if cart.IsEmpty() {
		cart.RestaurantID = ""
		cart.DeliveryFee = decimal.Zero
	}

	return cart
}

// Clear removes all persisted cart state
func (c *CartStore) Clear() error {
	if err := c.store.Delete(cartKey); err != nil {
		return err
	}
	return c.store.Delete(cartRestaurantKey)
}
