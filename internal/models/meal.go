package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restaurant represents a restaurant in the catalog
type Restaurant struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Cuisine     string          `json:"cuisine"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Rating      float64         `json:"rating"`
	ImageURL    string          `json:"image_url"`
	IsOpen      bool            `json:"is_open"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Meal represents a single orderable menu item. The owning restaurant is
// embedded when the catalog returns it populated; incomplete catalog data may
// leave it nil.
type Meal struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Available   bool            `json:"available"`
	Restaurant  *Restaurant     `json:"restaurant,omitempty"`
}

// HasRestaurant reports whether the meal carries a restaurant association.
// Meals without one can still be added to a cart but never set the active
// restaurant (incomplete catalog data must not poison the cart invariant).
func (m *Meal) HasRestaurant() bool {
	return m.Restaurant != nil && m.Restaurant.ID != ""
}
