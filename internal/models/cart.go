package models

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the fixed sales tax applied to the cart subtotal. It is a
// policy constant, not configurable per restaurant.
var TaxRate = decimal.NewFromFloat(0.08)

// CartLine represents one distinct orderable item and its quantity
type CartLine struct {
	ID        string          `json:"id"`
	MealID    string          `json:"meal_id"`
	MealName  string          `json:"meal_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price multiplied by quantity
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart represents a shopping cart. All lines belong to the single active
// restaurant; an empty cart has no active restaurant and no delivery fee.
type Cart struct {
	Lines        []CartLine      `json:"lines"`
	RestaurantID string          `json:"restaurant_id,omitempty"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
}

// IsEmpty reports whether the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the sum of all line quantities, not the line count
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Lines {
		count += c.Lines[i].Quantity
	}
	return count
}

// Subtotal returns the sum of unit price times quantity over all lines
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for i := range c.Lines {
		subtotal = subtotal.Add(c.Lines[i].LineTotal())
	}
	return subtotal
}

// Tax returns the sales tax on the subtotal, rounded to cents. The
// delivery fee is not part of the tax base.
func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate).Round(2)
}

// Total returns subtotal plus delivery fee plus tax
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.DeliveryFee).Add(c.Tax())
}

// FindLine returns the index of the line with the given id, or -1
func (c *Cart) FindLine(lineID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// FindLineByMeal returns the index of the line for the given meal, or -1
func (c *Cart) FindLineByMeal(mealID string) int {
	for i := range c.Lines {
		if c.Lines[i].MealID == mealID {
			return i
		}
	}
	return -1
}
