package models

import "errors"

// Common errors used throughout the application
var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMealNotFound       = errors.New("meal not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTerminalStatus     = errors.New("order is in a terminal status")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotConnected       = errors.New("real-time feed is not connected")
)
