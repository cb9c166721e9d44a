package services

import (
	"food-delivery-storefront/internal/models"
)

// Estimated-delivery display heuristic: start at 30 minutes, shave 5 for
// each step the order advances, never below zero. Not derived from real
// logistics data.
const (
	trackerInitialMinutes = 30
	trackerMinutesPerStep = 5
)

// trackerSequence is the canonical customer-visible progress path.
// Cancellation is not a step; cancelled orders bypass the projection.
var trackerSequence = []struct {
	Status      models.OrderStatus
	Label       string
	Description string
}{
	{models.OrderPending, "Order Placed", "Your order has been received"},
	{models.OrderConfirmed, "Confirmed", "Restaurant confirmed your order"},
	{models.OrderPreparing, "Preparing", "Your food is being prepared"},
	{models.OrderOutForDelivery, "Out for Delivery", "Your order is on the way"},
	{models.OrderDelivered, "Delivered", "Order delivered successfully"},
}

// TrackerStep is one step in the rendered progress display
type TrackerStep struct {
	Status      models.OrderStatus `json:"status"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	Completed   bool               `json:"completed"`
	Active      bool               `json:"active"`
}

// TrackerView is the read-side view model for live order tracking. It owns
// no state; it is recomputed from the feed's latest status on every change.
type TrackerView struct {
	OrderID          string             `json:"order_id"`
	Status           models.OrderStatus `json:"status"`
	EstimatedMinutes int                `json:"estimated_minutes"`
	Delivered        bool               `json:"delivered"`
	Steps            []TrackerStep      `json:"steps"`
}

// StepIndex returns the position of a status in the canonical sequence, or
// -1 for statuses outside it (cancelled, unknown).
func StepIndex(status models.OrderStatus) int {
	for i, step := range trackerSequence {
		if step.Status == status {
			return i
		}
	}
	return -1
}

// ProjectTracker derives the progress display for an order's current status.
// It returns false for statuses outside the canonical path; callers render
// nothing for those.
func ProjectTracker(orderID string, status models.OrderStatus) (*TrackerView, bool) {
	current := StepIndex(status)
	if current < 0 {
		return nil, false
	}

	view := &TrackerView{
		OrderID:          orderID,
		Status:           status,
		EstimatedMinutes: estimatedMinutes(current),
		Delivered:        status == models.OrderDelivered,
		Steps:            make([]TrackerStep, 0, len(trackerSequence)),
	}

	for i, step := range trackerSequence {
		view.Steps = append(view.Steps, TrackerStep{
			Status:      step.Status,
			Label:       step.Label,
			Description: step.Description,
			Completed:   i <= current,
			Active:      i == current,
		})
	}

	return view, true
}

// estimatedMinutes counts the estimate down as the order advances, floored
// at zero. A delivered order has nothing left to wait for.
func estimatedMinutes(stepIndex int) int {
	if trackerSequence[stepIndex].Status == models.OrderDelivered {
		return 0
	}

	minutes := trackerInitialMinutes - stepIndex*trackerMinutesPerStep
	if minutes < 0 {
		minutes = 0
	}
	return minutes
}
