package services

import (
	"testing"

	"food-delivery-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepIndex(t *testing.T) {
	tests := []struct {
		status models.OrderStatus
		want   int
	}{
		{models.OrderPending, 0},
		{models.OrderConfirmed, 1},
		{models.OrderPreparing, 2},
		{models.OrderOutForDelivery, 3},
		{models.OrderDelivered, 4},
		{models.OrderCancelled, -1},
		{"unknown", -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StepIndex(tt.status), "StepIndex(%s)", tt.status)
	}
}

func TestProjectTracker_Progress(t *testing.T) {
	view, ok := ProjectTracker("order-1", models.OrderPreparing)
	require.True(t, ok)

	assert.Equal(t, "order-1", view.OrderID)
	assert.Equal(t, models.OrderPreparing, view.Status)
	assert.False(t, view.Delivered)
	require.Len(t, view.Steps, 5)

	// Monotonic completion: everything up to the current step is done,
	// only the current step is active
	for i, step := range view.Steps {
		assert.Equal(t, i <= 2, step.Completed, "step %d completed", i)
		assert.Equal(t, i == 2, step.Active, "step %d active", i)
	}
}

func TestProjectTracker_EstimateCountdown(t *testing.T) {
	tests := []struct {
		status models.OrderStatus
		want   int
	}{
		{models.OrderPending, 30},
		{models.OrderConfirmed, 25},
		{models.OrderPreparing, 20},
		{models.OrderOutForDelivery, 15},
		{models.OrderDelivered, 0},
	}

	for _, tt := range tests {
		view, ok := ProjectTracker("order-1", tt.status)
		require.True(t, ok)
		assert.Equal(t, tt.want, view.EstimatedMinutes, "estimate for %s", tt.status)
		assert.GreaterOrEqual(t, view.EstimatedMinutes, 0)
	}
}

func TestProjectTracker_Delivered(t *testing.T) {
	view, ok := ProjectTracker("order-1", models.OrderDelivered)
	require.True(t, ok)

	assert.True(t, view.Delivered)
	for i, step := range view.Steps {
		assert.True(t, step.Completed, "step %d completed", i)
	}
	assert.True(t, view.Steps[4].Active)
}

func TestProjectTracker_CancelledBypassed(t *testing.T) {
	view, ok := ProjectTracker("order-1", models.OrderCancelled)
	assert.False(t, ok)
	assert.Nil(t, view)
}
