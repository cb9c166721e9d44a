package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"food-delivery-storefront/internal/models"
)

// simulatedStatuses are the statuses the generator picks from. The random
// choice stands in for real server push and is not a behavioral contract.
var simulatedStatuses = []models.OrderStatus{
	models.OrderConfirmed,
	models.OrderPreparing,
	models.OrderOutForDelivery,
	models.OrderDelivered,
}

// SimulatedSource generates synthetic status-change events on a bounded
// random interval. A single timer drives it, so ticks never overlap; the
// timer is stopped when the subscription context is cancelled.
type SimulatedSource struct {
	minInterval time.Duration
	maxInterval time.Duration
	rng         *rand.Rand
}

// NewSimulatedSource creates a generator ticking between min and max
func NewSimulatedSource(minInterval, maxInterval time.Duration) *SimulatedSource {
	if maxInterval < minInterval {
		maxInterval = minInterval
	}
	return &SimulatedSource{
		minInterval: minInterval,
		maxInterval: maxInterval,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Subscribe starts the generator. The returned channel closes when ctx is
// cancelled.
func (s *SimulatedSource) Subscribe(ctx context.Context) (<-chan StatusEvent, error) {
	events := make(chan StatusEvent)

	go func() {
		defer close(events)

		timer := time.NewTimer(s.nextInterval())
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				event := StatusEvent{
					OrderID:   fmt.Sprintf("order_%d", time.Now().UnixMilli()),
					Status:    simulatedStatuses[s.rng.Intn(len(simulatedStatuses))],
					Timestamp: time.Now(),
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
				timer.Reset(s.nextInterval())
			}
		}
	}()

	return events, nil
}

func (s *SimulatedSource) nextInterval() time.Duration {
	spread := s.maxInterval - s.minInterval
	if spread <= 0 {
		return s.minInterval
	}
	return s.minInterval + time.Duration(s.rng.Int63n(int64(spread)))
}
