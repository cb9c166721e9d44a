package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSource is the production push channel: it consumes status-change
// events from a RabbitMQ queue and is a drop-in replacement for the
// simulated generator. Reconnect/backoff policy is left to the deployment
// supervising the process.
type AMQPSource struct {
	url   string
	queue string
}

// NewAMQPSource creates a source consuming from the given queue
func NewAMQPSource(url, queue string) *AMQPSource {
	return &AMQPSource{url: url, queue: queue}
}

// Subscribe connects to the broker and starts consuming. The returned
// channel closes when ctx is cancelled or the broker connection is lost.
func (s *AMQPSource) Subscribe(ctx context.Context) (<-chan StatusEvent, error) {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := channel.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %q: %w", s.queue, err)
	}

	deliveries, err := channel.Consume(s.queue, "", false, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to consume from %q: %w", s.queue, err)
	}

	events := make(chan StatusEvent)

	go func() {
		defer close(events)
		defer conn.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					log.Printf("Warning: RabbitMQ delivery channel closed")
					return
				}

				var event StatusEvent
				if err := json.Unmarshal(delivery.Body, &event); err != nil {
					log.Printf("Warning: discarding malformed status event: %v", err)
					delivery.Nack(false, false)
					continue
				}

				select {
				case events <- event:
					delivery.Ack(false)
				case <-ctx.Done():
					delivery.Nack(false, true)
					return
				}
			}
		}
	}()

	return events, nil
}
