package main

import (
	"encoding/json"
	"flag"
	"log"
	"time"

	"food-delivery-storefront/internal/config"
	"food-delivery-storefront/internal/models"
	"food-delivery-storefront/internal/services"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publish-status pushes one status-change event onto the AMQP queue the
// storefront feed consumes. Useful for exercising the push channel without
// a running order service.
func main() {
	orderID := flag.String("order", "", "order id to update")
	status := flag.String("status", "", "new status (pending|confirmed|preparing|out_for_delivery|delivered|cancelled)")
	flag.Parse()

	if *orderID == "" || *status == "" {
		log.Fatal("Usage: publish-status -order <id> -status <status>")
	}

	if err := models.ValidateStatus(models.OrderStatus(*status)); err != nil {
		log.Fatal("Invalid status:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	conn, err := amqp.Dial(cfg.Feed.AMQPURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open channel:", err)
	}

	if _, err := channel.QueueDeclare(cfg.Feed.AMQPQueue, true, false, false, false, nil); err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	event := services.StatusEvent{
		OrderID:   *orderID,
		Status:    models.OrderStatus(*status),
		Timestamp: time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Fatal("Failed to encode event:", err)
	}

	err = channel.Publish("", cfg.Feed.AMQPQueue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Fatal("Failed to publish event:", err)
	}

	log.Printf("Published %s -> %s to %q", *orderID, *status, cfg.Feed.AMQPQueue)
}
