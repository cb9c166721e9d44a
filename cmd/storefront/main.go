package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"food-delivery-storefront/internal/api"
	"food-delivery-storefront/internal/config"
	"food-delivery-storefront/internal/handlers"
	"food-delivery-storefront/internal/services"
	"food-delivery-storefront/internal/storage"

	"github.com/gorilla/sessions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	store, err := storage.NewStore(cfg.Storage.Path)
	if err != nil {
		log.Fatal("Failed to open local store:", err)
	}
	defer store.Close()
	log.Printf("Local store opened at %s", cfg.Storage.Path)

	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	}

	apiClient := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	cartService := services.NewCartService(storage.NewCartStore(store))
	orderService := services.NewOrderService(apiClient, cartService)

	var source services.EventSource
	switch cfg.Feed.Source {
	case "amqp":
		source = services.NewAMQPSource(cfg.Feed.AMQPURL, cfg.Feed.AMQPQueue)
		log.Printf("Real-time feed source: AMQP queue %q", cfg.Feed.AMQPQueue)
	default:
		source = services.NewSimulatedSource(
			time.Duration(cfg.Feed.TickSeconds)*time.Second,
			time.Duration(cfg.Feed.MaxTickSeconds)*time.Second,
		)
		log.Printf("Real-time feed source: simulated generator")
	}
	feed := services.NewRealTimeService(source)
	defer feed.Disconnect()

	router := handlers.NewRouter(handlers.RouterDeps{
		Cart:         cartService,
		Orders:       orderService,
		Feed:         feed,
		SessionStore: sessionStore,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Storefront listening on http://%s (API: %s)", addr, cfg.API.BaseURL)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server failed:", err)
	}
}
