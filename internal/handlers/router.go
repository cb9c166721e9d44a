package handlers

import (
	"net/http"
	"time"

	"food-delivery-storefront/internal/middleware"
	"food-delivery-storefront/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

// RouterDeps bundles everything the storefront routes need
type RouterDeps struct {
	Cart         services.CartServiceInterface
	Orders       services.OrderServiceInterface
	Feed         services.RealTimeServiceInterface
	SessionStore sessions.Store
}

// NewRouter builds the storefront JSON API
func NewRouter(deps RouterDeps) *chi.Mux {
	cartHandler := NewCartHandler(deps.Cart)
	orderHandler := NewOrderHandler(deps.Orders, deps.Feed)
	notificationHandler := NewNotificationHandler(deps.Feed)
	sessionHandler := NewSessionHandler(deps.SessionStore, deps.Feed)
	sessionMiddleware := middleware.NewSessionMiddleware(deps.SessionStore)
	sessionLimiter := middleware.NewRateLimiter(10, time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.With(sessionLimiter.Limit).Post("/session", sessionHandler.Start)
	r.Delete("/session", sessionHandler.End)

	// Cart operations work without authentication; browsing customers
	// build a cart before signing in
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddItem)
		r.Post("/conflict", cartHandler.ResolveConflict)
		r.Patch("/items/{lineID}", cartHandler.UpdateQuantity)
		r.Delete("/items/{lineID}", cartHandler.RemoveItem)
	})

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware.RequireSession)

		r.Post("/checkout", orderHandler.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{orderID}", orderHandler.GetOrder)
			r.Get("/{orderID}/tracking", orderHandler.TrackOrder)
			r.Post("/{orderID}/cancel", orderHandler.CancelOrder)
			r.Put("/{orderID}/status", orderHandler.UpdateStatus)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Delete("/", notificationHandler.ClearAll)
			r.Get("/unread-count", notificationHandler.UnreadCount)
			r.Post("/{notificationID}/read", notificationHandler.MarkRead)
		})
	})

	return r
}
