package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"food-delivery-storefront/internal/api"
	"food-delivery-storefront/internal/models"
	"food-delivery-storefront/internal/services"

	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCartStore is an in-memory cart persistence for testing
type memoryCartStore struct {
	saved *models.Cart
}

func (m *memoryCartStore) Save(cart *models.Cart) error {
	snapshot := *cart
	snapshot.Lines = append([]models.CartLine(nil), cart.Lines...)
	m.saved = &snapshot
	return nil
}

func (m *memoryCartStore) Load() *models.Cart {
	if m.saved == nil {
		return &models.Cart{DeliveryFee: decimal.Zero}
	}
	return m.saved
}

// fakeOrderAPI is an in-memory order service for testing
type fakeOrderAPI struct {
	orders     map[string]*models.Order
	nextID     int
	failCreate bool
}

func newFakeOrderAPI() *fakeOrderAPI {
	return &fakeOrderAPI{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderAPI) CreateOrder(req *api.CreateOrderRequest) (*models.Order, error) {
	if f.failCreate {
		return nil, &api.Error{Op: "createOrder", StatusCode: 503, Message: "service unavailable"}
	}

	f.nextID++
	order := &models.Order{
		ID:              fmt.Sprintf("order-%d", f.nextID),
		RestaurantID:    req.RestaurantID,
		Lines:           req.Lines,
		DeliveryAddress: req.DeliveryAddress,
		Status:          models.OrderPending,
		CreatedAt:       time.Now(),
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderAPI) FetchOrder(orderID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, &api.Error{Op: "fetchOrder", StatusCode: 404, Message: "order not found"}
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderAPI) UpdateOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, &api.Error{Op: "updateOrderStatus", StatusCode: 404, Message: "order not found"}
	}
	order.Status = status
	copied := *order
	return &copied, nil
}

func (f *fakeOrderAPI) ListMyOrders() ([]*models.Order, error) {
	orders := make([]*models.Order, 0, len(f.orders))
	for _, order := range f.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

// stubSource is an event source that never emits on its own
type stubSource struct {
	events chan services.StatusEvent
}

func (s *stubSource) Subscribe(ctx context.Context) (<-chan services.StatusEvent, error) {
	go func() {
		<-ctx.Done()
		close(s.events)
	}()
	return s.events, nil
}

type testEnv struct {
	server *httptest.Server
	client *http.Client
	cart   *services.CartService
	feed   *services.RealTimeService
	api    *fakeOrderAPI
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	cart := services.NewCartService(&memoryCartStore{})
	orderAPI := newFakeOrderAPI()
	orders := services.NewOrderService(orderAPI, cart)
	feed := services.NewRealTimeService(&stubSource{events: make(chan services.StatusEvent)})

	sessionStore := sessions.NewCookieStore([]byte("test-secret"))

	router := NewRouter(RouterDeps{
		Cart:         cart,
		Orders:       orders,
		Feed:         feed,
		SessionStore: sessionStore,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		feed.Disconnect()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server: server,
		client: &http.Client{Jar: jar},
		cart:   cart,
		feed:   feed,
		api:    orderAPI,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/session", map[string]string{"customer_name": "Ada"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, e.feed.IsConnected())
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func addMealBody(mealID, name, restaurantID string, price float64, quantity int) map[string]interface{} {
	meal := map[string]interface{}{
		"id":    mealID,
		"name":  name,
		"price": price,
	}
	if restaurantID != "" {
		meal["restaurant"] = map[string]interface{}{
			"id":           restaurantID,
			"name":         "Restaurant " + restaurantID,
			"delivery_fee": 1.99,
		}
	}
	return map[string]interface{}{"meal": meal, "quantity": quantity}
}

func TestCartEndpoints(t *testing.T) {
	env := setupEnv(t)

	// Add first item
	resp := env.do(t, http.MethodPost, "/cart/items", addMealBody("m1", "Pad Thai", "r1", 9.99, 2))
	var view cartView
	decodeBody(t, resp, &view)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "r1", view.RestaurantID)
	assert.Equal(t, 2, view.ItemCount)
	require.Len(t, view.Lines, 1)

	// Cross-restaurant add reports a conflict and changes nothing
	resp = env.do(t, http.MethodPost, "/cart/items", addMealBody("m2", "Sushi Set", "r2", 14.50, 1))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/cart", nil)
	decodeBody(t, resp, &view)
	assert.Equal(t, "r1", view.RestaurantID)
	require.NotNil(t, view.Conflict)
	assert.Equal(t, "Sushi Set", view.Conflict.MealName)

	// Accepting swaps the cart to the new restaurant
	resp = env.do(t, http.MethodPost, "/cart/conflict", map[string]bool{"accept": true})
	decodeBody(t, resp, &view)
	assert.Equal(t, "r2", view.RestaurantID)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "m2", view.Lines[0].MealID)

	// Update quantity, then remove the last line
	lineID := view.Lines[0].ID
	resp = env.do(t, http.MethodPatch, "/cart/items/"+lineID, map[string]int{"quantity": 3})
	decodeBody(t, resp, &view)
	assert.Equal(t, 3, view.ItemCount)

	resp = env.do(t, http.MethodDelete, "/cart/items/"+lineID, nil)
	view = cartView{} // fields omitted from the response must not inherit stale values
	decodeBody(t, resp, &view)
	assert.True(t, view.IsEmpty)
	assert.Empty(t, view.RestaurantID)
}

func TestCartUnknownLine(t *testing.T) {
	env := setupEnv(t)

	resp := env.do(t, http.MethodDelete, "/cart/items/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutRequiresSession(t *testing.T) {
	env := setupEnv(t)

	resp := env.do(t, http.MethodPost, "/checkout", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutFlow(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t)

	resp := env.do(t, http.MethodPost, "/cart/items", addMealBody("m1", "Pad Thai", "r1", 9.99, 2))
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/checkout", map[string]interface{}{
		"delivery_address": map[string]string{"street": "1 Main St", "city": "Springfield"},
	})
	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.True(t, env.cart.IsEmpty())
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t)
	env.api.failCreate = true

	resp := env.do(t, http.MethodPost, "/cart/items", addMealBody("m1", "Pad Thai", "r1", 9.99, 2))
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/checkout", map[string]interface{}{
		"delivery_address": map[string]string{"street": "1 Main St"},
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()

	assert.False(t, env.cart.IsEmpty())
}

func TestOrderTracking(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t)

	order, err := env.api.CreateOrder(&api.CreateOrderRequest{RestaurantID: "r1"})
	require.NoError(t, err)

	require.NoError(t, env.feed.EmitStatusChange(order.ID, models.OrderPending))
	require.NoError(t, env.feed.EmitStatusChange(order.ID, models.OrderConfirmed))

	resp := env.do(t, http.MethodGet, "/orders/"+order.ID+"/tracking", nil)
	var body struct {
		OrderID  string                `json:"order_id"`
		Status   models.OrderStatus    `json:"status"`
		Tracking *services.TrackerView `json:"tracking"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderConfirmed, body.Status)
	require.NotNil(t, body.Tracking)
	assert.Equal(t, 25, body.Tracking.EstimatedMinutes)
	assert.True(t, body.Tracking.Steps[1].Active)
}

func TestOrderTrackingCancelled(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t)

	order, err := env.api.CreateOrder(&api.CreateOrderRequest{RestaurantID: "r1"})
	require.NoError(t, err)
	_, err = env.api.UpdateOrderStatus(order.ID, models.OrderCancelled)
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/orders/"+order.ID+"/tracking", nil)
	var body struct {
		Status   models.OrderStatus    `json:"status"`
		Tracking *services.TrackerView `json:"tracking"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, models.OrderCancelled, body.Status)
	assert.Nil(t, body.Tracking)
}

func TestOperatorStatusOverride(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t)

	order, err := env.api.CreateOrder(&api.CreateOrderRequest{RestaurantID: "r1"})
	require.NoError(t, err)

	// Override skips adjacency
	resp := env.do(t, http.MethodPut, "/orders/"+order.ID+"/status", map[string]string{"status": "out_for_delivery"})
	var updated models.Order
	decodeBody(t, resp, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderOutForDelivery, updated.Status)

	// The feed saw the override
	status, ok := env.feed.LatestStatus(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.OrderOutForDelivery, status)

	// Terminal orders reject further overrides
	_, err = env.api.UpdateOrderStatus(order.ID, models.OrderDelivered)
	require.NoError(t, err)

	resp = env.do(t, http.MethodPut, "/orders/"+order.ID+"/status", map[string]string{"status": "preparing"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestCancelOrder(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t)

	order, err := env.api.CreateOrder(&api.CreateOrderRequest{RestaurantID: "r1"})
	require.NoError(t, err)

	resp := env.do(t, http.MethodPost, "/orders/"+order.ID+"/cancel", nil)
	var cancelled models.Order
	decodeBody(t, resp, &cancelled)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	// Past pending it is no longer customer-cancellable
	other, err := env.api.CreateOrder(&api.CreateOrderRequest{RestaurantID: "r1"})
	require.NoError(t, err)
	_, err = env.api.UpdateOrderStatus(other.ID, models.OrderPreparing)
	require.NoError(t, err)

	resp = env.do(t, http.MethodPost, "/orders/"+other.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestNotificationEndpoints(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t)

	require.NoError(t, env.feed.EmitStatusChange("order-1", models.OrderConfirmed))
	require.NoError(t, env.feed.EmitStatusChange("order-2", models.OrderConfirmed))

	resp := env.do(t, http.MethodGet, "/notifications", nil)
	var list struct {
		Notifications []models.NotificationEvent `json:"notifications"`
		UnreadCount   int                        `json:"unread_count"`
		Connected     bool                       `json:"connected"`
	}
	decodeBody(t, resp, &list)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.UnreadCount)
	assert.True(t, list.Connected)
	// Newest first
	assert.Equal(t, "order-2", list.Notifications[0].RelatedOrderID)

	// Mark one read
	id := list.Notifications[0].ID
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/notifications/%d/read", id), nil)
	var counts map[string]int
	decodeBody(t, resp, &counts)
	assert.Equal(t, 1, counts["unread_count"])

	// Clear all
	resp = env.do(t, http.MethodDelete, "/notifications", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/notifications/unread-count", nil)
	decodeBody(t, resp, &counts)
	assert.Equal(t, 0, counts["unread_count"])
}

func TestSessionEndDisconnectsFeed(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t)
	require.True(t, env.feed.IsConnected())

	resp := env.do(t, http.MethodDelete, "/session", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	assert.False(t, env.feed.IsConnected())

	// A disconnected feed stops emitting
	err := env.feed.EmitStatusChange("order-1", models.OrderConfirmed)
	assert.ErrorIs(t, err, models.ErrNotConnected)
}
