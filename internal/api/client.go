package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"food-delivery-storefront/internal/models"
)

// Client talks to the external order/restaurant REST service. It is the only
// path through which the storefront core reaches the network; remote failures
// are returned as *Error for the UI layer to surface, never retried silently.
type Client struct {
	baseURL string
	client  *http.Client
}

// Error represents a failed call against the remote API
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote API %s failed: %d %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote API %s failed: %s", e.Op, e.Message)
}

// NewClient creates a client against the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// CreateOrderRequest is the checkout payload sent to the order service
type CreateOrderRequest struct {
	RestaurantID    string                 `json:"restaurant_id"`
	Lines           []models.OrderLine     `json:"lines"`
	DeliveryAddress models.DeliveryAddress `json:"delivery_address"`
}

// CreateOrder places an order from a cart snapshot
func (c *Client) CreateOrder(req *CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do("createOrder", http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FetchOrder retrieves a single order by id
func (c *Client) FetchOrder(orderID string) (*models.Order, error) {
	var order models.Order
	path := "/orders/" + url.PathEscape(orderID)
	if err := c.do("fetchOrder", http.MethodGet, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus sets an order's status (administrative override path)
func (c *Client) UpdateOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	path := "/orders/" + url.PathEscape(orderID) + "/status"
	body := map[string]models.OrderStatus{"status": status}
	if err := c.do("updateOrderStatus", http.MethodPut, path, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders retrieves the authenticated customer's orders
func (c *Client) ListMyOrders() ([]*models.Order, error) {
	var orders []*models.Order
	if err := c.do("listMyOrders", http.MethodGet, "/orders/my-orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// do performs one request and decodes the JSON response into out
func (c *Client) do(op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Message: fmt.Sprintf("build request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Op: op, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}

	return nil
}

// readErrorMessage extracts a message from an error response body
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "no response body"
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	return string(data)
}
