// internal/infrastructure/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
)

// Session token header expected by the ordering backend
const sessionTokenHeader = "X-Table-Session-Token"

// APIError is a non-2xx response from the ordering backend
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend API call failed with status %d: %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether err is a backend 401/403, meaning the presented
// token is no longer accepted server-side.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the remote ordering backend over REST
type Client struct {
	baseURL    string
	tenantID   string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new ordering backend client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:  cfg.Backend.BaseURL,
		tenantID: cfg.Backend.TenantID,
		httpClient: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
		logger: logger,
	}
}

// StartTableSession starts (or rejoins) a table session for the scanned table
func (c *Client) StartTableSession(ctx context.Context, tableID string, req *SessionStartRequest) (*SessionStartResponse, error) {
	var resp SessionStartResponse
	path := fmt.Sprintf("/tables/%s/start-session", tableID)
	if err := c.do(ctx, http.MethodPost, path, req, nil, &resp); err != nil {
		return nil, err
	}
	if resp.SessionToken == "" {
		return nil, fmt.Errorf("backend returned empty session token for table %s", tableID)
	}
	return &resp, nil
}

// AddOrderItem adds one line to the open order of the table session
func (c *Client) AddOrderItem(ctx context.Context, tableID, sessionToken string, req *AddItemRequest) error {
	path := fmt.Sprintf("/tables/%s/orders/items", tableID)
	headers := map[string]string{sessionTokenHeader: sessionToken}
	return c.do(ctx, http.MethodPost, path, req, headers, nil)
}

// GetCurrentOrder fetches the backend's view of the current order for the table session
func (c *Client) GetCurrentOrder(ctx context.Context, tableID, sessionToken string) (*ServerOrder, error) {
	var order ServerOrder
	path := fmt.Sprintf("/tables/%s/orders/current", tableID)
	headers := map[string]string{sessionTokenHeader: sessionToken}
	if err := c.do(ctx, http.MethodGet, path, nil, headers, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// RequestBill asks the backend for the bill of the current table session
func (c *Client) RequestBill(ctx context.Context, tableID, sessionToken string) error {
	path := fmt.Sprintf("/tables/%s/request-bill", tableID)
	headers := map[string]string{sessionTokenHeader: sessionToken}
	return c.do(ctx, http.MethodPost, path, nil, headers, nil)
}

// Login authenticates a customer. A table session token, when present, lets
// the backend link the session to the account.
func (c *Client) Login(ctx context.Context, req *LoginRequest, sessionToken string) (*AuthResponse, error) {
	var resp AuthResponse
	headers := map[string]string{}
	if sessionToken != "" {
		headers[sessionTokenHeader] = sessionToken
	}
	if err := c.do(ctx, http.MethodPost, "/customer/login", req, headers, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new customer account
func (c *Client) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/customer/signup", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginWithGoogle authenticates via a Google ID token
func (c *Client) LoginWithGoogle(ctx context.Context, req *GoogleLoginRequest, sessionToken string) (*AuthResponse, error) {
	var resp AuthResponse
	headers := map[string]string{}
	if sessionToken != "" {
		headers[sessionTokenHeader] = sessionToken
	}
	if err := c.do(ctx, http.MethodPost, "/customer/google", req, headers, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the customer's access token server-side
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	headers := bearerHeader(accessToken)
	return c.do(ctx, http.MethodPost, "/customer/logout", nil, headers, nil)
}

// CurrentCustomer fetches the profile behind an access token
func (c *Client) CurrentCustomer(ctx context.Context, accessToken string) (*Customer, error) {
	var customer Customer
	headers := bearerHeader(accessToken)
	if err := c.do(ctx, http.MethodGet, "/customer/me", nil, headers, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetMenuItems fetches the full menu
func (c *Client) GetMenuItems(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := c.do(ctx, http.MethodGet, "/menu/items", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateOrder submits a checkout order. The bearer token is optional; guest
// checkouts submit without one.
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest, accessToken string) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	var headers map[string]string
	if accessToken != "" {
		headers = bearerHeader(accessToken)
	}
	if err := c.do(ctx, http.MethodPost, "/orders", req, headers, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do makes an HTTP call to the ordering backend
func (c *Client) do(ctx context.Context, method, path string, body interface{}, headers map[string]string, out interface{}) error {
	var reqBody []byte
	var err error

	if body != nil {
		reqBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Content-Type", "application/json")
	if c.tenantID != "" {
		req.Header.Set("X-Tenant-ID", c.tenantID)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make API call: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Debug("Backend API call failed")
		return &APIError{StatusCode: resp.StatusCode, Body: respBody.String()}
	}

	if out != nil && respBody.Len() > 0 {
		if err := json.Unmarshal(respBody.Bytes(), out); err != nil {
			return fmt.Errorf("failed to parse backend response: %w", err)
		}
	}

	return nil
}

func bearerHeader(accessToken string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + accessToken,
	}
}
