// internal/interfaces/http/handlers/cart_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Client.CookieName = "device_id"
	cfg.Client.CookieMaxAge = 86400
	cfg.Client.MenuCacheTTL = 5 * time.Minute
	cfg.Backend.BaseURL = "http://backend.invalid"
	cfg.Backend.Timeout = time.Second
	return cfg
}

func testRouter(store keyval.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := testConfig()
	client := backend.NewClient(cfg, logger)
	handler := NewCartHandler(store, client, cfg, logger)

	router := gin.New()
	router.Use(middleware.Device(cfg))
	router.GET("/cart", handler.GetCart)
	router.POST("/cart/items", handler.AddToCart)
	router.PUT("/cart/items/:id", handler.UpdateCartItem)
	router.DELETE("/cart/items/:id", handler.RemoveCartItem)
	router.DELETE("/cart", handler.ClearCart)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Data
}

func TestCartEndpointsRoundTrip(t *testing.T) {
	router := testRouter(keyval.NewMemoryStore())
	device := []*http.Cookie{{Name: "device_id", Value: "device-1"}}

	recorder := doJSON(t, router, http.MethodGet, "/cart", nil, device)
	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeData(t, recorder)
	assert.Empty(t, data["items"])

	item := map[string]interface{}{"id": "bibimbap", "name": "Bibimbap", "price": 1699}
	recorder = doJSON(t, router, http.MethodPost, "/cart/items", item, device)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/cart/items", item, device)
	require.Equal(t, http.StatusOK, recorder.Code)
	data = decodeData(t, recorder)
	assert.Equal(t, float64(2), data["total_items"])
	assert.Equal(t, float64(3398), data["total_price"])

	recorder = doJSON(t, router, http.MethodPut, "/cart/items/bibimbap", map[string]interface{}{"quantity": 5}, device)
	require.Equal(t, http.StatusOK, recorder.Code)
	data = decodeData(t, recorder)
	assert.Equal(t, float64(5), data["total_items"])

	recorder = doJSON(t, router, http.MethodDelete, "/cart/items/bibimbap", nil, device)
	require.Equal(t, http.StatusOK, recorder.Code)
	data = decodeData(t, recorder)
	assert.Empty(t, data["items"])
}

func TestCartAddValidation(t *testing.T) {
	router := testRouter(keyval.NewMemoryStore())
	device := []*http.Cookie{{Name: "device_id", Value: "device-1"}}

	// Missing required fields
	recorder := doJSON(t, router, http.MethodPost, "/cart/items", map[string]interface{}{"price": 100}, device)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCartIsolatedPerDevice(t *testing.T) {
	router := testRouter(keyval.NewMemoryStore())
	deviceA := []*http.Cookie{{Name: "device_id", Value: "device-a"}}
	deviceB := []*http.Cookie{{Name: "device_id", Value: "device-b"}}

	item := map[string]interface{}{"id": "bibimbap", "name": "Bibimbap", "price": 1699}
	recorder := doJSON(t, router, http.MethodPost, "/cart/items", item, deviceA)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/cart", nil, deviceB)
	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeData(t, recorder)
	assert.Empty(t, data["items"])
}

func TestCartLockedAfterCheckout(t *testing.T) {
	store := keyval.NewMemoryStore()
	router := testRouter(store)
	device := []*http.Cookie{{Name: "device_id", Value: "device-1"}}

	// Simulate a confirmed checkout for this device
	require.NoError(t, store.Set(context.Background(), "client:device-1:saltbee-checkout-locked", "true"))

	item := map[string]interface{}{"id": "bibimbap", "name": "Bibimbap", "price": 1699}
	recorder := doJSON(t, router, http.MethodPost, "/cart/items", item, device)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// Reads still work
	recorder = doJSON(t, router, http.MethodGet, "/cart", nil, device)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestDeviceCookieIssuedWhenMissing(t *testing.T) {
	router := testRouter(keyval.NewMemoryStore())

	recorder := doJSON(t, router, http.MethodGet, "/cart", nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == "device_id" && cookie.Value != "" {
			found = true
		}
	}
	assert.True(t, found)
}
