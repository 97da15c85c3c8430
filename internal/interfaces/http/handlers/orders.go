// internal/interfaces/http/handlers/orders.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/domain/session"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// OrderHandler handles current-order endpoints
type OrderHandler struct {
	store   keyval.Store
	backend *backend.Client
	config  *config.Config
	logger  *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		store:   store,
		backend: client,
		config:  cfg,
		logger:  logger,
	}
}

// GetCurrentOrder handles GET /orders/current
func (h *OrderHandler) GetCurrentOrder(c *gin.Context) {
	container := sessionContainer(c, h.store, h.backend, h.logger)

	view, err := container.CurrentOrder(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve current order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Current order retrieved successfully",
		"data":    view,
	})
}

// RefreshOrder handles POST /orders/refresh
func (h *OrderHandler) RefreshOrder(c *gin.Context) {
	container := sessionContainer(c, h.store, h.backend, h.logger)

	if err := container.RefreshOrder(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to refresh order",
		})
		return
	}

	view, err := container.CurrentOrder(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve current order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order refreshed successfully",
		"data":    view,
	})
}

// RequestBill handles POST /orders/request-bill
func (h *OrderHandler) RequestBill(c *gin.Context) {
	container := sessionContainer(c, h.store, h.backend, h.logger)

	if err := container.RequestBill(c.Request.Context()); err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "No active table session",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to request bill",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bill requested successfully",
	})
}
