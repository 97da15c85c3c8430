// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/domain/session"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// SessionHandler handles table session state endpoints
type SessionHandler struct {
	store   keyval.Store
	backend *backend.Client
	config  *config.Config
	logger  *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		store:   store,
		backend: client,
		config:  cfg,
		logger:  logger,
	}
}

// SetOrderTypeRequest is the payload for choosing dine-in or takeaway
type SetOrderTypeRequest struct {
	OrderType string `json:"order_type" binding:"required,oneof=dine-in takeaway"`
}

// GetSession handles GET /session
func (h *SessionHandler) GetSession(c *gin.Context) {
	container := sessionContainer(c, h.store, h.backend, h.logger)

	state, err := container.State(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load session state",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data": gin.H{
			"table_number":       state.TableNumber,
			"order_type":         state.OrderType,
			"customer_id":        state.CustomerID,
			"is_checkout_locked": state.IsCheckoutLocked,
			"has_active_session": state.HasActiveSession(),
		},
	})
}

// SetOrderType handles POST /session/order-type
func (h *SessionHandler) SetOrderType(c *gin.Context) {
	var req SetOrderTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	container := sessionContainer(c, h.store, h.backend, h.logger)
	if err := container.SetOrderType(c.Request.Context(), session.OrderType(req.OrderType)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store order type",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order type updated successfully",
		"data": gin.H{
			"order_type": req.OrderType,
		},
	})
}

// ResetSession handles POST /session/reset
func (h *SessionHandler) ResetSession(c *gin.Context) {
	container := sessionContainer(c, h.store, h.backend, h.logger)
	if err := container.ResetOrder(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to reset session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session reset successfully",
	})
}
