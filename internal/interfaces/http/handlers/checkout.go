// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/domain/checkout"
	"github.com/your-org/saltbee-gateway/internal/domain/session"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// CheckoutHandler handles checkout confirmation
type CheckoutHandler struct {
	store   keyval.Store
	backend *backend.Client
	config  *config.Config
	logger  *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		store:   store,
		backend: client,
		config:  cfg,
		logger:  logger,
	}
}

// Confirm handles POST /checkout
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	var req checkout.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	carts := cartContainer(c, h.store, h.backend, h.logger)
	sessions := sessionContainer(c, h.store, h.backend, h.logger)
	customers := customerService(c, h.store, h.backend, h.logger)
	service := checkout.NewService(carts, sessions, customers, h.backend, h.logger)

	result, err := service.Confirm(c.Request.Context(), &req)
	if err != nil {
		h.writeCheckoutError(c, result, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout confirmed successfully",
		"data":    result,
	})
}

// writeCheckoutError maps checkout failures, keeping the partial result in
// the body so the client can reconcile lines that already reached the server
func (h *CheckoutHandler) writeCheckoutError(c *gin.Context, result *checkout.Result, err error) {
	switch {
	case errors.Is(err, checkout.ErrAlreadyLocked):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Checkout already confirmed for this session",
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, session.ErrNoActiveSession):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No active table session",
		})
	default:
		body := gin.H{
			"error": "Failed to submit order",
		}
		if result != nil {
			body["data"] = result
		}
		c.JSON(http.StatusBadGateway, body)
	}
}
