// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/domain/cart"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	store   keyval.Store
	backend *backend.Client
	config  *config.Config
	logger  *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		store:   store,
		backend: client,
		config:  cfg,
		logger:  logger,
	}
}

// AddItemRequest is the payload for adding a menu item to the cart
type AddItemRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"min=0"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

// UpdateQuantityRequest is the payload for setting a cart line's quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	container := cartContainer(c, h.store, h.backend, h.logger)

	currentCart, err := container.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse(currentCart),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	container := cartContainer(c, h.store, h.backend, h.logger)
	currentCart, err := container.AddItem(c.Request.Context(), cart.Item{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Category: req.Category,
	})
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse(currentCart),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	container := cartContainer(c, h.store, h.backend, h.logger)
	currentCart, err := container.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse(currentCart),
	})
}

// RemoveCartItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	container := cartContainer(c, h.store, h.backend, h.logger)
	currentCart, err := container.RemoveItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse(currentCart),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	container := cartContainer(c, h.store, h.backend, h.logger)
	if err := container.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	if errors.Is(err, cart.ErrCheckoutLocked) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cart is locked after checkout confirmation",
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
	})
}

// cartResponse attaches the derived totals the UI renders next to the lines
func cartResponse(currentCart *cart.Cart) gin.H {
	totals := currentCart.Totals()
	return gin.H{
		"items":       currentCart.Items,
		"updated_at":  currentCart.UpdatedAt,
		"total_items": totals.TotalItems,
		"total_price": totals.TotalPrice,
	}
}
