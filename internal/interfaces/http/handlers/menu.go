// internal/interfaces/http/handlers/menu.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/domain/menu"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// MenuHandler handles menu endpoints. The menu is shared across devices, so
// the service is built once over the unscoped store.
type MenuHandler struct {
	menuService *menu.Service
	config      *config.Config
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menu.NewService(store, client, cfg.Client.MenuCacheTTL, logger),
		config:      cfg,
	}
}

// GetMenu handles GET /menu/items
func (h *MenuHandler) GetMenu(c *gin.Context) {
	items := h.menuService.Items(c.Request.Context())

	category := c.Query("category")
	if category != "" && category != "all" {
		filtered := make([]backend.MenuItem, 0, len(items))
		for _, item := range items {
			if item.Category == category {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu retrieved successfully",
		"data": gin.H{
			"items":      items,
			"categories": menu.Categories(),
		},
	})
}
