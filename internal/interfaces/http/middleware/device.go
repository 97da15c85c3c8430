// internal/interfaces/http/middleware/device.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/saltbee-gateway/internal/config"
)

const deviceIDKey = "device_id"

// Device identifies the browsing device with a cookie, the gateway's
// equivalent of the web client's per-browser localStorage namespace. All
// client state is scoped to this id.
func Device(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, err := c.Cookie(cfg.Client.CookieName)
		if err != nil || deviceID == "" {
			deviceID = uuid.New().String()
			c.SetCookie(cfg.Client.CookieName, deviceID, cfg.Client.CookieMaxAge, "/", "", false, true)
		}

		c.Set(deviceIDKey, deviceID)
		c.Next()
	}
}

// GetDeviceID returns the device id attached by the Device middleware
func GetDeviceID(c *gin.Context) string {
	deviceID, _ := c.Get(deviceIDKey)
	id, _ := deviceID.(string)
	return id
}
