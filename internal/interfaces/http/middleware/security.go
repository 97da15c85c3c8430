package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the browser hardening headers for the gateway. The
// gateway serves JSON only, so framing and inline content are denied outright.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Cache-Control", "no-store")
		c.Header("Server", "Saltbee Gateway")

		c.Next()
	}
}
