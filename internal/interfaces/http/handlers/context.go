// internal/interfaces/http/handlers/context.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/domain/cart"
	"github.com/your-org/saltbee-gateway/internal/domain/customer"
	"github.com/your-org/saltbee-gateway/internal/domain/session"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// deviceStore narrows the shared store to the requesting device's namespace.
// Every container a handler builds goes through this, so two devices can
// never observe each other's state.
func deviceStore(c *gin.Context, store keyval.Store) keyval.Store {
	return keyval.Prefixed(store, "client:"+middleware.GetDeviceID(c)+":")
}

func sessionContainer(c *gin.Context, store keyval.Store, client *backend.Client, logger *logrus.Logger) *session.Container {
	return session.NewContainer(deviceStore(c, store), client, logger)
}

// cartContainer wires the cart's checkout-lock probe to the same device's
// session container
func cartContainer(c *gin.Context, store keyval.Store, client *backend.Client, logger *logrus.Logger) *cart.Container {
	sessions := sessionContainer(c, store, client, logger)
	return cart.NewContainer(deviceStore(c, store), sessions.IsCheckoutLocked, logger)
}

func customerService(c *gin.Context, store keyval.Store, client *backend.Client, logger *logrus.Logger) *customer.Service {
	return customer.NewService(deviceStore(c, store), client, logger)
}
