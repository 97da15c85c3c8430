// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// Storage key, mirrored from the web client's localStorage namespace
const storageKey = "saltbee-cart"

// ErrCheckoutLocked is returned for cart mutations after a checkout has been
// confirmed and before the session is reset.
var ErrCheckoutLocked = errors.New("cart is locked after checkout confirmation")

// LockProbe reports whether the checkout lock is currently set. The session
// container owns the flag; the cart only consults it.
type LockProbe func(ctx context.Context) bool

// Container holds the customer's not-yet-submitted selection, persisted
// through the keyval store on every mutation.
type Container struct {
	store     keyval.Store
	lockProbe LockProbe
	logger    *logrus.Logger
}

// NewContainer creates a cart container over the given device-scoped store.
// lockProbe may be nil when no checkout lock applies.
func NewContainer(store keyval.Store, lockProbe LockProbe, logger *logrus.Logger) *Container {
	return &Container{
		store:     store,
		lockProbe: lockProbe,
		logger:    logger,
	}
}

// Get returns the current cart, rehydrated from the store
func (c *Container) Get(ctx context.Context) (*Cart, error) {
	return c.load(ctx)
}

// AddItem adds one unit of the given menu item. An existing line with the
// same ID is incremented instead of duplicated.
func (c *Container) AddItem(ctx context.Context, item Item) (*Cart, error) {
	if err := c.checkLock(ctx); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, fmt.Errorf("cart item requires an id")
	}

	cart, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	if existing := cart.Find(item.ID); existing != nil {
		existing.Quantity++
		existing.Price = item.Price // Update price in case it changed
	} else {
		item.Quantity = 1
		cart.Items = append(cart.Items, item)
	}

	if err := c.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line; quantities are never persisted as zero or negative.
func (c *Container) UpdateQuantity(ctx context.Context, id string, quantity int) (*Cart, error) {
	if err := c.checkLock(ctx); err != nil {
		return nil, err
	}

	cart, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID != id {
			continue
		}
		if quantity <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			cart.Items[i].Quantity = quantity
		}
		found = true
		break
	}

	if !found {
		if quantity <= 0 {
			// Removing an absent line is a no-op
			return cart, nil
		}
		return nil, fmt.Errorf("item not found in cart")
	}

	if err := c.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a line unconditionally
func (c *Container) RemoveItem(ctx context.Context, id string) (*Cart, error) {
	return c.UpdateQuantity(ctx, id, 0)
}

// Clear empties the cart. It bypasses the checkout lock because a confirmed
// checkout clears the cart as part of the same transition that sets the lock.
func (c *Container) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (c *Container) checkLock(ctx context.Context) error {
	if c.lockProbe != nil && c.lockProbe(ctx) {
		return ErrCheckoutLocked
	}
	return nil
}

func (c *Container) load(ctx context.Context) (*Cart, error) {
	data, err := c.store.Get(ctx, storageKey)
	if err == keyval.ErrNotFound {
		return &Cart{Items: []Item{}}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		// A corrupt document would otherwise wedge the device permanently
		c.logger.WithError(err).Warn("Discarding unreadable cart state")
		return &Cart{Items: []Item{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []Item{}
	}
	return &cart, nil
}

func (c *Container) save(ctx context.Context, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	if err := c.store.Set(ctx, storageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
