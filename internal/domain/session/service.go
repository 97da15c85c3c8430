// internal/domain/session/service.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/domain/cart"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// Storage keys, mirrored from the web client's localStorage namespace
const (
	keyTableNumber    = "saltbee-table-number"
	keyOrderType      = "saltbee-order-type"
	keyCheckoutLocked = "saltbee-checkout-locked"
	keySessionToken   = "saltbee-session-token"
	keyCustomerID     = "saltbee-customer-id"
	keyServerOrder    = "saltbee-server-order"
	keyActiveOrders   = "saltbee-active-orders"
)

// ErrNoActiveSession is returned by order mutations when the table number or
// session token is missing. No network call is made in that case.
var ErrNoActiveSession = errors.New("no active table session")

// OrderBackend is the slice of the ordering backend the container needs
type OrderBackend interface {
	AddOrderItem(ctx context.Context, tableID, sessionToken string, req *backend.AddItemRequest) error
	GetCurrentOrder(ctx context.Context, tableID, sessionToken string) (*backend.ServerOrder, error)
	RequestBill(ctx context.Context, tableID, sessionToken string) error
}

// Container is the single source of truth for the device's table/session
// context and for the cached server-side order snapshot. Every field is
// written through to the device-scoped store on change.
type Container struct {
	store   keyval.Store
	backend OrderBackend
	logger  *logrus.Logger
}

// NewContainer creates a session container over the given device-scoped store
func NewContainer(store keyval.Store, orderBackend OrderBackend, logger *logrus.Logger) *Container {
	return &Container{
		store:   store,
		backend: orderBackend,
		logger:  logger,
	}
}

// State loads the persisted session state
func (c *Container) State(ctx context.Context) (*State, error) {
	state := &State{}

	var err error
	if state.TableNumber, err = c.get(ctx, keyTableNumber); err != nil {
		return nil, err
	}
	orderType, err := c.get(ctx, keyOrderType)
	if err != nil {
		return nil, err
	}
	state.OrderType = OrderType(orderType)
	if state.SessionToken, err = c.get(ctx, keySessionToken); err != nil {
		return nil, err
	}
	if state.CustomerID, err = c.get(ctx, keyCustomerID); err != nil {
		return nil, err
	}
	locked, err := c.get(ctx, keyCheckoutLocked)
	if err != nil {
		return nil, err
	}
	state.IsCheckoutLocked = locked == "true"

	return state, nil
}

// SetTableNumber stores the table number; an empty value removes the key
func (c *Container) SetTableNumber(ctx context.Context, table string) error {
	return c.set(ctx, keyTableNumber, table)
}

// SetOrderType stores the order type; an empty value removes the key
func (c *Container) SetOrderType(ctx context.Context, orderType OrderType) error {
	return c.set(ctx, keyOrderType, string(orderType))
}

// SetSessionToken stores the backend-issued table session token. Callers that
// set a fresh token are expected to follow up with OnSessionAcquired.
func (c *Container) SetSessionToken(ctx context.Context, token string) error {
	return c.set(ctx, keySessionToken, token)
}

// SetCustomerID stores the customer identity linked to the session
func (c *Container) SetCustomerID(ctx context.Context, customerID string) error {
	return c.set(ctx, keyCustomerID, customerID)
}

// SetCheckoutLocked sets or clears the checkout lock
func (c *Container) SetCheckoutLocked(ctx context.Context, locked bool) error {
	if !locked {
		return c.store.Delete(ctx, keyCheckoutLocked)
	}
	return c.store.Set(ctx, keyCheckoutLocked, "true")
}

// IsCheckoutLocked probes the checkout lock; store failures read as unlocked
func (c *Container) IsCheckoutLocked(ctx context.Context) bool {
	locked, err := c.get(ctx, keyCheckoutLocked)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read checkout lock")
		return false
	}
	return locked == "true"
}

// ResetOrder clears the table number, order type, checkout lock, session
// token, customer id and the cached server order in one transition. Used when
// a session is intentionally abandoned.
func (c *Container) ResetOrder(ctx context.Context) error {
	keys := []string{
		keyTableNumber,
		keyOrderType,
		keyCheckoutLocked,
		keySessionToken,
		keyCustomerID,
		keyServerOrder,
	}
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to reset session state: %w", err)
		}
	}
	return nil
}

// OnSessionAcquired performs the one-shot snapshot synchronization that
// follows a session token becoming available. Invoked explicitly by whichever
// component sets the token.
func (c *Container) OnSessionAcquired(ctx context.Context) error {
	return c.RefreshOrder(ctx)
}

// RefreshOrder re-reads the current order from the backend and replaces the
// cached snapshot. Missing preconditions make it a no-op. Transient backend
// failures are logged and leave the previous snapshot untouched; an auth or
// not-found failure means the session is dead server-side, so the token and
// snapshot are dropped while table number and order type are kept for the UI
// to prompt a rescan.
func (c *Container) RefreshOrder(ctx context.Context) error {
	state, err := c.State(ctx)
	if err != nil {
		return err
	}
	if !state.HasActiveSession() {
		return nil
	}

	order, err := c.backend.GetCurrentOrder(ctx, state.TableNumber, state.SessionToken)
	if err != nil {
		if backend.IsAuthError(err) || backend.IsNotFound(err) {
			c.logger.WithFields(logrus.Fields{
				"table": state.TableNumber,
			}).Warn("Table session no longer valid, clearing session token")
			if err := c.store.Delete(ctx, keySessionToken); err != nil {
				return fmt.Errorf("failed to clear dead session token: %w", err)
			}
			return c.store.Delete(ctx, keyServerOrder)
		}
		c.logger.WithError(err).Error("Failed to refresh order, keeping previous snapshot")
		return nil
	}

	return c.saveSnapshot(ctx, order)
}

// Snapshot returns the cached server order, or nil when none is cached
func (c *Container) Snapshot(ctx context.Context) (*backend.ServerOrder, error) {
	data, err := c.store.Get(ctx, keyServerOrder)
	if err == keyval.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load order snapshot: %w", err)
	}

	var order backend.ServerOrder
	if err := json.Unmarshal([]byte(data), &order); err != nil {
		c.logger.WithError(err).Warn("Discarding unreadable order snapshot")
		return nil, nil
	}
	return &order, nil
}

// AddToOrder submits cart lines to the backend as individual item adds,
// sequentially so the server observes them in order. It returns the number of
// lines the server accepted; on partial failure the accepted lines remain on
// the server (the backend is the system of record, there is no rollback).
// A missing table number or session token fails immediately with
// ErrNoActiveSession and no network call.
func (c *Container) AddToOrder(ctx context.Context, items []cart.Item) (int, error) {
	state, err := c.State(ctx)
	if err != nil {
		return 0, err
	}
	if !state.HasActiveSession() {
		return 0, ErrNoActiveSession
	}

	added := 0
	for _, item := range items {
		req := &backend.AddItemRequest{
			MenuItemID: item.ID,
			Quantity:   item.Quantity,
		}
		if err := c.backend.AddOrderItem(ctx, state.TableNumber, state.SessionToken, req); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"table":     state.TableNumber,
				"menu_item": item.ID,
				"added":     added,
			}).Error("Order item submission failed")
			return added, fmt.Errorf("failed to add %q to order: %w", item.Name, err)
		}
		added++
	}

	// Resynchronize so the snapshot reflects at least the just-submitted items
	if err := c.RefreshOrder(ctx); err != nil {
		return added, err
	}
	return added, nil
}

// RequestBill posts a bill request for the active table session. Local state
// is not mutated; status changes arrive via the next RefreshOrder.
func (c *Container) RequestBill(ctx context.Context) error {
	state, err := c.State(ctx)
	if err != nil {
		return err
	}
	if !state.HasActiveSession() {
		return ErrNoActiveSession
	}

	if err := c.backend.RequestBill(ctx, state.TableNumber, state.SessionToken); err != nil {
		return fmt.Errorf("failed to request bill: %w", err)
	}
	return nil
}

// CurrentOrder resolves the presentation view of the current order: the
// server snapshot when cached, otherwise the local order history, otherwise
// an explicit empty view.
func (c *Container) CurrentOrder(ctx context.Context) (*CurrentOrderView, error) {
	snapshot, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		return &CurrentOrderView{Source: ViewSourceServer, Server: snapshot}, nil
	}

	history, err := c.ActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		return &CurrentOrderView{Source: ViewSourceLocal, Local: history}, nil
	}

	return &CurrentOrderView{Source: ViewSourceNone}, nil
}

// ActiveOrders returns the client-local order history
func (c *Container) ActiveOrders(ctx context.Context) ([]ActiveOrder, error) {
	data, err := c.store.Get(ctx, keyActiveOrders)
	if err == keyval.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}

	var orders []ActiveOrder
	if err := json.Unmarshal([]byte(data), &orders); err != nil {
		c.logger.WithError(err).Warn("Discarding unreadable order history")
		return nil, nil
	}
	return orders, nil
}

// AppendActiveOrder records a local checkout confirmation in the history list
func (c *Container) AppendActiveOrder(ctx context.Context, order ActiveOrder) error {
	orders, err := c.ActiveOrders(ctx)
	if err != nil {
		return err
	}
	orders = append(orders, order)

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to serialize order history: %w", err)
	}
	if err := c.store.Set(ctx, keyActiveOrders, string(data)); err != nil {
		return fmt.Errorf("failed to persist order history: %w", err)
	}
	return nil
}

func (c *Container) saveSnapshot(ctx context.Context, order *backend.ServerOrder) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to serialize order snapshot: %w", err)
	}
	if err := c.store.Set(ctx, keyServerOrder, string(data)); err != nil {
		return fmt.Errorf("failed to persist order snapshot: %w", err)
	}
	return nil
}

// get reads an optional key; absence maps to the empty string
func (c *Container) get(ctx context.Context, key string) (string, error) {
	value, err := c.store.Get(ctx, key)
	if err == keyval.ErrNotFound {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// set writes through an optional value; the empty value removes the key
// rather than storing a sentinel
func (c *Container) set(ctx context.Context, key, value string) error {
	if value == "" {
		if err := c.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
		return nil
	}
	if err := c.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
