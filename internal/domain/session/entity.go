// internal/domain/session/entity.go
package session

import (
	"time"

	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
)

// OrderType distinguishes dine-in table sessions from takeaway orders
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeaway OrderType = "takeaway"
)

// ActiveOrderStatus is the lifecycle of a client-local order record
type ActiveOrderStatus string

const (
	ActiveOrderPreparing ActiveOrderStatus = "preparing"
	ActiveOrderReady     ActiveOrderStatus = "ready"
	ActiveOrderServed    ActiveOrderStatus = "served"
)

// PaymentStatus of a client-local order record
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// State is the persisted table/session context for one device. Empty strings
// mean the value is absent (the corresponding storage key is removed).
type State struct {
	TableNumber      string    `json:"table_number,omitempty"`
	OrderType        OrderType `json:"order_type,omitempty"`
	SessionToken     string    `json:"session_token,omitempty"`
	CustomerID       string    `json:"customer_id,omitempty"`
	IsCheckoutLocked bool      `json:"is_checkout_locked"`
}

// HasActiveSession reports whether order mutations against the table are
// possible (both the table number and the session token are present).
func (s *State) HasActiveSession() bool {
	return s.TableNumber != "" && s.SessionToken != ""
}

// ActiveOrderItem is one line of a client-local order record
type ActiveOrderItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// ActiveOrder is a client-only historical record created at local checkout
// confirmation, used as a fallback display when no server order is available.
type ActiveOrder struct {
	ID            string            `json:"id"`
	Items         []ActiveOrderItem `json:"items"`
	Status        ActiveOrderStatus `json:"status"`
	TotalAmount   int64             `json:"total_amount"`
	Timestamp     time.Time         `json:"timestamp"`
	OrderType     OrderType         `json:"order_type"`
	TableNumber   string            `json:"table_number,omitempty"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
}

// View sources for CurrentOrderView
const (
	ViewSourceServer = "server"
	ViewSourceLocal  = "local"
	ViewSourceNone   = "none"
)

// CurrentOrderView is the presentation-boundary union of the two order
// representations. The server snapshot takes precedence when both exist.
type CurrentOrderView struct {
	Source string               `json:"source"`
	Server *backend.ServerOrder `json:"server,omitempty"`
	Local  []ActiveOrder        `json:"local,omitempty"`
}
