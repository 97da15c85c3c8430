// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/domain/cart"
	"github.com/your-org/saltbee-gateway/internal/domain/session"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
)

// Tax applied to the checkout summary, in percent
const taxRatePercent = 10

// Payment methods accepted at checkout
const (
	PaymentMethodCard   = "card"
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

var (
	// ErrEmptyCart is returned when confirming with nothing selected
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAlreadyLocked is returned when a checkout was already confirmed
	ErrAlreadyLocked = errors.New("checkout already confirmed for this session")
)

// OrderCreator is the slice of the ordering backend used for takeaway checkout
type OrderCreator interface {
	CreateOrder(ctx context.Context, req *backend.CreateOrderRequest, accessToken string) (*backend.CreateOrderResponse, error)
}

// TokenSource supplies the customer's access token, when authenticated
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// ConfirmRequest is the checkout confirmation input
type ConfirmRequest struct {
	PaymentMethod   string                   `json:"payment_method" binding:"required,oneof=card cash online"`
	CustomerDetails *backend.CustomerDetails `json:"customer_details,omitempty"`
}

// Result summarizes a checkout confirmation. ItemsAdded is meaningful on the
// dine-in path even when confirmation fails partway: it counts the lines the
// backend accepted before the failure.
type Result struct {
	OrderID     string               `json:"order_id,omitempty"`
	OrderType   session.OrderType    `json:"order_type"`
	TableNumber string               `json:"table_number,omitempty"`
	ItemsAdded  int                  `json:"items_added"`
	Subtotal    int64                `json:"subtotal"`
	TaxAmount   int64                `json:"tax_amount"`
	TotalAmount int64                `json:"total_amount"`
	ActiveOrder *session.ActiveOrder `json:"active_order,omitempty"`
}

// Service turns a confirmed cart into a submitted order: through the table
// session for dine-in, or as a standalone order for takeaway. On success it
// records a local order, locks the checkout and clears the cart.
type Service struct {
	cart    *cart.Container
	session *session.Container
	tokens  TokenSource
	orders  OrderCreator
	logger  *logrus.Logger
}

// NewService creates a checkout service composed over the device's containers
func NewService(cartContainer *cart.Container, sessionContainer *session.Container, tokens TokenSource, orders OrderCreator, logger *logrus.Logger) *Service {
	return &Service{
		cart:    cartContainer,
		session: sessionContainer,
		tokens:  tokens,
		orders:  orders,
		logger:  logger,
	}
}

// Confirm performs the checkout. The returned Result carries ItemsAdded even
// on failure so callers can reconcile exactly what reached the server.
func (s *Service) Confirm(ctx context.Context, req *ConfirmRequest) (*Result, error) {
	state, err := s.session.State(ctx)
	if err != nil {
		return nil, err
	}
	if state.IsCheckoutLocked {
		return nil, ErrAlreadyLocked
	}

	currentCart, err := s.cart.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(currentCart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	totals := currentCart.Totals()
	taxAmount := totals.TotalPrice * taxRatePercent / 100
	result := &Result{
		OrderType:   orderTypeFor(state),
		TableNumber: state.TableNumber,
		Subtotal:    totals.TotalPrice,
		TaxAmount:   taxAmount,
		TotalAmount: totals.TotalPrice + taxAmount,
	}

	if state.HasActiveSession() {
		added, err := s.session.AddToOrder(ctx, currentCart.Items)
		result.ItemsAdded = added
		if err != nil {
			return result, err
		}
	} else {
		orderID, err := s.createStandaloneOrder(ctx, state, currentCart, totals, req)
		if err != nil {
			return result, err
		}
		result.OrderID = orderID
		result.ItemsAdded = len(currentCart.Items)
	}

	active := s.buildActiveOrder(currentCart, result, req.PaymentMethod)
	if err := s.session.AppendActiveOrder(ctx, active); err != nil {
		s.logger.WithError(err).Warn("Failed to record local order history")
	} else {
		result.ActiveOrder = &active
	}

	// Clear before locking: the lock blocks cart mutation from here on
	if err := s.cart.Clear(ctx); err != nil {
		return result, err
	}
	if err := s.session.SetCheckoutLocked(ctx, true); err != nil {
		return result, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_type": result.OrderType,
		"items":      result.ItemsAdded,
		"total":      result.TotalAmount,
	}).Info("Checkout confirmed")

	return result, nil
}

func (s *Service) createStandaloneOrder(ctx context.Context, state *session.State, currentCart *cart.Cart, totals cart.Totals, req *ConfirmRequest) (string, error) {
	lines := make([]backend.OrderLine, len(currentCart.Items))
	for i, item := range currentCart.Items {
		lines[i] = backend.OrderLine{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	orderReq := &backend.CreateOrderRequest{
		Items:           lines,
		TotalPrice:      totals.TotalPrice,
		OrderType:       string(orderTypeFor(state)),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   string(paymentStatusFor(req.PaymentMethod)),
		CustomerDetails: req.CustomerDetails,
	}
	if state.TableNumber != "" {
		orderReq.TableNumber = &state.TableNumber
	}

	resp, err := s.orders.CreateOrder(ctx, orderReq, s.tokens.AccessToken(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to submit order: %w", err)
	}
	return resp.OrderID, nil
}

func (s *Service) buildActiveOrder(currentCart *cart.Cart, result *Result, paymentMethod string) session.ActiveOrder {
	items := make([]session.ActiveOrderItem, len(currentCart.Items))
	for i, item := range currentCart.Items {
		items[i] = session.ActiveOrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	return session.ActiveOrder{
		ID:            uuid.New().String(),
		Items:         items,
		Status:        session.ActiveOrderPreparing,
		TotalAmount:   result.TotalAmount,
		Timestamp:     time.Now().UTC(),
		OrderType:     result.OrderType,
		TableNumber:   result.TableNumber,
		PaymentStatus: paymentStatusFor(paymentMethod),
	}
}

func orderTypeFor(state *session.State) session.OrderType {
	if state.OrderType != "" {
		return state.OrderType
	}
	if state.TableNumber != "" {
		return session.OrderTypeDineIn
	}
	return session.OrderTypeTakeaway
}

// Online payments are captured up front; card and cash settle at the counter
func paymentStatusFor(paymentMethod string) session.PaymentStatus {
	if paymentMethod == PaymentMethodOnline {
		return session.PaymentStatusPaid
	}
	return session.PaymentStatusPending
}
