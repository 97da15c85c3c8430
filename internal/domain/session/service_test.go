// internal/domain/session/service_test.go
package session

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/saltbee-gateway/internal/domain/cart"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// mockBackend is a test mock for OrderBackend
type mockBackend struct {
	addCalls     int
	getCalls     int
	billCalls    int
	AddFunc      func(ctx context.Context, tableID, sessionToken string, req *backend.AddItemRequest) error
	GetFunc      func(ctx context.Context, tableID, sessionToken string) (*backend.ServerOrder, error)
	BillFunc     func(ctx context.Context, tableID, sessionToken string) error
	currentOrder *backend.ServerOrder
}

func (m *mockBackend) AddOrderItem(ctx context.Context, tableID, sessionToken string, req *backend.AddItemRequest) error {
	m.addCalls++
	if m.AddFunc != nil {
		return m.AddFunc(ctx, tableID, sessionToken, req)
	}
	return nil
}

func (m *mockBackend) GetCurrentOrder(ctx context.Context, tableID, sessionToken string) (*backend.ServerOrder, error) {
	m.getCalls++
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tableID, sessionToken)
	}
	return m.currentOrder, nil
}

func (m *mockBackend) RequestBill(ctx context.Context, tableID, sessionToken string) error {
	m.billCalls++
	if m.BillFunc != nil {
		return m.BillFunc(ctx, tableID, sessionToken)
	}
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func activeContainer(t *testing.T, mock *mockBackend) (*Container, keyval.Store) {
	t.Helper()
	ctx := context.Background()
	store := keyval.NewMemoryStore()
	container := NewContainer(store, mock, testLogger())
	require.NoError(t, container.SetTableNumber(ctx, "7"))
	require.NoError(t, container.SetSessionToken(ctx, "token-7"))
	return container, store
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	container := NewContainer(keyval.NewMemoryStore(), &mockBackend{}, testLogger())

	state, err := container.State(ctx)
	require.NoError(t, err)
	assert.False(t, state.HasActiveSession())

	require.NoError(t, container.SetTableNumber(ctx, "7"))
	require.NoError(t, container.SetOrderType(ctx, OrderTypeDineIn))
	require.NoError(t, container.SetSessionToken(ctx, "token-7"))
	require.NoError(t, container.SetCustomerID(ctx, "cust-1"))

	state, err = container.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", state.TableNumber)
	assert.Equal(t, OrderTypeDineIn, state.OrderType)
	assert.Equal(t, "token-7", state.SessionToken)
	assert.Equal(t, "cust-1", state.CustomerID)
	assert.True(t, state.HasActiveSession())
}

func TestSetEmptyValueRemovesKey(t *testing.T) {
	ctx := context.Background()
	store := keyval.NewMemoryStore()
	container := NewContainer(store, &mockBackend{}, testLogger())

	require.NoError(t, container.SetTableNumber(ctx, "7"))
	require.NoError(t, container.SetTableNumber(ctx, ""))

	// The key must be gone, not stored as an empty marker
	exists, err := store.Exists(ctx, keyTableNumber)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCheckoutLock(t *testing.T) {
	ctx := context.Background()
	store := keyval.NewMemoryStore()
	container := NewContainer(store, &mockBackend{}, testLogger())

	assert.False(t, container.IsCheckoutLocked(ctx))

	require.NoError(t, container.SetCheckoutLocked(ctx, true))
	assert.True(t, container.IsCheckoutLocked(ctx))

	require.NoError(t, container.SetCheckoutLocked(ctx, false))
	assert.False(t, container.IsCheckoutLocked(ctx))
	exists, err := store.Exists(ctx, keyCheckoutLocked)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAddToOrderWithoutSession(t *testing.T) {
	ctx := context.Background()
	mock := &mockBackend{}
	container := NewContainer(keyval.NewMemoryStore(), mock, testLogger())

	added, err := container.AddToOrder(ctx, []cart.Item{{ID: "bibimbap", Quantity: 1}})
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Zero(t, added)
	// Missing preconditions must not produce network calls
	assert.Zero(t, mock.addCalls)
	assert.Zero(t, mock.getCalls)
}

func TestAddToOrderSubmitsSequentially(t *testing.T) {
	ctx := context.Background()

	var seen []string
	mock := &mockBackend{}
	mock.AddFunc = func(ctx context.Context, tableID, sessionToken string, req *backend.AddItemRequest) error {
		assert.Equal(t, "7", tableID)
		assert.Equal(t, "token-7", sessionToken)
		seen = append(seen, req.MenuItemID)
		return nil
	}
	container, _ := activeContainer(t, mock)

	items := []cart.Item{
		{ID: "bibimbap", Quantity: 2},
		{ID: "bulgogi", Quantity: 1},
	}
	added, err := container.AddToOrder(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"bibimbap", "bulgogi"}, seen)
	// A snapshot refresh follows a successful submission
	assert.Equal(t, 1, mock.getCalls)
}

func TestAddToOrderPartialFailure(t *testing.T) {
	ctx := context.Background()

	mock := &mockBackend{}
	mock.AddFunc = func(ctx context.Context, tableID, sessionToken string, req *backend.AddItemRequest) error {
		if req.MenuItemID == "bulgogi" {
			return &backend.APIError{StatusCode: 500, Body: "boom"}
		}
		return nil
	}
	container, _ := activeContainer(t, mock)

	items := []cart.Item{
		{ID: "bibimbap", Quantity: 1},
		{ID: "bulgogi", Quantity: 1},
		{ID: "japchae", Quantity: 1},
	}
	added, err := container.AddToOrder(ctx, items)
	require.Error(t, err)
	// The first line stuck server-side; the failing line stopped the batch
	assert.Equal(t, 1, added)
	assert.Equal(t, 2, mock.addCalls)
}

func TestRefreshOrderWithoutSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	mock := &mockBackend{}
	container := NewContainer(keyval.NewMemoryStore(), mock, testLogger())

	require.NoError(t, container.RefreshOrder(ctx))
	assert.Zero(t, mock.getCalls)
}

func TestRefreshOrderStoresSnapshot(t *testing.T) {
	ctx := context.Background()
	mock := &mockBackend{currentOrder: &backend.ServerOrder{Status: "active"}}
	container, _ := activeContainer(t, mock)

	require.NoError(t, container.RefreshOrder(ctx))

	snapshot, err := container.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "active", snapshot.Status)
}

func TestRefreshOrderDeadSessionClearsToken(t *testing.T) {
	ctx := context.Background()
	mock := &mockBackend{currentOrder: &backend.ServerOrder{Status: "active"}}
	container, store := activeContainer(t, mock)
	require.NoError(t, container.SetOrderType(ctx, OrderTypeDineIn))
	require.NoError(t, container.RefreshOrder(ctx))

	// The backend now rejects the token
	mock.GetFunc = func(ctx context.Context, tableID, sessionToken string) (*backend.ServerOrder, error) {
		return nil, &backend.APIError{StatusCode: 401}
	}
	require.NoError(t, container.RefreshOrder(ctx))

	state, err := container.State(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.SessionToken)
	// Table number and order type survive so the UI can prompt a rescan
	assert.Equal(t, "7", state.TableNumber)
	assert.Equal(t, OrderTypeDineIn, state.OrderType)

	exists, err := store.Exists(ctx, keyServerOrder)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRefreshOrderTransientFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	mock := &mockBackend{currentOrder: &backend.ServerOrder{Status: "active"}}
	container, _ := activeContainer(t, mock)
	require.NoError(t, container.RefreshOrder(ctx))

	mock.GetFunc = func(ctx context.Context, tableID, sessionToken string) (*backend.ServerOrder, error) {
		return nil, &backend.APIError{StatusCode: 503}
	}
	require.NoError(t, container.RefreshOrder(ctx))

	// Previous snapshot and session survive the outage
	snapshot, err := container.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotNil(t, snapshot)
	state, err := container.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-7", state.SessionToken)
}

func TestResetOrderThenRefreshMakesNoCall(t *testing.T) {
	ctx := context.Background()
	mock := &mockBackend{currentOrder: &backend.ServerOrder{Status: "active"}}
	container, _ := activeContainer(t, mock)
	require.NoError(t, container.RefreshOrder(ctx))
	callsBefore := mock.getCalls

	require.NoError(t, container.ResetOrder(ctx))
	require.NoError(t, container.RefreshOrder(ctx))
	assert.Equal(t, callsBefore, mock.getCalls)

	state, err := container.State(ctx)
	require.NoError(t, err)
	assert.False(t, state.HasActiveSession())
	snapshot, err := container.Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestRequestBillRequiresSession(t *testing.T) {
	ctx := context.Background()
	mock := &mockBackend{}
	container := NewContainer(keyval.NewMemoryStore(), mock, testLogger())

	err := container.RequestBill(ctx)
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Zero(t, mock.billCalls)

	container, _ = activeContainer(t, mock)
	require.NoError(t, container.RequestBill(ctx))
	assert.Equal(t, 1, mock.billCalls)
}

func TestCurrentOrderPrecedence(t *testing.T) {
	ctx := context.Background()
	mock := &mockBackend{currentOrder: &backend.ServerOrder{Status: "active"}}
	container, _ := activeContainer(t, mock)

	// Nothing cached, no history
	view, err := container.CurrentOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, ViewSourceNone, view.Source)

	// Local history only
	require.NoError(t, container.AppendActiveOrder(ctx, ActiveOrder{ID: "local-1"}))
	view, err = container.CurrentOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, ViewSourceLocal, view.Source)
	require.Len(t, view.Local, 1)

	// A server snapshot wins over local history
	require.NoError(t, container.RefreshOrder(ctx))
	view, err = container.CurrentOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, ViewSourceServer, view.Source)
	require.NotNil(t, view.Server)
	assert.Equal(t, "active", view.Server.Status)
}

func TestActiveOrdersAppend(t *testing.T) {
	ctx := context.Background()
	container := NewContainer(keyval.NewMemoryStore(), &mockBackend{}, testLogger())

	require.NoError(t, container.AppendActiveOrder(ctx, ActiveOrder{ID: "one"}))
	require.NoError(t, container.AppendActiveOrder(ctx, ActiveOrder{ID: "two"}))

	orders, err := container.ActiveOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "one", orders[0].ID)
	assert.Equal(t, "two", orders[1].ID)
}
