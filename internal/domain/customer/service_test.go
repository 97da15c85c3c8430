// internal/domain/customer/service_test.go
package customer

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// mockAuthBackend is a test mock for AuthBackend
type mockAuthBackend struct {
	loginCalls   int
	logoutCalls  int
	currentCalls int
	lastSession  string
	LoginFunc    func(ctx context.Context, req *backend.LoginRequest, sessionToken string) (*backend.AuthResponse, error)
	SignupFunc   func(ctx context.Context, req *backend.SignupRequest) (*backend.AuthResponse, error)
	GoogleFunc   func(ctx context.Context, req *backend.GoogleLoginRequest, sessionToken string) (*backend.AuthResponse, error)
	LogoutFunc   func(ctx context.Context, accessToken string) error
	CurrentFunc  func(ctx context.Context, accessToken string) (*backend.Customer, error)
}

func (m *mockAuthBackend) Login(ctx context.Context, req *backend.LoginRequest, sessionToken string) (*backend.AuthResponse, error) {
	m.loginCalls++
	m.lastSession = sessionToken
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req, sessionToken)
	}
	return &backend.AuthResponse{AccessToken: "access-token"}, nil
}

func (m *mockAuthBackend) Signup(ctx context.Context, req *backend.SignupRequest) (*backend.AuthResponse, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return &backend.AuthResponse{AccessToken: "access-token"}, nil
}

func (m *mockAuthBackend) LoginWithGoogle(ctx context.Context, req *backend.GoogleLoginRequest, sessionToken string) (*backend.AuthResponse, error) {
	m.lastSession = sessionToken
	if m.GoogleFunc != nil {
		return m.GoogleFunc(ctx, req, sessionToken)
	}
	return &backend.AuthResponse{AccessToken: "google-token"}, nil
}

func (m *mockAuthBackend) Logout(ctx context.Context, accessToken string) error {
	m.logoutCalls++
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accessToken)
	}
	return nil
}

func (m *mockAuthBackend) CurrentCustomer(ctx context.Context, accessToken string) (*backend.Customer, error) {
	m.currentCalls++
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, accessToken)
	}
	return &backend.Customer{ID: "cust-1", Name: "Mina"}, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func signedJWT(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "cust-1",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestLoginStoresTokenAndFetchesProfile(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	store := keyval.NewMemoryStore()
	service := NewService(store, mock, testLogger())

	result, err := service.Login(ctx, "mina@example.com", "secret", "session-token")
	require.NoError(t, err)
	require.NotNil(t, result.Customer)
	assert.Equal(t, "Mina", result.Customer.Name)
	assert.Equal(t, "session-token", mock.lastSession)

	assert.Equal(t, "access-token", service.AccessToken(ctx))
}

func TestLoginReportsSessionLinked(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	mock.LoginFunc = func(ctx context.Context, req *backend.LoginRequest, sessionToken string) (*backend.AuthResponse, error) {
		return &backend.AuthResponse{AccessToken: "access-token", SessionLinked: true}, nil
	}
	service := NewService(keyval.NewMemoryStore(), mock, testLogger())

	result, err := service.Login(ctx, "mina@example.com", "secret", "session-token")
	require.NoError(t, err)
	assert.True(t, result.SessionLinked)
}

func TestLoginProfileFetchFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	mock.CurrentFunc = func(ctx context.Context, accessToken string) (*backend.Customer, error) {
		return nil, &backend.APIError{StatusCode: 503}
	}
	service := NewService(keyval.NewMemoryStore(), mock, testLogger())

	result, err := service.Login(ctx, "mina@example.com", "secret", "")
	require.NoError(t, err)
	assert.Nil(t, result.Customer)
	// The token is stored regardless
	assert.Equal(t, "access-token", service.AccessToken(ctx))
}

func TestAccessTokenDiscardsExpiredJWT(t *testing.T) {
	ctx := context.Background()
	store := keyval.NewMemoryStore()
	service := NewService(store, &mockAuthBackend{}, testLogger())

	expired := signedJWT(t, time.Now().Add(-time.Hour))
	require.NoError(t, store.Set(ctx, keyAuthToken, expired))

	assert.Empty(t, service.AccessToken(ctx))
	exists, err := store.Exists(ctx, keyAuthToken)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAccessTokenKeepsValidJWT(t *testing.T) {
	ctx := context.Background()
	store := keyval.NewMemoryStore()
	service := NewService(store, &mockAuthBackend{}, testLogger())

	valid := signedJWT(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Set(ctx, keyAuthToken, valid))
	assert.Equal(t, valid, service.AccessToken(ctx))
}

func TestAccessTokenKeepsOpaqueToken(t *testing.T) {
	ctx := context.Background()
	store := keyval.NewMemoryStore()
	service := NewService(store, &mockAuthBackend{}, testLogger())

	// Non-JWT tokens cannot be inspected locally; the backend decides
	require.NoError(t, store.Set(ctx, keyAuthToken, "opaque-session-key"))
	assert.Equal(t, "opaque-session-key", service.AccessToken(ctx))
}

func TestCurrentGuest(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	service := NewService(keyval.NewMemoryStore(), mock, testLogger())

	current, err := service.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
	assert.Zero(t, mock.currentCalls)
}

func TestCurrentRejectedTokenDiscarded(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	mock.CurrentFunc = func(ctx context.Context, accessToken string) (*backend.Customer, error) {
		return nil, &backend.APIError{StatusCode: 401}
	}
	store := keyval.NewMemoryStore()
	service := NewService(store, mock, testLogger())
	require.NoError(t, store.Set(ctx, keyAuthToken, "stale-token"))

	current, err := service.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	exists, err := store.Exists(ctx, keyAuthToken)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLogoutKeepsTableSession(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	store := keyval.NewMemoryStore()
	service := NewService(store, mock, testLogger())

	require.NoError(t, store.Set(ctx, keyAuthToken, "access-token"))
	require.NoError(t, store.Set(ctx, "saltbee-session-token", "table-session"))

	require.NoError(t, service.Logout(ctx))
	assert.Equal(t, 1, mock.logoutCalls)

	exists, err := store.Exists(ctx, keyAuthToken)
	require.NoError(t, err)
	assert.False(t, exists)

	// Logging out of the account does not end the meal
	session, err := store.Get(ctx, "saltbee-session-token")
	require.NoError(t, err)
	assert.Equal(t, "table-session", session)
}

func TestLogoutBackendFailureStillClearsLocalState(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	mock.LogoutFunc = func(ctx context.Context, accessToken string) error {
		return &backend.APIError{StatusCode: 500}
	}
	store := keyval.NewMemoryStore()
	service := NewService(store, mock, testLogger())
	require.NoError(t, store.Set(ctx, keyAuthToken, "access-token"))

	require.NoError(t, service.Logout(ctx))
	exists, err := store.Exists(ctx, keyAuthToken)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGoogleLoginSetsFlag(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	service := NewService(keyval.NewMemoryStore(), mock, testLogger())

	assert.False(t, service.HasUsedGoogleAuth(ctx))

	_, err := service.GoogleLogin(ctx, "google-id-token", "session-token")
	require.NoError(t, err)
	assert.True(t, service.HasUsedGoogleAuth(ctx))
	assert.Equal(t, "session-token", mock.lastSession)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	mock := &mockAuthBackend{}
	service := NewService(keyval.NewMemoryStore(), mock, testLogger())

	result, err := service.Signup(ctx, "Mina", "mina@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, result.Customer)
	assert.Equal(t, "access-token", service.AccessToken(ctx))
}
