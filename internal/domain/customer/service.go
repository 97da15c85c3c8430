// internal/domain/customer/service.go
package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// Storage keys, mirrored from the web client's localStorage namespace
const (
	keyAuthToken      = "saltbee-auth-token"
	keyGoogleAuthUsed = "saltbee-google-auth-used"
)

// AuthBackend is the slice of the ordering backend the service needs
type AuthBackend interface {
	Login(ctx context.Context, req *backend.LoginRequest, sessionToken string) (*backend.AuthResponse, error)
	Signup(ctx context.Context, req *backend.SignupRequest) (*backend.AuthResponse, error)
	LoginWithGoogle(ctx context.Context, req *backend.GoogleLoginRequest, sessionToken string) (*backend.AuthResponse, error)
	Logout(ctx context.Context, accessToken string) error
	CurrentCustomer(ctx context.Context, accessToken string) (*backend.Customer, error)
}

// AuthResult is the outcome of a successful login or signup
type AuthResult struct {
	Customer      *backend.Customer `json:"customer"`
	SessionLinked bool              `json:"session_linked"`
}

// Service orchestrates customer authentication against the ordering backend.
// It holds only an opaque access token plus the identity fields needed to
// pre-fill session-start requests; credentials pass straight through.
type Service struct {
	store   keyval.Store
	backend AuthBackend
	logger  *logrus.Logger
}

// NewService creates a customer auth service over the device-scoped store
func NewService(store keyval.Store, authBackend AuthBackend, logger *logrus.Logger) *Service {
	return &Service{
		store:   store,
		backend: authBackend,
		logger:  logger,
	}
}

// AccessToken returns the stored access token, discarding it when the token
// is a JWT whose expiry has passed. The gateway never holds the signing key,
// so claims are read without signature verification; verification happens
// server-side on every call.
func (s *Service) AccessToken(ctx context.Context) string {
	token, err := s.store.Get(ctx, keyAuthToken)
	if err != nil {
		return ""
	}

	if tokenExpired(token) {
		s.logger.Info("Stored access token expired, discarding")
		if err := s.store.Delete(ctx, keyAuthToken); err != nil {
			s.logger.WithError(err).Warn("Failed to discard expired token")
		}
		return ""
	}
	return token
}

// Login authenticates a customer. The active table session token, when
// given, lets the backend link the session to the account.
func (s *Service) Login(ctx context.Context, email, password, sessionToken string) (*AuthResult, error) {
	resp, err := s.backend.Login(ctx, &backend.LoginRequest{Email: email, Password: password}, sessionToken)
	if err != nil {
		return nil, err
	}
	return s.completeAuth(ctx, resp)
}

// Signup registers a new customer account and signs them in
func (s *Service) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	resp, err := s.backend.Signup(ctx, &backend.SignupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.completeAuth(ctx, resp)
}

// GoogleLogin authenticates via a Google ID token and remembers that Google
// auth has been used on this device.
func (s *Service) GoogleLogin(ctx context.Context, idToken, sessionToken string) (*AuthResult, error) {
	resp, err := s.backend.LoginWithGoogle(ctx, &backend.GoogleLoginRequest{IDToken: idToken}, sessionToken)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, keyGoogleAuthUsed, "true"); err != nil {
		s.logger.WithError(err).Warn("Failed to record Google auth flag")
	}
	return s.completeAuth(ctx, resp)
}

// Logout invalidates the token server-side (best-effort) and clears only the
// auth state. The table session is intentionally kept: logging out of the
// account does not end the meal.
func (s *Service) Logout(ctx context.Context) error {
	token := s.AccessToken(ctx)
	if token != "" {
		if err := s.backend.Logout(ctx, token); err != nil {
			s.logger.WithError(err).Warn("Backend logout failed, clearing local auth state anyway")
		}
	}
	return s.store.Delete(ctx, keyAuthToken)
}

// Current resolves the authenticated customer behind the stored token. A nil
// customer with a nil error means the device is browsing as a guest; a token
// the backend rejects is removed.
func (s *Service) Current(ctx context.Context) (*backend.Customer, error) {
	token := s.AccessToken(ctx)
	if token == "" {
		return nil, nil
	}

	customer, err := s.backend.CurrentCustomer(ctx, token)
	if err != nil {
		if backend.IsAuthError(err) {
			s.logger.Info("Access token rejected by backend, discarding")
			if err := s.store.Delete(ctx, keyAuthToken); err != nil {
				return nil, fmt.Errorf("failed to discard rejected token: %w", err)
			}
			return nil, nil
		}
		return nil, err
	}
	return customer, nil
}

// HasUsedGoogleAuth reports whether Google auth was ever used on this device
func (s *Service) HasUsedGoogleAuth(ctx context.Context) bool {
	value, err := s.store.Get(ctx, keyGoogleAuthUsed)
	return err == nil && value == "true"
}

func (s *Service) completeAuth(ctx context.Context, resp *backend.AuthResponse) (*AuthResult, error) {
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("backend returned no access token")
	}
	if err := s.store.Set(ctx, keyAuthToken, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to persist access token: %w", err)
	}

	// Fetch the full profile immediately
	customer, err := s.backend.CurrentCustomer(ctx, resp.AccessToken)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to fetch profile after login")
		customer = nil
	}

	return &AuthResult{
		Customer:      customer,
		SessionLinked: resp.SessionLinked,
	}, nil
}

// tokenExpired reports whether token is a JWT with an exp claim in the past.
// Opaque (non-JWT) tokens and tokens without exp are never treated as expired
// locally.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Before(time.Now())
}
