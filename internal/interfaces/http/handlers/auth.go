// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/domain/customer"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// AuthHandler handles customer authentication endpoints. The gateway proxies
// credentials to the ordering backend and keeps only the issued access token.
type AuthHandler struct {
	store   keyval.Store
	backend *backend.Client
	config  *config.Config
	logger  *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		store:   store,
		backend: client,
		config:  cfg,
		logger:  logger,
	}
}

// LoginRequest is the email/password login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest is the account registration payload
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// GoogleLoginRequest carries the Google ID token obtained by the UI
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	service := customerService(c, h.store, h.backend, h.logger)
	result, err := service.Login(c.Request.Context(), req.Email, req.Password, h.sessionToken(c))
	if err != nil {
		h.writeAuthError(c, err, "Login failed")
		return
	}
	h.bindCustomer(c, result)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    result,
	})
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	service := customerService(c, h.store, h.backend, h.logger)
	result, err := service.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, err, "Signup failed")
		return
	}
	h.bindCustomer(c, result)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"data":    result,
	})
}

// GoogleLogin handles POST /auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	service := customerService(c, h.store, h.backend, h.logger)
	result, err := service.GoogleLogin(c.Request.Context(), req.IDToken, h.sessionToken(c))
	if err != nil {
		h.writeAuthError(c, err, "Google login failed")
		return
	}
	h.bindCustomer(c, result)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    result,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	service := customerService(c, h.store, h.backend, h.logger)
	if err := service.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear auth state",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	service := customerService(c, h.store, h.backend, h.logger)

	current, err := service.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to resolve customer",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer retrieved successfully",
		"data": gin.H{
			"customer":         current,
			"authenticated":    current != nil,
			"google_auth_used": service.HasUsedGoogleAuth(c.Request.Context()),
		},
	})
}

// bindCustomer records the authenticated customer's id on the session state
// so the running meal is attributed to the account
func (h *AuthHandler) bindCustomer(c *gin.Context, result *customer.AuthResult) {
	if result == nil || result.Customer == nil {
		return
	}
	container := sessionContainer(c, h.store, h.backend, h.logger)
	if err := container.SetCustomerID(c.Request.Context(), result.Customer.ID); err != nil {
		h.logger.WithError(err).Warn("Failed to record customer id on session")
	}
}

// sessionToken reads the active table session token so the backend can link
// a login to the running meal
func (h *AuthHandler) sessionToken(c *gin.Context) string {
	state, err := sessionContainer(c, h.store, h.backend, h.logger).State(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Could not read session token for auth request")
		return ""
	}
	return state.SessionToken
}

func (h *AuthHandler) writeAuthError(c *gin.Context, err error, fallback string) {
	if backend.IsAuthError(err) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid credentials",
		})
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		c.JSON(http.StatusConflict, gin.H{
			"error": "An account with this email already exists",
		})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error": fallback,
	})
}
