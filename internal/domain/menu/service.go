// internal/domain/menu/service.go
package menu

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// Shared (not per-device) cache key
const cacheKey = "saltbee-menu-cache"

// MenuBackend is the slice of the ordering backend the service needs
type MenuBackend interface {
	GetMenuItems(ctx context.Context) ([]backend.MenuItem, error)
}

type cachedMenu struct {
	Items     []backend.MenuItem `json:"items"`
	FetchedAt time.Time          `json:"fetched_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// Service serves the menu from the backend with a cached copy and an
// embedded static fallback, so browsing keeps working through backend
// outages.
type Service struct {
	store    keyval.Store
	backend  MenuBackend
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// NewService creates a menu service. The store is the shared cache substrate,
// not a device-scoped view.
func NewService(store keyval.Store, menuBackend MenuBackend, cacheTTL time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		store:    store,
		backend:  menuBackend,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Items returns the menu: a fresh cached copy when available, otherwise the
// backend, otherwise a stale cached copy, otherwise the embedded fallback.
// Every failure path degrades to some menu, so there is no error to return.
func (s *Service) Items(ctx context.Context) []backend.MenuItem {
	cached := s.loadCache(ctx)
	if cached != nil && time.Now().Before(cached.ExpiresAt) {
		return cached.Items
	}

	items, err := s.backend.GetMenuItems(ctx)
	if err == nil && len(items) > 0 {
		s.saveCache(ctx, items)
		return items
	}
	if err != nil {
		s.logger.WithError(err).Warn("Menu fetch failed, falling back")
	}

	if cached != nil {
		return cached.Items
	}
	return fallbackMenuItems
}

func (s *Service) loadCache(ctx context.Context) *cachedMenu {
	data, err := s.store.Get(ctx, cacheKey)
	if err != nil {
		return nil
	}

	var cached cachedMenu
	if err := json.Unmarshal([]byte(data), &cached); err != nil || len(cached.Items) == 0 {
		return nil
	}
	return &cached
}

func (s *Service) saveCache(ctx context.Context, items []backend.MenuItem) {
	now := time.Now().UTC()
	data, err := json.Marshal(cachedMenu{
		Items:     items,
		FetchedAt: now,
		ExpiresAt: now.Add(s.cacheTTL),
	})
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, cacheKey, string(data)); err != nil {
		s.logger.WithError(err).Warn("Failed to cache menu")
	}
}
