// internal/interfaces/http/handlers/scan.go
package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/domain/scan"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// Registry entries idle longer than this are dropped. The guards a
// coordinator carries only matter within one scanning session, and the
// device id is client controlled, so the map must not grow unbounded.
const coordinatorIdleTTL = 30 * time.Minute

// ScanHandler handles QR scan endpoints. Coordinators are held per device
// across requests so the duplicate-decode guard survives the rapid repeat
// callbacks a single physical scan produces.
type ScanHandler struct {
	store   keyval.Store
	backend *backend.Client
	config  *config.Config
	logger  *logrus.Logger

	mu           sync.Mutex
	coordinators map[string]*coordinatorEntry
}

type coordinatorEntry struct {
	coordinator *scan.Coordinator
	lastUsed    time.Time
}

// NewScanHandler creates a new scan handler
func NewScanHandler(store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) *ScanHandler {
	return &ScanHandler{
		store:        store,
		backend:      client,
		config:       cfg,
		logger:       logger,
		coordinators: make(map[string]*coordinatorEntry),
	}
}

// ScanRequest carries the text decoded from a QR code
type ScanRequest struct {
	DecodedText string `json:"decoded_text" binding:"required"`
}

// HandleScan handles POST /scan
func (h *ScanHandler) HandleScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	coordinator := h.coordinator(c)
	result, err := coordinator.HandleDecode(c.Request.Context(), req.DecodedText)
	if err != nil {
		if errors.Is(err, scan.ErrNoTableNumber) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "No table number found in QR code",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to connect to table session",
		})
		return
	}
	if result == nil {
		// Duplicate decode callback; the first one is already in flight
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Scan already being processed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Table session started successfully",
		"data":    result,
	})
}

// CloseScan handles POST /scan/close. The coordinator is removed from the
// registry; the next scan from the device starts from a clean slate.
func (h *ScanHandler) CloseScan(c *gin.Context) {
	deviceID := middleware.GetDeviceID(c)

	h.mu.Lock()
	entry, ok := h.coordinators[deviceID]
	delete(h.coordinators, deviceID)
	h.mu.Unlock()

	if ok {
		entry.coordinator.Close()
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Scanner closed",
	})
}

// ConsumeScanSuccess handles GET /scan/success. The flag reads once and
// clears, so a page reload does not replay the success toast.
func (h *ScanHandler) ConsumeScanSuccess(c *gin.Context) {
	table, ok := h.coordinator(c).ConsumeScanSuccess(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"message": "Scan success flag consumed",
		"data": gin.H{
			"scan_success": ok,
			"table_number": table,
		},
	})
}

// coordinator returns the device's scan coordinator, creating it on first
// use. Stale entries from devices that never closed their scanner are
// pruned on the way through.
func (h *ScanHandler) coordinator(c *gin.Context) *scan.Coordinator {
	deviceID := middleware.GetDeviceID(c)
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, entry := range h.coordinators {
		if id != deviceID && now.Sub(entry.lastUsed) > coordinatorIdleTTL {
			delete(h.coordinators, id)
		}
	}

	if entry, ok := h.coordinators[deviceID]; ok {
		entry.lastUsed = now
		return entry.coordinator
	}

	scoped := deviceStore(c, h.store)
	binder := sessionContainer(c, h.store, h.backend, h.logger)
	identity := customerService(c, h.store, h.backend, h.logger)
	coordinator := scan.NewCoordinator(h.backend, binder, identity, scoped, h.logger)
	h.coordinators[deviceID] = &coordinatorEntry{coordinator: coordinator, lastUsed: now}
	return coordinator
}
