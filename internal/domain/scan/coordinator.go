// internal/domain/scan/coordinator.go
package scan

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/domain/session"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// One-shot flag consumed on the next load after a successful scan
const keyScanSuccess = "saltbee-qr-scan-success"

// ErrNoTableNumber is returned when the decoded text carries no digits
var ErrNoTableNumber = errors.New("no table number found in QR code")

var tableNumberPattern = regexp.MustCompile(`\d+`)

// Decoder is the active camera/decoder handle. The browser owns the camera;
// the gateway only needs to be able to stop the session.
type Decoder interface {
	Stop() error
}

// SessionStarter is the slice of the ordering backend the coordinator needs
type SessionStarter interface {
	StartTableSession(ctx context.Context, tableID string, req *backend.SessionStartRequest) (*backend.SessionStartResponse, error)
}

// SessionBinder is the slice of the session container the coordinator drives
type SessionBinder interface {
	SetSessionToken(ctx context.Context, token string) error
	SetTableNumber(ctx context.Context, table string) error
	SetOrderType(ctx context.Context, orderType session.OrderType) error
	OnSessionAcquired(ctx context.Context) error
}

// Identity resolves the authenticated customer, if any. A nil customer with a
// nil error means the device is browsing as a guest.
type Identity interface {
	Current(ctx context.Context) (*backend.Customer, error)
}

// Result describes a completed scan
type Result struct {
	TableNumber string `json:"table_number"`
	Message     string `json:"message"`
	Navigate    bool   `json:"navigate"` // Whether the UI should move to the menu view
	IsGuest     bool   `json:"is_guest"`
}

// Coordinator turns a decoded code string into a started table session,
// exactly once per physical scan. The decode callback may fire multiple times
// per physical code within a short window, so a processing guard and the
// last-accepted value are checked before acting.
type Coordinator struct {
	mu          sync.Mutex
	processing  bool
	lastScanned string
	decoder     Decoder

	starter  SessionStarter
	session  SessionBinder
	identity Identity
	store    keyval.Store
	logger   *logrus.Logger
}

// NewCoordinator creates a scan coordinator for one device
func NewCoordinator(starter SessionStarter, binder SessionBinder, identity Identity, store keyval.Store, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		starter:  starter,
		session:  binder,
		identity: identity,
		store:    store,
		logger:   logger,
	}
}

// SetDecoder registers the active camera/decoder handle for this scan session
func (c *Coordinator) SetDecoder(decoder Decoder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decoder = decoder
}

// HandleDecode processes one decode callback. Duplicate or overlapping
// callbacks are discarded with a nil result and nil error; that is a normal
// debouncing outcome, not a failure.
func (c *Coordinator) HandleDecode(ctx context.Context, decodedText string) (*Result, error) {
	c.mu.Lock()
	if c.processing || decodedText == c.lastScanned {
		c.mu.Unlock()
		c.logger.Debug("Duplicate scan blocked, already processing")
		return nil, nil
	}
	c.processing = true
	c.lastScanned = decodedText
	c.mu.Unlock()

	result, err := c.startSession(ctx, decodedText)

	c.mu.Lock()
	c.processing = false
	if err != nil {
		// A failed scan must stay retryable, including with the same code
		c.lastScanned = ""
	}
	c.mu.Unlock()

	return result, err
}

// Close stops the active decoder, if any, before the scan UI closes. Stopping
// is best-effort; a failure must not leak the guard state.
func (c *Coordinator) Close() {
	c.mu.Lock()
	decoder := c.decoder
	c.decoder = nil
	c.processing = false
	c.lastScanned = ""
	c.mu.Unlock()

	if decoder != nil {
		if err := decoder.Stop(); err != nil {
			c.logger.WithError(err).Error("Error stopping scanner on close")
		}
	}
}

// ConsumeScanSuccess reads and clears the one-shot scan-success flag
func (c *Coordinator) ConsumeScanSuccess(ctx context.Context) (string, bool) {
	table, err := c.store.Get(ctx, keyScanSuccess)
	if err != nil {
		return "", false
	}
	if err := c.store.Delete(ctx, keyScanSuccess); err != nil {
		c.logger.WithError(err).Warn("Failed to clear scan-success flag")
	}
	return table, true
}

func (c *Coordinator) startSession(ctx context.Context, decodedText string) (*Result, error) {
	table := tableNumberPattern.FindString(decodedText)
	if table == "" {
		c.logger.WithField("decoded", truncate(decodedText, 50)).Warn("No table number in scanned code")
		return nil, ErrNoTableNumber
	}

	// Stop the camera before talking to the backend; stop failures are logged
	// but do not block the session start.
	c.mu.Lock()
	decoder := c.decoder
	c.decoder = nil
	c.mu.Unlock()
	if decoder != nil {
		if err := decoder.Stop(); err != nil {
			c.logger.WithError(err).Error("Error stopping scanner")
		}
	}

	// Pre-fill the session with the customer identity when authenticated
	customer, err := c.identity.Current(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Could not resolve customer identity, starting as guest")
		customer = nil
	}

	req := &backend.SessionStartRequest{GuestName: "Guest"}
	if customer != nil {
		req.GuestName = customer.Name
		req.GuestPhone = customer.Phone
	}

	resp, err := c.starter.StartTableSession(ctx, table, req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to table session: %w", err)
	}

	tableNumber := resp.TableID.String()
	if tableNumber == "" {
		tableNumber = table
	}

	if err := c.session.SetSessionToken(ctx, resp.SessionToken); err != nil {
		return nil, err
	}
	if err := c.session.SetTableNumber(ctx, tableNumber); err != nil {
		return nil, err
	}
	if err := c.session.SetOrderType(ctx, session.OrderTypeDineIn); err != nil {
		return nil, err
	}
	if err := c.session.OnSessionAcquired(ctx); err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, keyScanSuccess, tableNumber); err != nil {
		c.logger.WithError(err).Warn("Failed to record scan-success flag")
	}

	return &Result{
		TableNumber: tableNumber,
		Message:     welcomeMessage(resp.IsGuest, customer, table),
		Navigate:    true,
		IsGuest:     resp.IsGuest,
	}, nil
}

func welcomeMessage(isGuest bool, customer *backend.Customer, table string) string {
	switch {
	case !isGuest && customer != nil:
		return fmt.Sprintf("Welcome back, %s! Table %s connected.", customer.Name, table)
	case !isGuest:
		return fmt.Sprintf("Welcome back! Table %s connected.", table)
	default:
		return fmt.Sprintf("Table %s connected as Guest.", table)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
