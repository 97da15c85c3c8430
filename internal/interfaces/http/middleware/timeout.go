package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout aborts requests that run past the deadline with a 408. The
// response writer is guarded so a handler still running after the deadline
// cannot race the timeout response.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		writer := &timeoutWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		done := make(chan struct{})
		go func() {
			defer close(done)
			c.Next()
		}()

		select {
		case <-done:
			// Request completed normally
		case <-ctx.Done():
			writer.timeout()
			c.Abort()
		}
	}
}

// timeoutWriter serializes writes from the handler goroutine and the
// timeout path. Once the deadline response has gone out, late handler
// writes are silently dropped.
type timeoutWriter struct {
	gin.ResponseWriter

	mu       sync.Mutex
	started  bool
	timedOut bool
}

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return
	}
	w.started = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *timeoutWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return len(data), nil
	}
	w.started = true
	return w.ResponseWriter.Write(data)
}

func (w *timeoutWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// timeout writes the 408 response unless the handler already started one
func (w *timeoutWriter) timeout() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.timedOut = true
	w.ResponseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.ResponseWriter.WriteHeader(http.StatusRequestTimeout)
	w.ResponseWriter.Write([]byte(`{"error":"Request timeout"}`))
}
