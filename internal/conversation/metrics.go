package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/session"
)

// MetricsCache holds the last successfully fetched metrics snapshot for the
// active session. Purely derived state; a failed refresh leaves the previous
// value untouched.
type MetricsCache struct {
	sessions  *session.Store
	transport MetricsTransport
	logger    *slog.Logger

	mu      sync.Mutex
	current *Metrics
}

func NewMetricsCache(sessions *session.Store, transport MetricsTransport, logger *slog.Logger) *MetricsCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsCache{sessions: sessions, transport: transport, logger: logger}
}

// Refresh fetches metrics for the current session and replaces the cached
// value wholesale. Without an active session it is a no-op.
func (c *MetricsCache) Refresh(ctx context.Context) error {
	sessionID := c.sessions.ID()
	if sessionID == "" {
		return nil
	}
	m, err := c.transport.ConversationMetrics(ctx, sessionID)
	if err != nil {
		c.logger.Warn("metrics refresh failed", "session_id", sessionID, "error", err)
		return fmt.Errorf("refresh metrics: %w", err)
	}
	c.mu.Lock()
	c.current = m
	c.mu.Unlock()
	return nil
}

// Current returns the last fetched snapshot, if any.
func (c *MetricsCache) Current() (Metrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Metrics{}, false
	}
	return *c.current, true
}

// Clear drops the cached value; called when the session is reset.
func (c *MetricsCache) Clear() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}
