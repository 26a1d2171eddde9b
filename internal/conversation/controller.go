package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/session"
)

// Controller drives one chat round trip per user turn. At most one exchange
// is in flight; the user message is appended before the network call, so the
// log always shows strict send order.
type Controller struct {
	log       *Log
	sessions  *session.Store
	transport ChatTransport
	metrics   *MetricsCache
	archiver  Archiver
	logger    *slog.Logger

	mu         sync.Mutex
	inFlight   bool
	generation uint64
}

// NewController wires the conversation core together. metrics, archiver and
// logger may be nil.
func NewController(log *Log, sessions *session.Store, transport ChatTransport, metrics *MetricsCache, archiver Archiver, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		log:       log,
		sessions:  sessions,
		transport: transport,
		metrics:   metrics,
		archiver:  archiver,
		logger:    logger,
	}
}

// Log exposes the message history for rendering.
func (c *Controller) Log() *Log { return c.log }

// InFlight reports whether a chat exchange is outstanding.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Send performs one user turn. It returns false without side effects when
// text is blank or another exchange is in flight; that rejection is the
// concurrency guard, not an error. A network failure still returns true:
// the user message stays in the log and a fixed error reply is appended in
// place of the assistant's answer.
func (c *Controller) Send(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return false
	}
	c.inFlight = true
	gen := c.generation
	c.mu.Unlock()

	userMsg := Message{
		ID:        NewMessageID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	}
	if err := c.log.Append(userMsg); err != nil {
		// Cannot happen with generated IDs; fail loudly in the log.
		c.logger.Error("append user message", "error", err)
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
		return false
	}
	c.archive(ctx, userMsg)

	res, err := c.transport.Chat(ctx, text, c.sessions.ID())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if c.generation != gen {
		// The session was reset while this exchange was outstanding; a
		// stale reply must not reappear in the fresh conversation.
		c.logger.Info("discarding stale chat response")
		return true
	}

	if err != nil {
		c.logger.Warn("chat request failed", "error", err)
		errMsg := Message{
			ID:        NewMessageID(),
			Text:      ErrorReplyText,
			Sender:    SenderAssistant,
			Timestamp: time.Now(),
		}
		if appendErr := c.log.Append(errMsg); appendErr != nil {
			c.logger.Error("append error reply", "error", appendErr)
		}
		return true
	}

	assistantMsg := Message{
		ID:        NewMessageID(),
		Text:      res.Response,
		Sender:    SenderAssistant,
		Timestamp: time.Now(),
	}
	if !res.Analysis.Empty() {
		assistantMsg.Analysis = res.Analysis
	}
	if appendErr := c.log.Append(assistantMsg); appendErr != nil {
		c.logger.Error("append assistant message", "error", appendErr)
		return true
	}

	if res.SessionID != "" {
		if adoptErr := c.sessions.Adopt(ctx, res.SessionID, res.UserPreferences, res.ConversationLength, res.InteractionCount); adoptErr != nil {
			c.logger.Warn("persist session", "error", adoptErr)
		}
	}
	c.archive(ctx, assistantMsg)
	return true
}

// StartNewSession resets the conversation synchronously: greeting-only log,
// no session, no cached metrics. Any outstanding chat response is discarded
// when it eventually arrives.
func (c *Controller) StartNewSession(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	c.mu.Unlock()

	c.log.Reset()
	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.Warn("clear session", "error", err)
	}
	if c.metrics != nil {
		c.metrics.Clear()
	}
}

func (c *Controller) archive(ctx context.Context, m Message) {
	if c.archiver == nil {
		return
	}
	if err := c.archiver.ArchiveMessage(ctx, c.sessions.ID(), m); err != nil {
		c.logger.Warn("archive message", "message_id", m.ID, "error", err)
	}
}
