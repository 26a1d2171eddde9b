package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/session"
)

// FeedbackGate submits feedback on an assistant message at most once. It is
// independent of the chat in-flight guard; feedback and chat may overlap.
type FeedbackGate struct {
	log       *Log
	sessions  *session.Store
	transport FeedbackTransport
	logger    *slog.Logger
}

func NewFeedbackGate(log *Log, sessions *session.Store, transport FeedbackTransport, logger *slog.Logger) *FeedbackGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackGate{log: log, sessions: sessions, transport: transport, logger: logger}
}

// Submit sends one rating for one assistant message of the active session.
// It is a silent no-op when there is no session, the message is unknown or
// user-sent, the rating is out of contract, or feedback was already
// submitted. A transport failure leaves the flag false so the user can
// retry; the error is returned for the caller's logger, never as a blocking
// UI condition.
func (g *FeedbackGate) Submit(ctx context.Context, messageID string, rating int, ftype FeedbackType, comment string) error {
	sessionID := g.sessions.ID()
	if sessionID == "" {
		return nil
	}
	msg, ok := g.log.Get(messageID)
	if !ok || msg.Sender != SenderAssistant || msg.FeedbackSubmitted {
		return nil
	}
	if rating < 1 || rating > 5 {
		g.logger.Warn("feedback rating out of range", "rating", rating)
		return nil
	}

	fb := Feedback{
		SessionID: sessionID,
		MessageID: messageID,
		Rating:    rating,
		Type:      ftype,
		Comment:   comment,
	}
	if err := g.transport.SubmitFeedback(ctx, fb); err != nil {
		g.logger.Warn("feedback submit failed", "message_id", messageID, "error", err)
		return fmt.Errorf("submit feedback: %w", err)
	}

	if err := g.log.MarkFeedbackSubmitted(messageID); err != nil && !errors.Is(err, ErrFeedbackSubmitted) {
		return err
	}
	return nil
}
