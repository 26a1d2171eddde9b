package conversation

import "context"

// ChatResult is one decoded chat exchange from the backend.
type ChatResult struct {
	Response  string
	SessionID string
	Analysis  *Analysis

	// Session metadata, backend-authoritative, replaced wholesale.
	UserPreferences    map[string]any
	ConversationLength int
	InteractionCount   int
}

// FeedbackType is the polarity attached to a rating.
type FeedbackType string

const (
	FeedbackPositive FeedbackType = "positive"
	FeedbackNegative FeedbackType = "negative"
)

// Feedback correlates one rating with one assistant message of one session.
// It exists only as a request payload.
type Feedback struct {
	SessionID string
	MessageID string
	Rating    int
	Type      FeedbackType
	Comment   string
}

// Metrics is the aggregate quality snapshot for one session.
type Metrics struct {
	SessionID                  string
	TotalMessages              int
	UserSatisfactionScore      float64
	AverageResponseTimeSeconds float64
	IntentAccuracy             float64
	EmotionRecognitionAccuracy float64
}

// ChatTransport performs the chat round trip. sessionID is empty before the
// backend has issued one.
type ChatTransport interface {
	Chat(ctx context.Context, message, sessionID string) (*ChatResult, error)
}

// FeedbackTransport delivers one feedback payload.
type FeedbackTransport interface {
	SubmitFeedback(ctx context.Context, fb Feedback) error
}

// MetricsTransport fetches the metrics snapshot for a session.
type MetricsTransport interface {
	ConversationMetrics(ctx context.Context, sessionID string) (*Metrics, error)
}

// Archiver receives every appended message for local telemetry. Failures
// are logged and ignored; archiving never gates the conversation.
type Archiver interface {
	ArchiveMessage(ctx context.Context, sessionID string, m Message) error
}
