package conversation

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Sender identifies which side of the exchange produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// GreetingText is the canonical opening message of every conversation.
const GreetingText = "您好！我是您的PalonaAI菜品助手。请告诉我您喜欢的口味、菜品类型或者有什么特殊需求，我会为您推荐最适合的菜品。"

// ErrorReplyText is appended in place of an assistant reply when the chat
// call fails. The failed user message stays in the log.
const ErrorReplyText = "抱歉，处理您的消息时出现了错误。请稍后再试。"

// Message is one entry in the conversation log. Text, Sender and Timestamp
// are immutable once appended; FeedbackSubmitted only ever flips false->true.
type Message struct {
	ID                string    `json:"id"`
	Text              string    `json:"text"`
	Sender            Sender    `json:"sender"`
	Timestamp         time.Time `json:"timestamp"`
	Analysis          *Analysis `json:"analysis,omitempty"`
	FeedbackSubmitted bool      `json:"feedback_submitted"`
}

// Analysis carries the backend's language-understanding annotations for an
// assistant message. Absence of any map is valid, not an error.
type Analysis struct {
	IntentScores  map[string]float64     `json:"intent_scores,omitempty"`
	EmotionScores map[string]float64     `json:"emotion_scores,omitempty"`
	Entities      map[string]EntityValue `json:"entities,omitempty"`
}

// Empty reports whether the analysis carries no annotations at all.
func (a *Analysis) Empty() bool {
	return a == nil || (len(a.IntentScores) == 0 && len(a.EmotionScores) == 0 && len(a.Entities) == 0)
}

var idMu sync.Mutex
var idEntropy = ulid.Monotonic(rand.Reader, 0)

// NewMessageID returns a ULID: millisecond send time plus a monotonic
// increment, so same-millisecond messages still sort in send order.
func NewMessageID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy).String()
}
