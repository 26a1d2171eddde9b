package conversation

import (
	"sync"
	"time"
)

// Log is the ordered, append-only message history of one conversation.
// The only mutation besides Append is flipping a feedback flag. It is safe
// for concurrent use; network completions arrive on other goroutines.
type Log struct {
	mu    sync.Mutex
	msgs  []Message
	index map[string]int
}

// NewLog returns a log already holding the canonical greeting.
func NewLog() *Log {
	l := &Log{}
	l.Reset()
	return l
}

// Append adds a message at the end. The ID must be unique within the log.
func (l *Log) Append(m Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.index[m.ID]; exists {
		return ErrDuplicateMessage
	}
	l.index[m.ID] = len(l.msgs)
	l.msgs = append(l.msgs, m)
	return nil
}

// MarkFeedbackSubmitted flips the feedback flag for one message. The flag
// never reverts; marking twice returns ErrFeedbackSubmitted so the caller
// can skip the duplicate quietly.
func (l *Log) MarkFeedbackSubmitted(messageID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[messageID]
	if !ok {
		return ErrMessageNotFound
	}
	if l.msgs[i].FeedbackSubmitted {
		return ErrFeedbackSubmitted
	}
	l.msgs[i].FeedbackSubmitted = true
	return nil
}

// Reset replaces the history with a single greeting message.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	greeting := Message{
		ID:        NewMessageID(),
		Text:      GreetingText,
		Sender:    SenderAssistant,
		Timestamp: time.Now(),
	}
	l.msgs = []Message{greeting}
	l.index = map[string]int{greeting.ID: 0}
}

// Messages returns a snapshot copy in send order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Get returns one message by ID.
func (l *Log) Get(messageID string) (Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[messageID]
	if !ok {
		return Message{}, false
	}
	return l.msgs[i], true
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

// LastAssistant returns the most recent assistant message, skipping the
// greeting if it is the only entry.
func (l *Log) LastAssistant() (Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.msgs) - 1; i > 0; i-- {
		if l.msgs[i].Sender == SenderAssistant {
			return l.msgs[i], true
		}
	}
	return Message{}, false
}
