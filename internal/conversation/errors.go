package conversation

import "errors"

var (
	// ErrDuplicateMessage means an append reused an existing message ID.
	// This is a programmer error; it cannot happen through the controller.
	ErrDuplicateMessage = errors.New("conversation: duplicate message id")

	// ErrMessageNotFound means a feedback mark referenced an unknown message.
	ErrMessageNotFound = errors.New("conversation: message not found")

	// ErrFeedbackSubmitted means the feedback flag was already set. Callers
	// treat it as a benign no-op, not a failure.
	ErrFeedbackSubmitted = errors.New("conversation: feedback already submitted")
)
