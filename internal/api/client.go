// Package api implements the HTTP/JSON client for the recommendation
// backend. It is the only place that knows the wire shapes; the rest of the
// program works with conversation types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/conversation"
)

type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response           string                              `json:"response"`
	SessionID          string                              `json:"session_id"`
	IntentScores       map[string]float64                  `json:"intent_scores"`
	EmotionScores      map[string]float64                  `json:"emotion_scores"`
	Entities           map[string]conversation.EntityValue `json:"entities"`
	UserPreferences    map[string]any                      `json:"user_preferences"`
	ConversationLength int                                 `json:"conversation_length"`
	InteractionCount   int                                 `json:"interaction_count"`
}

// Chat performs one exchange with the assistant. An empty sessionID asks the
// backend to open a new session.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (*conversation.ChatResult, error) {
	var decoded chatResponse
	err := c.postJSON(ctx, "/api/chat", chatRequest{Message: message, SessionID: sessionID}, &decoded)
	if err != nil {
		return nil, err
	}

	res := &conversation.ChatResult{
		Response:           decoded.Response,
		SessionID:          decoded.SessionID,
		UserPreferences:    decoded.UserPreferences,
		ConversationLength: decoded.ConversationLength,
		InteractionCount:   decoded.InteractionCount,
	}
	if len(decoded.IntentScores) > 0 || len(decoded.EmotionScores) > 0 || len(decoded.Entities) > 0 {
		res.Analysis = &conversation.Analysis{
			IntentScores:  decoded.IntentScores,
			EmotionScores: decoded.EmotionScores,
			Entities:      decoded.Entities,
		}
	}
	return res, nil
}

type feedbackRequest struct {
	SessionID    string `json:"session_id"`
	MessageID    string `json:"message_id"`
	Rating       int    `json:"rating"`
	FeedbackType string `json:"feedback_type"`
	Comment      string `json:"comment,omitempty"`
}

// SubmitFeedback posts one rating for one assistant message.
func (c *Client) SubmitFeedback(ctx context.Context, fb conversation.Feedback) error {
	return c.postJSON(ctx, "/api/feedback", feedbackRequest{
		SessionID:    fb.SessionID,
		MessageID:    fb.MessageID,
		Rating:       fb.Rating,
		FeedbackType: string(fb.Type),
		Comment:      fb.Comment,
	}, nil)
}

type metricsResponse struct {
	SessionID                  string  `json:"session_id"`
	TotalMessages              int     `json:"total_messages"`
	UserSatisfactionScore      float64 `json:"user_satisfaction_score"`
	AverageResponseTime        float64 `json:"average_response_time"`
	IntentAccuracy             float64 `json:"intent_accuracy"`
	EmotionRecognitionAccuracy float64 `json:"emotion_recognition_accuracy"`
}

// ConversationMetrics fetches the aggregate quality snapshot of a session.
func (c *Client) ConversationMetrics(ctx context.Context, sessionID string) (*conversation.Metrics, error) {
	var decoded metricsResponse
	path := "/api/conversation-metrics/" + url.PathEscape(sessionID)
	if err := c.getJSON(ctx, path, &decoded); err != nil {
		return nil, err
	}
	return &conversation.Metrics{
		SessionID:                  decoded.SessionID,
		TotalMessages:              decoded.TotalMessages,
		UserSatisfactionScore:      decoded.UserSatisfactionScore,
		AverageResponseTimeSeconds: decoded.AverageResponseTime,
		IntentAccuracy:             decoded.IntentAccuracy,
		EmotionRecognitionAccuracy: decoded.EmotionRecognitionAccuracy,
	}, nil
}
