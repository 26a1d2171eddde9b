package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/conversation"
)

func TestChatDecodesFullResponse(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"response": "推荐麻婆豆腐",
			"session_id": "abc123",
			"intent_scores": {"recommendation": 0.8},
			"emotion_scores": {"positive": 0.6},
			"entities": {
				"taste_preferences": ["辣"],
				"budget_range": {"max": 100},
				"party_size": "2"
			},
			"user_preferences": {"taste_preferences": ["辣"]},
			"conversation_length": 2,
			"interaction_count": 1
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	res, err := client.Chat(context.Background(), "我喜欢辣的食物", "")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	if gotBody["message"] != "我喜欢辣的食物" {
		t.Fatalf("unexpected request message: %v", gotBody["message"])
	}
	if _, present := gotBody["session_id"]; present {
		t.Fatalf("empty session id must be omitted from the request")
	}

	if res.Response != "推荐麻婆豆腐" || res.SessionID != "abc123" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Analysis == nil || res.Analysis.IntentScores["recommendation"] != 0.8 {
		t.Fatalf("intent scores not decoded: %+v", res.Analysis)
	}
	if v := res.Analysis.Entities["taste_preferences"]; v.Kind != conversation.EntityList || v.List[0] != "辣" {
		t.Fatalf("list entity not decoded: %+v", v)
	}
	if v := res.Analysis.Entities["budget_range"]; v.Kind != conversation.EntityMap || v.Map["max"] != "100" {
		t.Fatalf("map entity not decoded: %+v", v)
	}
	if res.ConversationLength != 2 || res.InteractionCount != 1 {
		t.Fatalf("counters not decoded: %+v", res)
	}
}

func TestChatOmitsAnalysisWhenAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "你好", "session_id": "S1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	res, err := client.Chat(context.Background(), "你好", "S1")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if res.Analysis != nil {
		t.Fatalf("expected nil analysis, got %+v", res.Analysis)
	}
}

func TestChatReturnsErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.Chat(context.Background(), "hi", ""); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestSubmitFeedbackSendsContractPayload(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/feedback" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.SubmitFeedback(context.Background(), conversation.Feedback{
		SessionID: "S1",
		MessageID: "M1",
		Rating:    5,
		Type:      conversation.FeedbackPositive,
		Comment:   "很好",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if gotBody["session_id"] != "S1" || gotBody["message_id"] != "M1" {
		t.Fatalf("unexpected correlation: %v", gotBody)
	}
	if gotBody["rating"] != float64(5) || gotBody["feedback_type"] != "positive" {
		t.Fatalf("unexpected rating fields: %v", gotBody)
	}
}

func TestConversationMetricsMapsWireNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/conversation-metrics/S1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"session_id": "S1",
			"total_messages": 6,
			"user_satisfaction_score": 0.9,
			"average_response_time": 1.25,
			"intent_accuracy": 0.85,
			"emotion_recognition_accuracy": 0.8
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	m, err := client.ConversationMetrics(context.Background(), "S1")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if m.TotalMessages != 6 || m.AverageResponseTimeSeconds != 1.25 || m.UserSatisfactionScore != 0.9 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestSearchMenuDecodesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"results": [{"id": "m001", "name": "麻婆豆腐", "category": "川菜", "price": 38}],
			"total_count": 1,
			"query": "川菜"
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	res, err := client.SearchMenu(context.Background(), "川菜", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.TotalCount != 1 || res.Results[0].Name != "麻婆豆腐" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
