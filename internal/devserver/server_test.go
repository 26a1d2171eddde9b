package devserver

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/api"
	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/conversation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(New().Router())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, 5*time.Second)
}

func TestChatIssuesSessionAndAccumulatesCounters(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	first, err := client.Chat(ctx, "我喜欢辣的食物，想吃川菜", "")
	if err != nil {
		t.Fatalf("first chat: %v", err)
	}
	if first.SessionID == "" {
		t.Fatalf("expected a session id on the first exchange")
	}
	if first.ConversationLength != 2 || first.InteractionCount != 1 {
		t.Fatalf("unexpected counters after one turn: %+v", first)
	}
	if first.Analysis == nil {
		t.Fatalf("expected analysis on the reply")
	}
	if v := first.Analysis.Entities["taste_preferences"]; v.Kind != conversation.EntityList || v.List[0] != "辣" {
		t.Fatalf("taste preference not extracted: %+v", v)
	}
	if v := first.Analysis.Entities["cuisine_types"]; v.Kind != conversation.EntityList || v.List[0] != "川菜" {
		t.Fatalf("cuisine type not extracted: %+v", v)
	}

	second, err := client.Chat(ctx, "再推荐一个", first.SessionID)
	if err != nil {
		t.Fatalf("second chat: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Fatalf("session id changed mid-conversation: %q vs %q", second.SessionID, first.SessionID)
	}
	if second.ConversationLength != 4 || second.InteractionCount != 2 {
		t.Fatalf("counters did not accumulate: %+v", second)
	}
	if got := second.UserPreferences["taste_preferences"]; got == nil {
		t.Fatalf("preferences from the first turn were not carried over")
	}
}

func TestChatUnknownSessionGetsFreshOne(t *testing.T) {
	client := newTestClient(t)

	res, err := client.Chat(context.Background(), "你好", "no-such-session")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if res.SessionID == "" || res.SessionID == "no-such-session" {
		t.Fatalf("expected a fresh session id, got %q", res.SessionID)
	}
}

func TestBudgetIntentPicksCheapDishes(t *testing.T) {
	client := newTestClient(t)

	res, err := client.Chat(context.Background(), "预算50元以内有什么推荐", "")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.HasPrefix(res.Response, "实惠之选") {
		t.Fatalf("expected budget reply, got %q", res.Response)
	}
	v := res.Analysis.Entities["budget_range"]
	if v.Kind != conversation.EntityMap || v.Map["max"] != "50" || v.Map["currency"] != "CNY" {
		t.Fatalf("budget entity not extracted: %+v", v)
	}
}

func TestAllergyIntentAvoidsRestrictedDishes(t *testing.T) {
	client := newTestClient(t)

	res, err := client.Chat(context.Background(), "我对海鲜过敏，不能吃海鲜", "")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.HasPrefix(res.Response, "我注意到您的忌口") {
		t.Fatalf("expected allergy reply, got %q", res.Response)
	}
	if strings.Contains(res.Response, "寿司拼盘") || strings.Contains(res.Response, "冬阴功汤") {
		t.Fatalf("reply recommends a dish with the avoided allergen: %q", res.Response)
	}
}

func TestFeedbackValidationAndIdempotence(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	res, err := client.Chat(ctx, "推荐一个菜", "")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	fb := conversation.Feedback{
		SessionID: res.SessionID,
		MessageID: "M1",
		Rating:    0,
		Type:      conversation.FeedbackPositive,
	}
	if err := client.SubmitFeedback(ctx, fb); err == nil {
		t.Fatalf("rating 0 must be rejected")
	}

	fb.Rating = 5
	fb.SessionID = "no-such-session"
	if err := client.SubmitFeedback(ctx, fb); err == nil {
		t.Fatalf("unknown session must be rejected")
	}

	fb.SessionID = res.SessionID
	for i := 0; i < 2; i++ {
		if err := client.SubmitFeedback(ctx, fb); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	m, err := client.ConversationMetrics(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	// a repeated rating is acknowledged but counted once
	if m.UserSatisfactionScore != 1.0 {
		t.Fatalf("expected satisfaction 1.0, got %v", m.UserSatisfactionScore)
	}
	if m.TotalMessages != 2 {
		t.Fatalf("expected total_messages 2, got %d", m.TotalMessages)
	}
}

func TestMetricsUnknownSession(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.ConversationMetrics(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for unknown session")
	}
}

func TestSearchAndMenuEndpoints(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	res, err := client.SearchMenu(ctx, "川菜", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.TotalCount != 2 {
		t.Fatalf("expected 2 川菜 results, got %d", res.TotalCount)
	}
	for _, it := range res.Results {
		if it.Category != "川菜" {
			t.Fatalf("unexpected category in results: %+v", it)
		}
	}

	item, err := client.MenuItem(ctx, "m001")
	if err != nil {
		t.Fatalf("menu item: %v", err)
	}
	if item.Name != "麻婆豆腐" {
		t.Fatalf("unexpected item: %+v", item)
	}

	if _, err := client.MenuItem(ctx, "m999"); err == nil {
		t.Fatalf("expected error for unknown menu id")
	}

	cats, err := client.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) == 0 {
		t.Fatalf("expected at least one category")
	}
}

func TestRecommendationsHonorRestrictions(t *testing.T) {
	client := newTestClient(t)

	recs, err := client.Recommendations(context.Background(), map[string]any{
		"taste_preferences":    []string{"辣"},
		"dietary_restrictions": []string{"海鲜"},
	})
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs.Recommendations) == 0 {
		t.Fatalf("expected at least one recommendation")
	}
	for _, it := range recs.Recommendations {
		for _, a := range it.Allergens {
			if a == "海鲜" {
				t.Fatalf("recommendation contains avoided allergen: %+v", it)
			}
		}
	}
}
