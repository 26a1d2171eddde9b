// Package devserver is a self-contained stand-in for the recommendation
// backend. It implements the same HTTP contract the production service
// exposes, backed by keyword analyzers and a built-in menu, so the client
// can be developed and tested without the real models.
package devserver

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type sessionState struct {
	ID                 string
	Preferences        map[string]any
	ConversationLength int
	InteractionCount   int
	CreatedAt          time.Time

	ratings      []int
	feedbackSeen map[string]bool

	totalResponseSeconds float64
	intentScoreSum       float64
	emotionScoreSum      float64
}

type Server struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
}

func New() *Server {
	return &Server{sessions: make(map[string]*sessionState)}
}

// Router builds the gin engine serving the backend contract.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	apiGroup := r.Group("/api")
	apiGroup.POST("/chat", s.handleChat)
	apiGroup.POST("/feedback", s.handleFeedback)
	apiGroup.GET("/conversation-metrics/:session_id", s.handleMetrics)

	apiGroup.GET("/menu", s.handleMenu)
	apiGroup.GET("/menu/:id", s.handleMenuItem)
	apiGroup.POST("/search", s.handleSearch)
	apiGroup.GET("/categories", s.handleCategories)
	apiGroup.GET("/seasonal", s.handleSeasonal)
	apiGroup.GET("/popular", s.handlePopular)
	apiGroup.POST("/recommendations", s.handleRecommendations)
	apiGroup.GET("/health", s.handleHealth)

	return r
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) session(id string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if st, ok := s.sessions[id]; ok {
			return st
		}
	}
	st := &sessionState{
		ID:           uuid.NewString(),
		Preferences:  make(map[string]any),
		CreatedAt:    time.Now(),
		feedbackSeen: make(map[string]bool),
	}
	s.sessions[st.ID] = st
	return st
}

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleChat(c *gin.Context) {
	start := time.Now()

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}

	st := s.session(req.SessionID)

	intents := analyzeIntent(req.Message)
	emotions := analyzeEmotion(req.Message)
	entities := extractEntities(req.Message)

	reply := composeReply(req.Message, intents, entities)

	s.mu.Lock()
	mergePreferences(st.Preferences, entities)
	st.ConversationLength += 2
	st.InteractionCount++
	st.intentScoreSum += maxScore(intents)
	st.emotionScoreSum += maxScore(emotions)
	st.totalResponseSeconds += time.Since(start).Seconds()
	resp := gin.H{
		"response":            reply,
		"session_id":          st.ID,
		"intent_scores":       intents,
		"emotion_scores":      emotions,
		"entities":            entities,
		"user_preferences":    st.Preferences,
		"conversation_length": st.ConversationLength,
		"interaction_count":   st.InteractionCount,
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, resp)
}

// mergePreferences folds extracted entities into the session's preference
// map, the way the production service accumulates user taste over turns.
func mergePreferences(prefs map[string]any, entities map[string]any) {
	for _, key := range []string{"taste_preferences", "cuisine_types", "dietary_restrictions", "budget_range"} {
		if v, ok := entities[key]; ok {
			prefs[key] = v
		}
	}
}

func composeReply(message string, intents map[string]float64, entities map[string]any) string {
	var tastes, cuisines, avoid []string
	if v, ok := entities["taste_preferences"].([]string); ok {
		tastes = v
	}
	if v, ok := entities["cuisine_types"].([]string); ok {
		cuisines = v
	}
	if v, ok := entities["dietary_restrictions"].([]string); ok {
		avoid = v
	}

	switch topLabel(intents) {
	case "allergy":
		safe := matchMenu(nil, nil, avoid, 3)
		return "我注意到您的忌口，以下菜品是安全的选择：" + joinNames(safe)
	case "seasonal":
		var names []string
		for _, it := range builtinMenu {
			if it.IsSeasonal {
				names = append(names, it.Name)
			}
		}
		return "当季推荐：" + strings.Join(names, "、")
	case "budget":
		cheap := make([]menuItem, 0, 3)
		for _, it := range builtinMenu {
			if it.Price <= 50 {
				cheap = append(cheap, it)
			}
			if len(cheap) == 3 {
				break
			}
		}
		return "实惠之选：" + joinNames(cheap)
	default:
		picks := matchMenu(tastes, cuisines, avoid, 3)
		if len(picks) == 0 {
			picks = matchMenu(nil, nil, avoid, 3)
		}
		return "根据您的口味，推荐" + joinNames(picks)
	}
}

func joinNames(items []menuItem) string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return strings.Join(names, "、")
}

type feedbackRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	MessageID    string `json:"message_id" binding:"required"`
	Rating       int    `json:"rating"`
	FeedbackType string `json:"feedback_type"`
	Comment      string `json:"comment"`
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "rating must be between 1 and 5"})
		return
	}
	if req.FeedbackType != "positive" && req.FeedbackType != "negative" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "feedback_type must be positive or negative"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[req.SessionID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return
	}
	// one rating per message; repeats are acknowledged but not recorded
	if !st.feedbackSeen[req.MessageID] {
		st.feedbackSeen[req.MessageID] = true
		st.ratings = append(st.ratings, req.Rating)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMetrics(c *gin.Context) {
	sessionID := c.Param("session_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return
	}

	satisfaction := 0.8
	if len(st.ratings) > 0 {
		sum := 0
		for _, r := range st.ratings {
			sum += r
		}
		satisfaction = float64(sum) / float64(len(st.ratings)) / 5.0
	}

	turns := float64(st.InteractionCount)
	avgResponse := 0.0
	intentAccuracy := 0.0
	emotionAccuracy := 0.0
	if turns > 0 {
		avgResponse = st.totalResponseSeconds / turns
		intentAccuracy = st.intentScoreSum / turns
		emotionAccuracy = st.emotionScoreSum / turns
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":                   st.ID,
		"total_messages":               st.ConversationLength,
		"user_satisfaction_score":      satisfaction,
		"average_response_time":        avgResponse,
		"intent_accuracy":              intentAccuracy,
		"emotion_recognition_accuracy": emotionAccuracy,
		"created_at":                   st.CreatedAt,
		"updated_at":                   time.Now(),
	})
}

func (s *Server) handleMenu(c *gin.Context) {
	c.JSON(http.StatusOK, builtinMenu)
}

func (s *Server) handleMenuItem(c *gin.Context) {
	id := c.Param("id")
	for _, it := range builtinMenu {
		if it.ID == id {
			c.JSON(http.StatusOK, it)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "菜品不存在"})
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	results := searchMenu(req.Query, req.Limit)
	c.JSON(http.StatusOK, gin.H{
		"results":     results,
		"total_count": len(results),
		"query":       req.Query,
	})
}

func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": menuCategories()})
}

func (s *Server) handleSeasonal(c *gin.Context) {
	var items []menuItem
	for _, it := range builtinMenu {
		if it.IsSeasonal {
			items = append(items, it)
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handlePopular(c *gin.Context) {
	limit := 5
	if v := c.Query("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil || limit <= 0 {
			limit = 5
		}
	}
	items := make([]menuItem, len(builtinMenu))
	copy(items, builtinMenu)
	sort.Slice(items, func(i, j int) bool { return items[i].Rating > items[j].Rating })
	if len(items) > limit {
		items = items[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type recommendationsRequest struct {
	UserPreferences map[string]any `json:"user_preferences"`
}

func (s *Server) handleRecommendations(c *gin.Context) {
	var req recommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}

	tastes := stringList(req.UserPreferences["taste_preferences"])
	cuisines := stringList(req.UserPreferences["cuisine_types"])
	avoid := stringList(req.UserPreferences["dietary_restrictions"])

	picks := matchMenu(tastes, cuisines, avoid, 5)
	if len(picks) == 0 {
		picks = matchMenu(nil, nil, avoid, 5)
	}
	c.JSON(http.StatusOK, gin.H{
		"recommendations":  picks,
		"reasoning":        "基于您的口味偏好，为您挑选了" + joinNames(picks),
		"confidence_score": 0.8,
	})
}

// stringList tolerates the two JSON encodings a preference list arrives in.
func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "AI餐厅推荐系统",
		"version": "1.0.0",
		"features": []string{
			"intent_analysis",
			"emotion_analysis",
			"entity_extraction",
			"conversation_metrics",
		},
	})
}
