package devserver

import (
	"regexp"
	"strings"
)

// Keyword analyzers standing in for the production language-understanding
// models. Scores are deterministic so client tests can assert on them.

var intentKeywords = map[string][]string{
	"recommendation": {"推荐", "有什么", "想吃", "想尝试", "来点"},
	"information":    {"怎么样", "介绍", "热量", "是什么"},
	"comparison":     {"比较", "区别", "对比"},
	"preference":     {"喜欢", "口味", "偏好", "爱吃"},
	"health":         {"健康", "营养", "低脂", "养生"},
	"allergy":        {"过敏", "不能吃", "忌口"},
	"seasonal":       {"季节", "当季", "应季", "今天有什么"},
	"budget":         {"预算", "便宜", "价格", "元以内"},
}

var emotionKeywords = map[string][]string{
	"positive": {"好", "棒", "谢谢", "满意"},
	"negative": {"不喜欢", "差", "讨厌", "难吃"},
	"excited":  {"太棒了", "迫不及待", "兴奋", "期待"},
	"worried":  {"担心", "怕", "犹豫"},
}

var cuisineTypes = []string{"川菜", "粤菜", "湘菜", "中餐", "西餐", "日料", "韩料", "泰餐", "意大利菜", "意餐"}

var tastePreferences = []string{"辣", "清淡", "甜", "酸", "咸", "麻"}

var allergenTerms = []string{"海鲜", "花生", "坚果", "乳制品", "麸质"}

var budgetPattern = regexp.MustCompile(`(\d+)\s*元`)

var partySizePattern = regexp.MustCompile(`(\d+)\s*个人`)

func scoreKeywords(message string, keywords map[string][]string) map[string]float64 {
	scores := make(map[string]float64)
	for label, words := range keywords {
		s := 0.0
		for _, w := range words {
			if strings.Contains(message, w) {
				s += 0.4
			}
		}
		if s > 0.95 {
			s = 0.95
		}
		if s > 0 {
			scores[label] = s
		}
	}
	return scores
}

func analyzeIntent(message string) map[string]float64 {
	scores := scoreKeywords(message, intentKeywords)
	if len(scores) == 0 {
		scores["recommendation"] = 0.3
	}
	return scores
}

func analyzeEmotion(message string) map[string]float64 {
	scores := scoreKeywords(message, emotionKeywords)
	if len(scores) == 0 {
		scores["neutral"] = 0.6
	}
	return scores
}

// extractEntities returns the mixed-shape entity map the production model
// emits: lists for matched terms, a mapping for the budget, a scalar for
// the party size.
func extractEntities(message string) map[string]any {
	entities := make(map[string]any)

	var cuisines []string
	for _, c := range cuisineTypes {
		if strings.Contains(message, c) {
			cuisines = append(cuisines, c)
		}
	}
	if len(cuisines) > 0 {
		entities["cuisine_types"] = cuisines
	}

	var tastes []string
	for _, t := range tastePreferences {
		if strings.Contains(message, t) {
			tastes = append(tastes, t)
		}
	}
	if len(tastes) > 0 {
		entities["taste_preferences"] = tastes
	}

	if strings.Contains(message, "过敏") || strings.Contains(message, "不能吃") {
		var restricted []string
		for _, a := range allergenTerms {
			if strings.Contains(message, a) {
				restricted = append(restricted, a)
			}
		}
		if len(restricted) > 0 {
			entities["dietary_restrictions"] = restricted
		}
	}

	if m := budgetPattern.FindStringSubmatch(message); m != nil {
		entities["budget_range"] = map[string]string{"max": m[1], "currency": "CNY"}
	}
	if m := partySizePattern.FindStringSubmatch(message); m != nil {
		entities["party_size"] = m[1]
	}

	return entities
}

func topLabel(scores map[string]float64) string {
	best := ""
	bestScore := -1.0
	for label, s := range scores {
		if s > bestScore || (s == bestScore && label < best) {
			best = label
			bestScore = s
		}
	}
	return best
}

func maxScore(scores map[string]float64) float64 {
	best := 0.0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}
	return best
}
