package devserver

import "strings"

type menuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
	Allergens   []string `json:"allergens"`
	IsSeasonal  bool     `json:"is_seasonal"`
	Rating      float64  `json:"rating"`
}

var builtinMenu = []menuItem{
	{
		ID: "m001", Name: "麻婆豆腐", Category: "川菜", Price: 38,
		Description: "经典川菜，麻辣鲜香，豆腐嫩滑",
		Ingredients: []string{"豆腐", "牛肉末", "豆瓣酱", "花椒"},
		Rating:      4.8,
	},
	{
		ID: "m002", Name: "水煮鱼", Category: "川菜", Price: 88,
		Description: "辣味十足的川菜招牌，鱼肉鲜嫩",
		Ingredients: []string{"草鱼", "豆芽", "辣椒", "花椒"},
		Allergens:   []string{"鱼类"},
		Rating:      4.7,
	},
	{
		ID: "m003", Name: "白切鸡", Category: "粤菜", Price: 58,
		Description: "清淡爽滑的粤菜经典，原汁原味",
		Ingredients: []string{"三黄鸡", "姜", "葱"},
		Rating:      4.5,
	},
	{
		ID: "m004", Name: "清蒸鲈鱼", Category: "粤菜", Price: 78,
		Description: "清淡健康，鱼肉细嫩，适合养生",
		Ingredients: []string{"鲈鱼", "姜", "蒸鱼豉油"},
		Allergens:   []string{"鱼类"},
		Rating:      4.6,
	},
	{
		ID: "m005", Name: "寿司拼盘", Category: "日料", Price: 128,
		Description: "新鲜海鲜寿司，搭配芥末和酱油",
		Ingredients: []string{"三文鱼", "金枪鱼", "米饭", "海苔"},
		Allergens:   []string{"海鲜"},
		Rating:      4.4,
	},
	{
		ID: "m006", Name: "冬阴功汤", Category: "泰餐", Price: 48,
		Description: "酸辣开胃的泰式名汤",
		Ingredients: []string{"虾", "香茅", "柠檬叶", "辣椒"},
		Allergens:   []string{"海鲜"},
		Rating:      4.3,
	},
	{
		ID: "m007", Name: "羊肉火锅", Category: "中餐", Price: 98,
		Description: "冬季温补，汤底浓郁",
		Ingredients: []string{"羊肉", "白菜", "粉丝"},
		IsSeasonal:  true,
		Rating:      4.5,
	},
	{
		ID: "m008", Name: "凉拌黄瓜", Category: "中餐", Price: 18,
		Description: "夏季清爽凉菜，酸甜可口",
		Ingredients: []string{"黄瓜", "蒜", "醋"},
		IsSeasonal:  true,
		Rating:      4.1,
	},
	{
		ID: "m009", Name: "玛格丽特披萨", Category: "意餐", Price: 68,
		Description: "经典意式披萨，番茄与芝士的组合",
		Ingredients: []string{"面粉", "番茄", "马苏里拉芝士", "罗勒"},
		Allergens:   []string{"麸质", "乳制品"},
		Rating:      4.2,
	},
	{
		ID: "m010", Name: "石锅拌饭", Category: "韩料", Price: 42,
		Description: "微辣下饭的韩式经典",
		Ingredients: []string{"米饭", "牛肉", "蔬菜", "辣酱"},
		Rating:      4.3,
	},
}

func menuCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range builtinMenu {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

func searchMenu(query string, limit int) []menuItem {
	query = strings.TrimSpace(query)
	var out []menuItem
	for _, it := range builtinMenu {
		if query == "" ||
			strings.Contains(it.Name, query) ||
			strings.Contains(it.Description, query) ||
			strings.Contains(it.Category, query) {
			out = append(out, it)
		}
		if len(out) >= limit {
			break
		}
	}
	return out
}

// matchMenu picks dishes matching any of the taste or cuisine hints, used
// to ground the assistant's reply in actual menu entries.
func matchMenu(tastes, cuisines []string, avoidAllergens []string, limit int) []menuItem {
	var out []menuItem
	for _, it := range builtinMenu {
		if hasAnyAllergen(it, avoidAllergens) {
			continue
		}
		matched := len(tastes) == 0 && len(cuisines) == 0
		for _, t := range tastes {
			if strings.Contains(it.Description, t) || strings.Contains(it.Name, t) {
				matched = true
			}
		}
		for _, c := range cuisines {
			if it.Category == c {
				matched = true
			}
		}
		if matched {
			out = append(out, it)
		}
		if len(out) >= limit {
			break
		}
	}
	return out
}

func hasAnyAllergen(it menuItem, allergens []string) bool {
	for _, a := range allergens {
		for _, have := range it.Allergens {
			if have == a {
				return true
			}
		}
	}
	return false
}
