package api

import (
	"context"
	"fmt"
	"net/url"
)

// MenuItem mirrors the backend's menu entry. The client does no filtering of
// its own; these calls are plain pass-throughs.
type MenuItem struct {
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

type SearchResult struct {
	Results    []MenuItem `json:"results"`
	TotalCount int        `json:"total_count"`
	Query      string     `json:"query"`
}

type Recommendations struct {
	Recommendations []MenuItem `json:"recommendations"`
	Reasoning       string     `json:"reasoning"`
	ConfidenceScore float64    `json:"confidence_score"`
}

func (c *Client) Menu(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := c.getJSON(ctx, "/api/menu", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) MenuItem(ctx context.Context, id string) (*MenuItem, error) {
	var item MenuItem
	if err := c.getJSON(ctx, "/api/menu/"+url.PathEscape(id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) SearchMenu(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	body := map[string]any{"query": query, "limit": limit}
	var out SearchResult
	if err := c.postJSON(ctx, "/api/search", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.getJSON(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) SeasonalItems(ctx context.Context) ([]MenuItem, error) {
	var out struct {
		Items []MenuItem `json:"items"`
	}
	if err := c.getJSON(ctx, "/api/seasonal", &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) PopularItems(ctx context.Context, limit int) ([]MenuItem, error) {
	if limit <= 0 {
		limit = 5
	}
	var out struct {
		Items []MenuItem `json:"items"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/popular?limit=%d", limit), &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) Recommendations(ctx context.Context, preferences map[string]any) (*Recommendations, error) {
	body := map[string]any{"user_preferences": preferences}
	var out Recommendations
	if err := c.postJSON(ctx, "/api/recommendations", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, "/api/health", &out)
}
