package capability

// ===== TAVILY NEWS SEARCH =====

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aura/internal/logging"
	"aura/internal/types"
)

// TavilyClient searches the Tavily API for news articles.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewTavilyClient creates a news searcher against the given base URL.
func NewTavilyClient(apiKey, baseURL string, maxResults int, timeout time.Duration) *TavilyClient {
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	if maxResults <= 0 {
		maxResults = 7
	}
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tavilySearchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	IncludeImages bool   `json:"include_images"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// SearchNews returns up to three deduplicated articles for the query.
func (c *TavilyClient) SearchNews(ctx context.Context, query string) ([]types.NewsArticle, error) {
	reqBody, err := json.Marshal(tavilySearchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		MaxResults:  c.maxResults,
		SearchDepth: "advanced",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp tavilySearchResponse
	endpoint := c.baseURL + "/search"
	if err := doJSON(ctx, c.httpClient, "tavily", http.MethodPost, endpoint, bytes.NewReader(reqBody), nil, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var articles []types.NewsArticle
	for _, r := range resp.Results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		articles = append(articles, types.NewsArticle{
			Title:   cleanText(r.Title, 100),
			URL:     r.URL,
			Source:  "Trusted Source",
			Snippet: cleanText(r.Content, 150),
		})
		if len(articles) >= 3 {
			break
		}
	}

	if len(articles) == 0 {
		return nil, &ProviderError{Provider: "tavily",
			Err: fmt.Errorf("no articles for %q", query)}
	}

	logging.Capability("[tavily] %d articles for %q", len(articles), query)
	return articles, nil
}
