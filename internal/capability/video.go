package capability

// ===== YOUTUBE VIDEO SEARCH =====

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"aura/internal/logging"
	"aura/internal/types"
)

var nonWordRe = regexp.MustCompile(`[^\w\s]`)
var spaceRe = regexp.MustCompile(`\s+`)

// cleanText collapses whitespace and truncates to max runes.
func cleanText(s string, max int) string {
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	if r := []rune(s); len(r) > max {
		s = string(r[:max])
	}
	return s
}

// YouTubeClient searches YouTube Data API v3 for embeddable videos.
type YouTubeClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewYouTubeClient creates a video searcher against the given base URL.
func NewYouTubeClient(apiKey, baseURL string, maxResults int, timeout time.Duration) *YouTubeClient {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &YouTubeClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// SearchVideo returns the top embeddable medium-length video for the query.
func (c *YouTubeClient) SearchVideo(ctx context.Context, query string) (types.VideoResult, error) {
	clean := strings.TrimSpace(nonWordRe.ReplaceAllString(query, ""))
	if clean == "" {
		clean = query
	}
	if r := []rune(clean); len(r) > 100 {
		clean = string(r[:100])
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", clean)
	params.Set("key", c.apiKey)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("videoEmbeddable", "true")
	params.Set("videoDuration", "medium")

	var resp youtubeSearchResponse
	endpoint := c.baseURL + "/search?" + params.Encode()
	if err := doJSON(ctx, c.httpClient, "youtube", http.MethodGet, endpoint, nil, nil, &resp); err != nil {
		return types.VideoResult{}, err
	}

	if len(resp.Items) == 0 {
		return types.VideoResult{}, &ProviderError{Provider: "youtube",
			Err: fmt.Errorf("no results for %q", clean)}
	}

	top := resp.Items[0]
	logging.Capability("[youtube] top result for %q: %s", clean, top.Snippet.Title)
	return types.VideoResult{
		Title:       cleanText(top.Snippet.Title, 100),
		URL:         "https://youtu.be/" + top.ID.VideoID,
		Description: cleanText(top.Snippet.Description, 200),
		Thumbnail:   top.Snippet.Thumbnails.High.URL,
		Artist:      cleanText(top.Snippet.ChannelTitle, 50),
	}, nil
}
