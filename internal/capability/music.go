package capability

// ===== SPOTIFY MUSIC SEARCH =====

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aura/internal/logging"
	"aura/internal/types"
)

// SpotifyClient searches the Spotify Web API for tracks using a pre-issued
// bearer token.
type SpotifyClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyClient creates a music searcher against the given base URL.
func NewSpotifyClient(token, baseURL string, timeout time.Duration) *SpotifyClient {
	if baseURL == "" {
		baseURL = "https://api.spotify.com/v1"
	}
	return &SpotifyClient{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []struct {
			Name    string `json:"name"`
			URI     string `json:"uri"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"items"`
	} `json:"tracks"`
}

// SearchMusic returns the top track match for the query.
func (c *SpotifyClient) SearchMusic(ctx context.Context, query string) (types.MusicResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", "1")

	headers := map[string]string{
		"Authorization": "Bearer " + c.token,
	}

	var resp spotifySearchResponse
	endpoint := c.baseURL + "/search?" + params.Encode()
	if err := doJSON(ctx, c.httpClient, "spotify", http.MethodGet, endpoint, nil, headers, &resp); err != nil {
		return types.MusicResult{}, err
	}

	if len(resp.Tracks.Items) == 0 {
		return types.MusicResult{}, &ProviderError{Provider: "spotify",
			Err: fmt.Errorf("no tracks for %q", query)}
	}

	track := resp.Tracks.Items[0]
	artist := ""
	if len(track.Artists) > 0 {
		artist = track.Artists[0].Name
	}
	thumbnail := ""
	if len(track.Album.Images) > 0 {
		thumbnail = track.Album.Images[0].URL
	}

	logging.Capability("[spotify] top track for %q: %s", query, track.Name)
	return types.MusicResult{
		Title:       cleanText(track.Name, 100),
		URL:         track.ExternalURLs.Spotify,
		Description: "Listen on Spotify",
		Thumbnail:   thumbnail,
		Artist:      artist,
		URI:         track.URI,
	}, nil
}
