package capability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const youtubePayload = `{
	"items": [{
		"id": {"videoId": "abc123"},
		"snippet": {
			"title": "Calm   Evening Piano",
			"description": "An hour of gentle piano.",
			"channelTitle": "Quiet Keys",
			"thumbnails": {"high": {"url": "https://img.example/abc123.jpg"}}
		}
	}]
}`

func TestYouTubeClientFormatsTopResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("videoEmbeddable"); got != "true" {
			t.Errorf("videoEmbeddable = %q, want true", got)
		}
		if got := r.URL.Query().Get("type"); got != "video" {
			t.Errorf("type = %q, want video", got)
		}
		w.Write([]byte(youtubePayload))
	}))
	defer srv.Close()

	c := NewYouTubeClient("key", srv.URL, 5, 2*time.Second)
	v, err := c.SearchVideo(context.Background(), "calm piano!!")
	if err != nil {
		t.Fatal(err)
	}

	if v.URL != "https://youtu.be/abc123" {
		t.Errorf("URL = %q", v.URL)
	}
	// Whitespace collapses in cleaned titles
	if v.Title != "Calm Evening Piano" {
		t.Errorf("Title = %q", v.Title)
	}
	if v.Artist != "Quiet Keys" {
		t.Errorf("Artist = %q", v.Artist)
	}
}

func TestYouTubeClientNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	c := NewYouTubeClient("key", srv.URL, 5, 2*time.Second)
	_, err := c.SearchVideo(context.Background(), "nothing")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestRetriesOnceOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(youtubePayload))
	}))
	defer srv.Close()

	c := NewYouTubeClient("key", srv.URL, 5, 2*time.Second)
	v, err := c.SearchVideo(context.Background(), "calm piano")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if v.URL != "https://youtu.be/abc123" {
		t.Errorf("URL = %q", v.URL)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestNoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewYouTubeClient("bad-key", srv.URL, 5, 2*time.Second)
	_, err := c.SearchVideo(context.Background(), "calm piano")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
}

func TestGivesUpAfterSecondFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewYouTubeClient("key", srv.URL, 5, 2*time.Second)
	_, err := c.SearchVideo(context.Background(), "calm piano")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestSpotifyClientFormatsTrack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{
			"tracks": {"items": [{
				"name": "Weightless",
				"uri": "spotify:track:xyz",
				"artists": [{"name": "Marconi Union"}],
				"album": {"images": [{"url": "https://img.example/cover.jpg"}]},
				"external_urls": {"spotify": "https://open.spotify.com/track/xyz"}
			}]}
		}`))
	}))
	defer srv.Close()

	c := NewSpotifyClient("tok", srv.URL, 2*time.Second)
	m, err := c.SearchMusic(context.Background(), "ambient calm")
	if err != nil {
		t.Fatal(err)
	}

	if m.Title != "Weightless" || m.Artist != "Marconi Union" {
		t.Errorf("track = %q by %q", m.Title, m.Artist)
	}
	if m.URI != "spotify:track:xyz" {
		t.Errorf("URI = %q", m.URI)
	}
	if m.Description != "Listen on Spotify" {
		t.Errorf("Description = %q", m.Description)
	}
}

func TestTavilyClientDeduplicatesAndCaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Write([]byte(`{"results": [
			{"title": "A", "url": "https://a.example", "content": "aaa"},
			{"title": "A again", "url": "https://a.example", "content": "dup"},
			{"title": "B", "url": "https://b.example", "content": "bbb"},
			{"title": "C", "url": "https://c.example", "content": "ccc"},
			{"title": "D", "url": "https://d.example", "content": "ddd"}
		]}`))
	}))
	defer srv.Close()

	c := NewTavilyClient("key", srv.URL, 7, 2*time.Second)
	articles, err := c.SearchNews(context.Background(), "good news")
	if err != nil {
		t.Fatal(err)
	}

	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(articles))
	}
	if articles[0].URL != "https://a.example" || articles[1].URL != "https://b.example" {
		t.Errorf("unexpected order: %v", articles)
	}
	for _, a := range articles {
		if a.Source != "Trusted Source" {
			t.Errorf("Source = %q", a.Source)
		}
	}
}

func TestClientHonorsContextDeadline(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	c := NewYouTubeClient("key", srv.URL, 5, 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.SearchVideo(ctx, "calm piano")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
