package turn

// Hand-rolled capability stubs for coordinator tests.

import (
	"context"
	"time"

	"aura/internal/capability"
	"aura/internal/types"
)

type stubClassifier struct {
	verdict capability.Classification
	err     error
	delay   time.Duration
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (capability.Classification, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return capability.Classification{}, ctx.Err()
		}
	}
	if s.err != nil {
		return capability.Classification{}, s.err
	}
	return s.verdict, nil
}

type stubVideo struct {
	result types.VideoResult
	err    error
}

func (s *stubVideo) SearchVideo(ctx context.Context, query string) (types.VideoResult, error) {
	if s.err != nil {
		return types.VideoResult{}, s.err
	}
	return s.result, nil
}

type stubMusic struct {
	result types.MusicResult
	err    error
}

func (s *stubMusic) SearchMusic(ctx context.Context, query string) (types.MusicResult, error) {
	if s.err != nil {
		return types.MusicResult{}, s.err
	}
	return s.result, nil
}

type stubNews struct {
	result []types.NewsArticle
	err    error
}

func (s *stubNews) SearchNews(ctx context.Context, query string) ([]types.NewsArticle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func workingCaps() capability.Capabilities {
	return capability.Capabilities{
		Classifier: capability.NewLexiconClassifier(),
		Video:      &stubVideo{result: types.VideoResult{Title: "A Video", URL: "https://youtu.be/v"}},
		Music:      &stubMusic{result: types.MusicResult{Title: "A Track", URL: "https://open.spotify.com/track/t"}},
		News:       &stubNews{result: []types.NewsArticle{{Title: "An Article", URL: "https://news.example/a"}}},
	}
}
