// Package capability implements the external capability stubs agents depend
// on: emotion classification and the video/music/news search providers. Each
// call is bounded by a context timeout and may retry once on a transport
// failure; retries are invisible to the caller.
package capability

import (
	"context"
	"errors"
	"net"

	"aura/internal/types"
)

// =============================================================================
// CAPABILITY INTERFACES
// =============================================================================

// Classification is the raw classifier output before vocabulary mapping.
type Classification struct {
	Label string  // raw classifier label (joy, sadness, anger, ...)
	Score float64 // confidence in [0, 1]
}

// Classifier classifies the dominant emotion of a piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// VideoSearcher finds a mood-appropriate video for a query.
type VideoSearcher interface {
	SearchVideo(ctx context.Context, query string) (types.VideoResult, error)
}

// MusicSearcher finds a mood-appropriate track for a query.
type MusicSearcher interface {
	SearchMusic(ctx context.Context, query string) (types.MusicResult, error)
}

// NewsSearcher finds uplifting news articles for a query.
type NewsSearcher interface {
	SearchNews(ctx context.Context, query string) ([]types.NewsArticle, error)
}

// Capabilities bundles everything the agent layer needs from the outside
// world. Agents receive this at construction and never reach past it.
type Capabilities struct {
	Classifier Classifier
	Video      VideoSearcher
	Music      MusicSearcher
	News       NewsSearcher
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// Kind maps a capability error onto the error taxonomy. Context deadline and
// cancellation count as timeouts; transport and provider failures count as
// provider unavailability.
func Kind(err error) types.ErrorKind {
	if err == nil {
		return types.ErrUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return types.ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return types.ErrTimeout
		}
		return types.ErrProviderUnavailable
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return types.ErrProviderUnavailable
	}
	return types.ErrUnknown
}

// ProviderError marks a failure on the provider side: unreachable endpoint,
// non-2xx status, or a malformed payload.
type ProviderError struct {
	Provider string
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " provider error: " + e.Err.Error()
	}
	return e.Provider + " provider error"
}

func (e *ProviderError) Unwrap() error { return e.Err }
