package agent

// ===== CURATOR AGENT =====
// Finds mood-appropriate video, music, and news concurrently. The three
// searches run in parallel and fail independently: a bundle with one
// populated field and two explicitly empty ones is a success. Only when every
// search fails does the curator fail as a whole.

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"aura/internal/capability"
	"aura/internal/logging"
	"aura/internal/types"
)

var wordRe = regexp.MustCompile(`\w+`)

// emotionalWords flags a query as emotional when classification is unsure.
var emotionalWords = map[string]bool{
	"feel": true, "feeling": true, "sad": true, "happy": true, "angry": true,
	"upset": true, "love": true, "lonely": true, "depressed": true,
	"anxious": true, "scared": true, "miss": true,
}

// CuratorAgent curates a content bundle for the turn's mood and topic.
type CuratorAgent struct {
	video   capability.VideoSearcher
	music   capability.MusicSearcher
	news    capability.NewsSearcher
	timeout time.Duration
}

// NewCuratorAgent creates the curator around the three search capabilities.
func NewCuratorAgent(video capability.VideoSearcher, music capability.MusicSearcher, news capability.NewsSearcher, timeout time.Duration) *CuratorAgent {
	return &CuratorAgent{video: video, music: music, news: news, timeout: timeout}
}

// Name implements Agent.
func (a *CuratorAgent) Name() string { return NameCurator }

// Run builds the search queries from input and mood, fans out the three
// searches, and writes the canonical content bundle.
func (a *CuratorAgent) Run(ctx context.Context, tc *types.TurnContext) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	mood, _, _ := tc.Mood()
	query := a.buildQuery(tc.InputText, mood)
	newsQuery := query
	if a.isEmotional(tc.InputText) {
		// Steer emotional turns toward uplifting outlets
		newsQuery = query + " site:goodnewsnetwork.org OR site:positive.news"
	}

	bundle := types.ContentBundle{
		News:       []types.NewsArticle{},
		Keyphrases: extractKeyphrases(tc.InputText),
	}

	// errgroup used for fan-out only; branch errors stay per-branch so one
	// failure does not cancel the siblings.
	var videoErr, musicErr, newsErr error
	var g errgroup.Group

	g.Go(func() error {
		v, err := a.video.SearchVideo(ctx, query)
		if err != nil {
			videoErr = err
			return nil
		}
		bundle.Video = v
		return nil
	})
	g.Go(func() error {
		m, err := a.music.SearchMusic(ctx, query)
		if err != nil {
			musicErr = err
			return nil
		}
		bundle.Music = m
		return nil
	})
	g.Go(func() error {
		n, err := a.news.SearchNews(ctx, newsQuery)
		if err != nil {
			newsErr = err
			return nil
		}
		bundle.News = n
		return nil
	})
	_ = g.Wait()

	succeeded := 0
	for branch, err := range map[string]error{"video": videoErr, "music": musicErr, "news": newsErr} {
		if err == nil {
			succeeded++
			continue
		}
		logging.Get(logging.CategoryCurator).Warn("Turn %s: %s search failed: %v", tc.TurnID, branch, err)
	}

	if succeeded == 0 {
		firstErr := videoErr
		if firstErr == nil {
			firstErr = musicErr
		}
		if firstErr == nil {
			firstErr = newsErr
		}
		return fail(tc, NameCurator, capability.Kind(firstErr), firstErr)
	}

	tc.SetContent(bundle)
	logging.Curator("Turn %s: curated %d/3 branches, keyphrases %v", tc.TurnID, succeeded, bundle.Keyphrases)
	return nil
}

// buildQuery combines the input with the mood, trimmed for provider limits.
func (a *CuratorAgent) buildQuery(input string, mood types.Mood) string {
	q := strings.TrimSpace(input)
	if r := []rune(q); len(r) > 100 {
		q = string(r[:100])
	}
	if mood != "" && mood != types.MoodNeutral {
		q = q + " " + string(mood)
	}
	return q
}

// isEmotional reports whether the input reads as emotional rather than
// factual, by keyword heuristic.
func (a *CuratorAgent) isEmotional(input string) bool {
	for _, w := range wordRe.FindAllString(strings.ToLower(input), -1) {
		if emotionalWords[w] {
			return true
		}
	}
	return false
}

// extractKeyphrases returns up to three unique words from the input,
// preserving order of first appearance.
func extractKeyphrases(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]bool)
	var unique []string
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		unique = append(unique, w)
		if len(unique) == 3 {
			break
		}
	}
	if len(unique) == 0 {
		return []string{"general information"}
	}
	return unique
}
