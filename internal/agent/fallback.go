package agent

// ===== FALLBACK AGENT =====
// Graceful degradation. When an owner agent fails, fallback writes that
// owner's field with a safe substitute so the turn can always commit. It only
// writes fields that are still unset; a successful owner's value is never
// overwritten.

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"aura/internal/logging"
	"aura/internal/types"
)

// ConnectionFadedMessage is the reply of last resort, used when the turn
// deadline fires before any response was produced.
const ConnectionFadedMessage = "Like whispers in fog, our connection faded for a moment... Shall we try again? ✨"

// FallbackAgent substitutes for failed owner agents.
type FallbackAgent struct {
	personas *PersonaStore

	now func() time.Time
}

// NewFallbackAgent creates the fallback agent.
func NewFallbackAgent(personas *PersonaStore) *FallbackAgent {
	return &FallbackAgent{personas: personas, now: time.Now}
}

// Name implements Agent.
func (a *FallbackAgent) Name() string { return NameFallback }

// Substitute fills the field owned by the named failed agent, if still
// unset. Returns true when a substitution was written.
func (a *FallbackAgent) Substitute(tc *types.TurnContext, failed string) bool {
	switch failed {
	case NameEmotion:
		if wrote := tc.SetMood(types.MoodNeutral, 0.0); wrote {
			logging.Get(logging.CategoryMemory).Warn("Turn %s: fallback mood neutral (emotion failed)", tc.TurnID)
			return true
		}
	case NameCurator:
		if wrote := tc.SetContent(a.fallbackBundle()); wrote {
			logging.Curator("Turn %s: fallback content bundle substituted", tc.TurnID)
			return true
		}
	case NameJournal:
		if wrote := tc.SetJournal(a.fallbackJournal(tc)); wrote {
			logging.Journal("Turn %s: fallback journal entry substituted", tc.TurnID)
			return true
		}
	case NameSupport:
		mood, _, _ := tc.Mood()
		if mood == "" {
			mood = types.MoodNeutral
		}
		if wrote := tc.SetResponse(a.personas.Current().moodMessageFor(mood)); wrote {
			logging.Support("Turn %s: fallback response substituted", tc.TurnID)
			return true
		}
	}
	return false
}

// fallbackBundle returns the canned content bundle: a guided meditation, an
// ambient track, and one gentle article.
func (a *FallbackAgent) fallbackBundle() types.ContentBundle {
	return types.ContentBundle{
		Video: types.VideoResult{
			Title:       "Guided Meditation for Inner Peace",
			URL:         "https://youtu.be/inpok4MKVLM",
			Description: "A calming meditation to center yourself",
			Thumbnail:   "https://i.ytimg.com/vi/inpok4MKVLM/hqdefault.jpg",
			Artist:      "Goodful",
		},
		Music: types.MusicResult{
			Title:       "Ambient Relaxation",
			URL:         "https://open.spotify.com/track/0pYacDCZuRhcrwGUA5nTBe",
			Description: "Calming instrumental music",
			Thumbnail:   "https://i.scdn.co/image/ab67616d0000b273d8601e15fa1b4351fe1fc6ae",
			Artist:      "Ambient Sounds",
			URI:         "spotify:track:0pYacDCZuRhcrwGUA5nTBe",
		},
		News: []types.NewsArticle{{
			Title:   "Finding Joy in Small Moments",
			URL:     "https://www.goodnewsnetwork.org/",
			Source:  "Good News Network",
			Snippet: "Discover how mindful attention to everyday experiences can transform your outlook.",
		}},
		Keyphrases: []string{"support", "wellness", "mindfulness"},
	}
}

// fallbackJournal returns a reflective entry about the interruption itself.
func (a *FallbackAgent) fallbackJournal(tc *types.TurnContext) types.JournalEntry {
	now := a.now()
	mood, _, _ := tc.Mood()
	if mood == "" {
		mood = types.MoodNeutral
	}
	text := fmt.Sprintf("%s %s\nWords between us float like leaves —\nCarried by winds of understanding...\nWhat patterns might they form when they land?",
		now.Format("15:04"), timeSymbol(now.Hour()))
	return types.JournalEntry{
		ID:        uuid.NewString(),
		Timestamp: now,
		Mood:      mood,
		Text:      text,
		UserInput: tc.InputText,
	}
}
