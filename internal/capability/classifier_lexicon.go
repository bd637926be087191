package capability

// ===== LEXICON CLASSIFIER =====
// Offline emotion classifier. Scores text against small keyword lexicons per
// raw label and returns the strongest match. Deterministic, no network, used
// when no GenAI key is configured and as the test double's reference.

import (
	"context"
	"strings"

	"aura/internal/logging"
)

// lexiconEntry scores one keyword toward a raw classifier label.
type lexiconEntry struct {
	label string
	score float64
}

// lexicon maps lowercase keywords to their dominant label. Scores reflect how
// unambiguous the keyword is.
var lexicon = map[string]lexiconEntry{
	// joy
	"promoted":  {"joy", 0.95},
	"promotion": {"joy", 0.95},
	"happy":     {"joy", 0.9},
	"great":     {"joy", 0.75},
	"wonderful": {"joy", 0.9},
	"amazing":   {"joy", 0.85},
	"excited":   {"joy", 0.9},
	"love":      {"joy", 0.8},
	"glad":      {"joy", 0.8},
	"thrilled":  {"joy", 0.95},
	"awesome":   {"joy", 0.85},
	"proud":     {"joy", 0.85},

	// sadness
	"sad":       {"sadness", 0.9},
	"lonely":    {"sadness", 0.85},
	"miss":      {"sadness", 0.7},
	"crying":    {"sadness", 0.9},
	"cried":     {"sadness", 0.9},
	"depressed": {"sadness", 0.9},
	"down":      {"sadness", 0.6},
	"heartbroken": {"sadness", 0.95},
	"lost":      {"sadness", 0.65},

	// anger
	"angry":      {"anger", 0.9},
	"furious":    {"anger", 0.95},
	"annoyed":    {"anger", 0.8},
	"hate":       {"anger", 0.85},
	"unfair":     {"anger", 0.7},
	"frustrated": {"anger", 0.8},
	"mad":        {"anger", 0.85},

	// fear
	"scared":    {"fear", 0.9},
	"afraid":    {"fear", 0.9},
	"worried":   {"fear", 0.8},
	"anxious":   {"fear", 0.85},
	"nervous":   {"fear", 0.8},
	"terrified": {"fear", 0.95},
	"panic":     {"fear", 0.9},
	"stress":    {"fear", 0.7},
	"stressed":  {"fear", 0.8},

	// surprise
	"wow":        {"surprise", 0.8},
	"surprised":  {"surprise", 0.9},
	"unexpected": {"surprise", 0.8},
	"shocked":    {"surprise", 0.85},
	"suddenly":   {"surprise", 0.6},

	// disgust
	"disgusting": {"disgust", 0.9},
	"gross":      {"disgust", 0.85},
	"awful":      {"disgust", 0.7},
	"horrible":   {"disgust", 0.7},

	// neutral markers
	"okay": {"neutral", 0.6},
	"fine": {"neutral", 0.6},
}

// LexiconClassifier classifies text by keyword lookup.
type LexiconClassifier struct{}

// NewLexiconClassifier creates the offline classifier.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{}
}

// Classify returns the strongest lexicon match in the text. Unmatched text is
// neutral with middling confidence.
func (c *LexiconClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	if err := ctx.Err(); err != nil {
		return Classification{}, err
	}

	best := Classification{Label: "neutral", Score: 0.55}
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
	}) {
		if entry, ok := lexicon[word]; ok && entry.score > best.Score {
			best = Classification{Label: entry.label, Score: entry.score}
		}
	}

	logging.CapabilityDebug("[lexicon] classified %q as %s (%.2f)", truncate(text, 60), best.Label, best.Score)
	return best, nil
}
