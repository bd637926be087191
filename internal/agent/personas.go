package agent

// ===== PERSONA TEMPLATES =====
// The journal, support, and fallback agents draw their voice from persona
// templates: mood metaphors, proactive questions, journal lines, and canned
// mood messages. Built-in defaults ship in code; YAML files in the persona
// directory override them and can be hot-reloaded while AURA runs.

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"aura/internal/logging"
	"aura/internal/types"
)

// Personas holds the template tables the text-producing agents draw from.
type Personas struct {
	// Metaphors per mood, woven into emotional support responses.
	Metaphors map[string][]string `yaml:"metaphors"`

	// Open questions appended to emotional responses.
	Questions []string `yaml:"questions"`

	// Poetic journal lines per mood.
	JournalLines map[string][]string `yaml:"journal_lines"`

	// Reflective questions closing a journal entry.
	JournalQuestions []string `yaml:"journal_questions"`

	// Canned support messages per mood, used when the support agent fails.
	MoodMessages map[string]string `yaml:"mood_messages"`

	// Closers cycled onto the end of support responses.
	Closers []string `yaml:"closers"`

	// Symbols cycled through journal entries.
	Symbols []string `yaml:"symbols"`
}

// DefaultPersonas returns the built-in persona tables.
func DefaultPersonas() *Personas {
	return &Personas{
		Metaphors: map[string][]string{
			string(types.MoodSad):       {"storm clouds breaking", "wilted flowers", "fading sunset"},
			string(types.MoodHappy):     {"firework burst", "sunlit meadow", "children's laughter"},
			string(types.MoodUpset):     {"a kettle left too long", "gravel underfoot", "a slammed door still echoing"},
			string(types.MoodAnxious):   {"a lighthouse in fog", "a held breath", "wind before rain"},
			string(types.MoodSurprised): {"a door opening onto sea", "lightning in a clear sky", "an unexpected letter"},
			string(types.MoodDisgusted): {"a fogged mirror", "stagnant pond", "an untranslated poem"},
			string(types.MoodCalm):      {"still water at dawn", "a slow tide", "morning light on wood"},
			string(types.MoodNeutral):   {"an unplayed piano", "untouched canvas", "an open road"},
		},
		Questions: []string{
			"What shape does this feeling take?",
			"Shall we explore this together?",
			"Where does this sensation live in your body?",
			"What color would this moment be?",
			"Can you taste the change coming?",
		},
		JournalLines: map[string][]string{
			string(types.MoodSad):       {"Rain writes its slow letters on the glass", "Even wilted flowers remember the sun"},
			string(types.MoodHappy):     {"Light spills over everything it touches", "Joy leaves footprints worth retracing"},
			string(types.MoodUpset):     {"Heat looks for somewhere to go", "Even thunder runs out of sky"},
			string(types.MoodAnxious):   {"The fog holds more shapes than dangers", "A held breath is still breathing"},
			string(types.MoodSurprised): {"The unexpected rearranges the furniture of a day", "Lightning redraws the map for a moment"},
			string(types.MoodDisgusted): {"Some waters need stirring before they clear", "Distance can be a kind of washing"},
			string(types.MoodCalm):      {"Still water keeps the deepest reflections", "The tide takes its time and loses nothing"},
			string(types.MoodNeutral):   {"Moonlight traces paths through uncertainty", "An open page waits without impatience"},
		},
		JournalQuestions: []string{
			"What constellations will guide your morning?",
			"What patterns might these moments form when they land?",
			"Which of today's small details will you keep?",
			"What would this hour say if it could speak back?",
		},
		MoodMessages: map[string]string{
			string(types.MoodHappy):     "It's wonderful to see you in good spirits! How can I enhance this positive energy today?",
			string(types.MoodSad):       "I sense some sadness. Remember that all emotions are valid, and I'm here to support you.",
			string(types.MoodAnxious):   "I notice you might be feeling anxious. Let's take a breath together and find some calm.",
			string(types.MoodUpset):     "I understand you might be feeling frustrated. Your feelings are valid, and I'm here to listen.",
			string(types.MoodSurprised): "That sounds unexpected. Take your time, and tell me as much or as little as you like.",
			string(types.MoodDisgusted): "When things seem unclear, sometimes a gentle pause helps us find clarity. I'm here to help.",
			string(types.MoodCalm):      "There is a quiet steadiness in this moment. I'm here whenever you want to wander further.",
			string(types.MoodNeutral):   "How are you feeling today? I'm here to support you however you need.",
		},
		Closers: []string{"🌌", "🌱", "🌀", "✨", "💫"},
		Symbols: []string{"🌀", "🌌", "✨", "🌠", "💭"},
	}
}

// PersonaStore is the live persona set shared by the agents. Reload swaps the
// tables atomically so a turn in flight keeps a consistent snapshot.
type PersonaStore struct {
	mu       sync.RWMutex
	personas *Personas
}

// NewPersonaStore creates a store seeded with defaults.
func NewPersonaStore() *PersonaStore {
	return &PersonaStore{personas: DefaultPersonas()}
}

// Current returns the active persona snapshot.
func (ps *PersonaStore) Current() *Personas {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.personas
}

// Reload merges a persona YAML file over the defaults and swaps the result
// in. Fields missing from the file keep their default values.
func (ps *PersonaStore) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read persona file: %w", err)
	}

	merged := DefaultPersonas()
	if err := yaml.Unmarshal(data, merged); err != nil {
		return fmt.Errorf("failed to parse persona file: %w", err)
	}
	if err := merged.validate(); err != nil {
		return fmt.Errorf("invalid persona file %s: %w", path, err)
	}

	ps.mu.Lock()
	ps.personas = merged
	ps.mu.Unlock()

	logging.Boot("Personas reloaded from %s", path)
	return nil
}

func (p *Personas) validate() error {
	if len(p.Questions) == 0 {
		return fmt.Errorf("questions must not be empty")
	}
	if len(p.Closers) == 0 {
		return fmt.Errorf("closers must not be empty")
	}
	if len(p.Symbols) == 0 {
		return fmt.Errorf("symbols must not be empty")
	}
	if len(p.JournalQuestions) == 0 {
		return fmt.Errorf("journal_questions must not be empty")
	}
	return nil
}

// metaphorFor returns a metaphor for the mood, stably chosen by seed.
func (p *Personas) metaphorFor(mood types.Mood, seed int) string {
	options := p.Metaphors[string(mood)]
	if len(options) == 0 {
		options = p.Metaphors[string(types.MoodNeutral)]
	}
	if len(options) == 0 {
		return "an open road"
	}
	return options[seed%len(options)]
}

// journalLineFor returns a poetic journal line for the mood.
func (p *Personas) journalLineFor(mood types.Mood, seed int) string {
	options := p.JournalLines[string(mood)]
	if len(options) == 0 {
		options = p.JournalLines[string(types.MoodNeutral)]
	}
	if len(options) == 0 {
		return "Moonlight traces paths through uncertainty"
	}
	return options[seed%len(options)]
}

// moodMessageFor returns the canned support message for the mood.
func (p *Personas) moodMessageFor(mood types.Mood) string {
	if msg, ok := p.MoodMessages[string(mood)]; ok {
		return msg
	}
	return "I'm here to support you today. How can I help?"
}
