package agent

// ===== JOURNAL AGENT =====
// Writes a short poetic reflection on the turn: a time header, the exchange
// condensed to quotes, a mood-colored line joined to a cycled symbol, and a
// closing question. Entries read like a diary kept about the conversation,
// not a transcript of it.

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"aura/internal/logging"
	"aura/internal/types"
)

// JournalAgent composes the turn's journal entry.
type JournalAgent struct {
	personas *PersonaStore
	timeout  time.Duration

	// now is swappable for tests
	now func() time.Time
}

// NewJournalAgent creates the journal agent.
func NewJournalAgent(personas *PersonaStore, timeout time.Duration) *JournalAgent {
	return &JournalAgent{
		personas: personas,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Name implements Agent.
func (a *JournalAgent) Name() string { return NameJournal }

// Run composes and writes the journal entry. Journal writing is local work;
// the timeout guards against pathological inputs only.
func (a *JournalAgent) Run(ctx context.Context, tc *types.TurnContext) error {
	if err := ctx.Err(); err != nil {
		return fail(tc, NameJournal, types.ErrTimeout, err)
	}

	mood, _, _ := tc.Mood()
	if mood == "" {
		mood = types.MoodNeutral
	}

	now := a.now()
	p := a.personas.Current()
	seed := textSeed(tc.InputText)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", now.Format("15:04"), timeSymbol(now.Hour()))
	fmt.Fprintf(&b, "You: %q\n", condense(tc.InputText))
	fmt.Fprintf(&b, "%s → %s\n", p.journalLineFor(mood, seed), p.Symbols[seed%len(p.Symbols)])
	b.WriteString(p.JournalQuestions[seed%len(p.JournalQuestions)])

	entry := types.JournalEntry{
		ID:        uuid.NewString(),
		Timestamp: now,
		Mood:      mood,
		Text:      b.String(),
		UserInput: tc.InputText,
	}
	tc.SetJournal(entry)
	logging.Journal("Turn %s: journal entry %s written", tc.TurnID, entry.ID)
	return nil
}

// timeSymbol returns the time-of-day symbol for the hour.
func timeSymbol(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "🌄"
	case hour >= 12 && hour < 17:
		return "☀️"
	case hour >= 17 && hour < 21:
		return "🌆"
	default:
		return "🌙"
	}
}

// condense shortens text while preserving meaning.
func condense(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 50 {
		return strings.TrimSpace(text[:50]) + "..."
	}
	return text
}

// textSeed derives a stable small seed from the input so persona choices vary
// between turns but stay deterministic for a given message.
func textSeed(text string) int {
	h := fnv.New32a()
	h.Write([]byte(text))
	return int(h.Sum32() % 1024)
}
