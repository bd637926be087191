package types

import (
	"sync"
	"time"
)

// =============================================================================
// TURN CONTEXT
// =============================================================================

// TurnContext is the mutable record scoped to one user turn. Each optional
// field is written by exactly one designated agent and never overwritten; the
// fallback path may populate a field only if its owner left it empty. Writes
// are guarded so the concurrent phase (curator/journal/support) stays safe
// even though no two agents share a field.
type TurnContext struct {
	TurnID    string
	SessionID string
	InputText string
	StartedAt time.Time

	mu sync.Mutex

	mood           Mood
	confidence     float64
	moodSet        bool
	content        *ContentBundle
	journal        *JournalEntry
	responseText   string
	responseSet    bool
	errors         []AgentError
	priorMoods     []MoodSample
	priorJournal   []JournalEntry
	recentMessages []ChatMessage
}

// NewTurnContext seeds a fresh context for one turn. The prior session
// snapshots give agents read-only history without touching shared state.
func NewTurnContext(turnID, sessionID, input string) *TurnContext {
	return &TurnContext{
		TurnID:    turnID,
		SessionID: sessionID,
		InputText: input,
		StartedAt: time.Now(),
	}
}

// SeedHistory attaches read-only snapshots of the session histories.
func (tc *TurnContext) SeedHistory(moods []MoodSample, journal []JournalEntry, chat []ChatMessage) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.priorMoods = moods
	tc.priorJournal = journal
	tc.recentMessages = chat
}

// SetMood records the classified mood. First write wins; later writes are
// ignored so a fallback cannot clobber a real result.
func (tc *TurnContext) SetMood(m Mood, confidence float64) bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.moodSet {
		return false
	}
	tc.mood = m
	tc.confidence = confidence
	tc.moodSet = true
	return true
}

// Mood returns the recorded mood and whether it has been set.
func (tc *TurnContext) Mood() (Mood, float64, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.mood, tc.confidence, tc.moodSet
}

// SetContent records the curated content bundle. First write wins.
func (tc *TurnContext) SetContent(b ContentBundle) bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.content != nil {
		return false
	}
	copied := b
	tc.content = &copied
	return true
}

// Content returns the content bundle and whether it has been set.
func (tc *TurnContext) Content() (ContentBundle, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.content == nil {
		return ContentBundle{}, false
	}
	return *tc.content, true
}

// SetJournal records the journal entry. First write wins.
func (tc *TurnContext) SetJournal(e JournalEntry) bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.journal != nil {
		return false
	}
	copied := e
	tc.journal = &copied
	return true
}

// Journal returns the journal entry and whether it has been set.
func (tc *TurnContext) Journal() (JournalEntry, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.journal == nil {
		return JournalEntry{}, false
	}
	return *tc.journal, true
}

// SetResponse records the support response text. First write wins.
func (tc *TurnContext) SetResponse(text string) bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.responseSet {
		return false
	}
	tc.responseText = text
	tc.responseSet = true
	return true
}

// Response returns the response text and whether it has been set.
func (tc *TurnContext) Response() (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.responseText, tc.responseSet
}

// RecordError appends a typed agent failure. Order of recording is preserved.
func (tc *TurnContext) RecordError(agent string, kind ErrorKind, err error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.errors = append(tc.errors, AgentError{Agent: agent, Kind: kind, Err: err})
}

// Errors returns a copy of the recorded failures.
func (tc *TurnContext) Errors() []AgentError {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	out := make([]AgentError, len(tc.errors))
	copy(out, tc.errors)
	return out
}

// PriorMoods returns a copy of the seeded mood history snapshot.
func (tc *TurnContext) PriorMoods() []MoodSample {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]MoodSample(nil), tc.priorMoods...)
}

// PriorJournal returns a copy of the seeded journal history snapshot.
func (tc *TurnContext) PriorJournal() []JournalEntry {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]JournalEntry(nil), tc.priorJournal...)
}

// RecentMessages returns a copy of the seeded chat history snapshot.
func (tc *TurnContext) RecentMessages() []ChatMessage {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]ChatMessage(nil), tc.recentMessages...)
}

// Progress returns 25 x the count of populated owned fields
// (mood, content, journal, response).
func (tc *TurnContext) Progress() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	n := 0
	if tc.moodSet {
		n++
	}
	if tc.content != nil {
		n++
	}
	if tc.journal != nil {
		n++
	}
	if tc.responseSet {
		n++
	}
	return 25 * n
}
