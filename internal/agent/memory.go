package agent

// ===== MEMORY AGENT =====
// The final stage. Memory gathers the turn context into one commit: append
// the mood sample, append the journal entry, replace the content snapshot,
// append both chat messages, and append the agent log entry. All of it lands
// in a single critical section on the session, so concurrent turns on other
// sessions never interleave with it.

import (
	"time"

	"aura/internal/logging"
	"aura/internal/msglog"
	"aura/internal/session"
	"aura/internal/store"
	"aura/internal/types"
)

// MemoryAgent commits finished turns to session state and the agent log.
type MemoryAgent struct {
	log *msglog.Log

	now func() time.Time
}

// NewMemoryAgent creates the memory agent.
func NewMemoryAgent(log *msglog.Log) *MemoryAgent {
	return &MemoryAgent{log: log, now: time.Now}
}

// Name implements Agent.
func (a *MemoryAgent) Name() string { return NameMemory }

// Commit writes the turn into the session and appends the agent log entry.
// Every owner field must already be set, by its owner or by fallback. The log
// entry is appended even if persistence fails, so absorbed errors stay
// visible.
func (a *MemoryAgent) Commit(t *session.Turn, tc *types.TurnContext, statuses map[string]types.AgentStatus) (types.AgentLogEntry, error) {
	now := a.now()
	mood, confidence, _ := tc.Mood()
	response, _ := tc.Response()

	commit := store.TurnCommit{
		TurnID: tc.TurnID,
		Mood: types.MoodSample{
			Mood:       mood,
			Confidence: confidence,
			Timestamp:  now,
		},
		UserMsg: types.ChatMessage{
			TurnID:    tc.TurnID,
			Sender:    "user",
			Text:      tc.InputText,
			Mood:      mood,
			Timestamp: now,
		},
		AuraMsg: types.ChatMessage{
			TurnID:    tc.TurnID,
			Sender:    "aura",
			Text:      response,
			Mood:      mood,
			Timestamp: now,
		},
	}
	if journal, ok := tc.Journal(); ok {
		commit.Journal = &journal
	}
	if content, ok := tc.Content(); ok {
		commit.Content = &content
	}

	entry := msglog.Build(tc, statuses)
	commit.LogEntry = entry

	err := t.Commit(commit)
	a.log.Append(entry)
	if err != nil {
		logging.Get(logging.CategoryMemory).Error("Turn %s: commit failed: %v", tc.TurnID, err)
		return entry, fail(tc, NameMemory, types.ErrUnknown, err)
	}

	logging.Memory("Turn %s committed for session %s", tc.TurnID, tc.SessionID)
	return entry, nil
}
