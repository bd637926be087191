// Package msglog keeps the append-only agent log: one entry per turn,
// recording what each agent did, how far the turn progressed, and any errors
// absorbed along the way. Entries carry the turn id explicitly so a log line
// always resolves to exactly one turn.
package msglog

import (
	"sync"
	"time"

	"aura/internal/logging"
	"aura/internal/types"
)

// Log is the in-process agent log. Append-only; entries are never edited.
type Log struct {
	mu      sync.RWMutex
	entries []types.AgentLogEntry
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// Build derives a log entry from a finished turn context. Progress counts the
// populated owner fields; statuses record each agent's terminal state.
func Build(tc *types.TurnContext, statuses map[string]types.AgentStatus) types.AgentLogEntry {
	mood, confidence, _ := tc.Mood()
	return types.AgentLogEntry{
		TurnID:     tc.TurnID,
		SessionID:  tc.SessionID,
		Timestamp:  time.Now(),
		Mood:       mood,
		Confidence: confidence,
		Statuses:   statuses,
		Progress:   tc.Progress(),
		Errors:     tc.Errors(),
	}
}

// Append records one entry.
func (l *Log) Append(e types.AgentLogEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()

	logging.MsgLog("Turn %s session %s: progress %d%%, %d errors",
		e.TurnID, e.SessionID, e.Progress, len(e.Errors))
}

// ForSession returns all entries for a session, oldest first.
func (l *Log) ForSession(sessionID string) []types.AgentLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []types.AgentLogEntry
	for _, e := range l.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out
}

// ForTurn returns the entry for a turn id, if present.
func (l *Log) ForTurn(turnID string) (types.AgentLogEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.entries {
		if e.TurnID == turnID {
			return e, true
		}
	}
	return types.AgentLogEntry{}, false
}

// Recent returns the last n entries, oldest first.
func (l *Log) Recent(n int) []types.AgentLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]types.AgentLogEntry(nil), l.entries[len(l.entries)-n:]...)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
