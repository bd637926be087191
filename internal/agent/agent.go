// Package agent implements the six AURA agents. Each agent owns exactly one
// turn-context field: emotion owns mood, curator owns content, journal owns
// the journal entry, support owns the response text. Memory commits the turn
// and fallback fills whatever a failed owner left empty. Agents report
// failures through the turn context; they never panic a turn.
package agent

import (
	"context"

	"aura/internal/types"
)

// Agent names as they appear in agent log entries and error records.
const (
	NameEmotion  = "emotion"
	NameCurator  = "curator"
	NameJournal  = "journal"
	NameSupport  = "support"
	NameMemory   = "memory"
	NameFallback = "fallback"
)

// Agent is one pipeline participant. Run reads the turn context, performs the
// agent's work within the context deadline, and writes its owned field. A
// returned error means the owned field was not written and fallback should
// substitute for it.
type Agent interface {
	Name() string
	Run(ctx context.Context, tc *types.TurnContext) error
}

// fail records the error on the turn context and returns it, so every agent
// failure is visible in the agent log without the caller re-recording it.
func fail(tc *types.TurnContext, name string, kind types.ErrorKind, err error) error {
	tc.RecordError(name, kind, err)
	return &types.AgentError{Agent: name, Kind: kind, Err: err}
}
