// Package turn drives one conversation turn through the agent pipeline.
// Emotion runs first and alone; curator, journal, and support then run
// concurrently; merging substitutes fallback values for anything a failed
// agent left unset; memory commits. A turn always reaches Committed, no
// matter which agents failed on the way.
package turn

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"aura/internal/agent"
	"aura/internal/capability"
	"aura/internal/config"
	"aura/internal/logging"
	"aura/internal/msglog"
	"aura/internal/session"
	"aura/internal/types"
)

// TurnState is the lifecycle state of one turn.
type TurnState int32

const (
	StateCreated TurnState = iota
	StateEmotionPending
	StateEmotionDone
	StateFanOut
	StateMerging
	StateCommitted
)

func (s TurnState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateEmotionPending:
		return "emotion-pending"
	case StateEmotionDone:
		return "emotion-done"
	case StateFanOut:
		return "fan-out"
	case StateMerging:
		return "merging"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// invalidInputResponse answers an empty message without running the pipeline.
const invalidInputResponse = "I'm listening, but I didn't catch any words. What's on your mind?"

// Coordinator orchestrates the agent pipeline for each turn.
type Coordinator struct {
	cfg      *config.Config
	sessions *session.Store
	log      *msglog.Log

	emotion  *agent.EmotionAgent
	curator  *agent.CuratorAgent
	journal  *agent.JournalAgent
	support  *agent.SupportAgent
	memory   *agent.MemoryAgent
	fallback *agent.FallbackAgent

	// turnsStarted and turnsCommitted feed Health
	turnsStarted   atomic.Int64
	turnsCommitted atomic.Int64
}

// NewCoordinator wires the pipeline: agents built over the given capability
// set, committing into the given session store.
func NewCoordinator(cfg *config.Config, caps capability.Capabilities, sessions *session.Store, personas *agent.PersonaStore, log *msglog.Log) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		sessions: sessions,
		log:      log,
		emotion:  agent.NewEmotionAgent(caps.Classifier, cfg.EmotionTimeout()),
		curator:  agent.NewCuratorAgent(caps.Video, caps.Music, caps.News, cfg.CuratorTimeout()),
		journal:  agent.NewJournalAgent(personas, cfg.JournalTimeout()),
		support:  agent.NewSupportAgent(personas, cfg.SupportTimeout()),
		memory:   agent.NewMemoryAgent(log),
		fallback: agent.NewFallbackAgent(personas),
	}
}

// ProcessTurn runs one full turn for a session and returns the committed
// result. Empty input short-circuits with a canned reply and touches nothing.
// Concurrent calls for the same session serialize; each committed turn
// appends exactly one mood sample.
func (c *Coordinator) ProcessTurn(ctx context.Context, sessionID, input string) (*types.TurnResult, error) {
	if strings.TrimSpace(input) == "" {
		// Invalid input never reaches the pipeline and never touches the
		// session. The canned reply is the handled outcome.
		logging.Coordinator("Session %s: empty input, short-circuiting", sessionID)
		return &types.TurnResult{
			TurnID:         uuid.NewString(),
			Response:       invalidInputResponse,
			Mood:           types.MoodNeutral,
			Confidence:     0,
			ConfidenceTier: types.ConfidenceTier(0),
			Timestamp:      time.Now().Format(time.RFC3339),
			Content:        emptyBundle(),
			Status:         "complete",
		}, nil
	}

	turnID := uuid.NewString()
	c.turnsStarted.Add(1)

	state := StateCreated
	setState := func(next TurnState) {
		state = next
		logging.CoordinatorDebug("Turn %s: state %s", turnID, state)
	}

	// The whole turn runs under the global deadline. When it fires, agents
	// still pending fail with a timeout and fallback completes the turn.
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TurnDeadline())
	defer cancel()

	claim, err := c.sessions.AcquireTurn(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim session %s: %w", sessionID, err)
	}
	defer claim.Release()

	snap := claim.Snapshot()
	tc := types.NewTurnContext(turnID, sessionID, input)
	tc.SeedHistory(snap.MoodHistory, snap.Journal, snap.Chat)

	statuses := map[string]types.AgentStatus{
		agent.NameEmotion: types.StatusPending,
		agent.NameCurator: types.StatusPending,
		agent.NameJournal: types.StatusPending,
		agent.NameSupport: types.StatusPending,
		agent.NameMemory:  types.StatusPending,
	}
	var statusMu sync.Mutex
	setStatus := func(name string, st types.AgentStatus) {
		statusMu.Lock()
		statuses[name] = st
		statusMu.Unlock()
	}

	// Stage 1: emotion, blocking.
	setState(StateEmotionPending)
	setStatus(agent.NameEmotion, types.StatusInProgress)
	if err := c.emotion.Run(ctx, tc); err != nil {
		setStatus(agent.NameEmotion, types.StatusError)
		c.fallback.Substitute(tc, agent.NameEmotion)
	} else {
		setStatus(agent.NameEmotion, types.StatusComplete)
	}
	setState(StateEmotionDone)

	// Stage 2: curator, journal, support fan out. Each owns a distinct field
	// and none waits on a sibling.
	setState(StateFanOut)
	var wg sync.WaitGroup
	for _, a := range []agent.Agent{c.curator, c.journal, c.support} {
		a := a
		wg.Add(1)
		setStatus(a.Name(), types.StatusInProgress)
		go func() {
			defer wg.Done()
			if err := a.Run(ctx, tc); err != nil {
				setStatus(a.Name(), types.StatusError)
				c.fallback.Substitute(tc, a.Name())
			} else {
				setStatus(a.Name(), types.StatusComplete)
			}
		}()
	}
	wg.Wait()

	// Stage 3: merge. Anything still unset gets its fallback here, so the
	// commit below always sees a complete context.
	setState(StateMerging)
	for _, name := range []string{agent.NameEmotion, agent.NameCurator, agent.NameJournal, agent.NameSupport} {
		c.fallback.Substitute(tc, name)
	}
	if _, ok := tc.Response(); !ok {
		tc.SetResponse(agent.ConnectionFadedMessage)
	}

	setStatus(agent.NameMemory, types.StatusInProgress)
	statusMu.Lock()
	finalStatuses := make(map[string]types.AgentStatus, len(statuses))
	for k, v := range statuses {
		finalStatuses[k] = v
	}
	statusMu.Unlock()
	finalStatuses[agent.NameMemory] = types.StatusComplete

	// A turn that reached merging always commits, even if the caller's
	// deadline has passed.
	entry, commitErr := c.memory.Commit(claim, tc, finalStatuses)
	if commitErr != nil {
		logging.Get(logging.CategoryCoordinator).Error("Turn %s: commit error: %v", turnID, commitErr)
	}
	setState(StateCommitted)
	c.turnsCommitted.Add(1)

	result := c.buildResult(tc, entry)
	logging.Coordinator("Turn %s committed for session %s: mood=%s progress=%d%%",
		turnID, sessionID, result.Mood, entry.Progress)
	return result, nil
}

// buildResult shapes the committed context into the caller-facing result.
func (c *Coordinator) buildResult(tc *types.TurnContext, entry types.AgentLogEntry) *types.TurnResult {
	mood, confidence, _ := tc.Mood()
	response, _ := tc.Response()

	result := &types.TurnResult{
		TurnID:         tc.TurnID,
		Response:       response,
		Mood:           mood,
		Confidence:     confidence,
		ConfidenceTier: types.ConfidenceTier(confidence),
		Timestamp:      time.Now().Format(time.RFC3339),
		Content:        emptyBundle(),
		Status:         "complete",
	}
	// Journal reads newest-first.
	entries := tc.PriorJournal()
	if journal, ok := tc.Journal(); ok {
		result.Journal = journal.Text
		entries = append(entries, journal)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	result.JournalEntries = entries
	if content, ok := tc.Content(); ok {
		if content.News == nil {
			content.News = []types.NewsArticle{}
		}
		if content.Keyphrases == nil {
			content.Keyphrases = []string{}
		}
		result.Content = content
	}
	return result
}

// emptyBundle is the canonical all-empty content shape.
func emptyBundle() types.ContentBundle {
	return types.ContentBundle{
		News:       []types.NewsArticle{},
		Keyphrases: []string{},
	}
}

// ResetSession clears a session's histories. In-flight turns finish first.
func (c *Coordinator) ResetSession(ctx context.Context, sessionID string) error {
	logging.Coordinator("Resetting session %s", sessionID)
	return c.sessions.Reset(ctx, sessionID)
}

// Session returns a read-only snapshot of a session's state.
func (c *Coordinator) Session(ctx context.Context, sessionID string) (session.State, error) {
	return c.sessions.Snapshot(ctx, sessionID)
}

// AgentLog returns the in-process agent log entries for a session.
func (c *Coordinator) AgentLog(sessionID string) []types.AgentLogEntry {
	return c.log.ForSession(sessionID)
}

// Health reports pipeline liveness counters.
type Health struct {
	TurnsStarted   int64 `json:"turns_started"`
	TurnsCommitted int64 `json:"turns_committed"`
	InFlight       int64 `json:"in_flight"`
	LogEntries     int   `json:"log_entries"`
}

// Health returns current pipeline counters. Started always catches up with
// committed because every turn terminates.
func (c *Coordinator) Health() Health {
	started := c.turnsStarted.Load()
	committed := c.turnsCommitted.Load()
	return Health{
		TurnsStarted:   started,
		TurnsCommitted: committed,
		InFlight:       started - committed,
		LogEntries:     c.log.Len(),
	}
}
