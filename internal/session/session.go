// Package session holds live session state and serializes turns against it.
// Each session admits at most one in-flight turn; a second caller blocks
// until the first commits. State mutates only inside Commit, so a turn either
// lands completely or not at all.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aura/internal/logging"
	"aura/internal/store"
	"aura/internal/types"
)

// State is one session's accumulated histories.
type State struct {
	ID          string
	MoodHistory []types.MoodSample
	Journal     []types.JournalEntry
	Chat        []types.ChatMessage
	Content     types.ContentBundle
	HasContent  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// clone returns a deep copy safe to hand to agents.
func (st *State) clone() State {
	out := *st
	out.MoodHistory = append([]types.MoodSample(nil), st.MoodHistory...)
	out.Journal = append([]types.JournalEntry(nil), st.Journal...)
	out.Chat = append([]types.ChatMessage(nil), st.Chat...)
	if st.Content.News != nil {
		out.Content.News = append([]types.NewsArticle(nil), st.Content.News...)
	}
	if st.Content.Keyphrases != nil {
		out.Content.Keyphrases = append([]string(nil), st.Content.Keyphrases...)
	}
	return out
}

type entry struct {
	// turnSem admits one turn at a time; buffered so release never blocks.
	turnSem chan struct{}

	dataMu sync.RWMutex
	state  State
	loaded bool
}

// Store is the in-memory session registry, write-through to the durable
// store when one is attached.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	durable  *store.LocalStore
}

// NewStore creates a session store. durable may be nil for ephemeral use.
func NewStore(durable *store.LocalStore) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		durable:  durable,
	}
}

func (s *Store) entryFor(sessionID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{turnSem: make(chan struct{}, 1)}
		e.state = State{ID: sessionID, CreatedAt: time.Now()}
		s.sessions[sessionID] = e
	}
	return e
}

// hydrate pulls durable history into a fresh entry. Runs under dataMu.
func (s *Store) hydrate(e *entry, sessionID string) error {
	if e.loaded || s.durable == nil {
		e.loaded = true
		return nil
	}
	snap, err := s.durable.LoadSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to hydrate session %s: %w", sessionID, err)
	}
	e.state.MoodHistory = snap.MoodHistory
	e.state.Journal = snap.Journal
	e.state.Chat = snap.Chat
	e.state.Content = snap.Content
	e.state.HasContent = snap.HasContent
	e.loaded = true
	logging.Session("Hydrated session %s: %d moods, %d journal, %d chat",
		sessionID, len(snap.MoodHistory), len(snap.Journal), len(snap.Chat))
	return nil
}

// =============================================================================
// TURN SERIALIZATION
// =============================================================================

// Turn is an exclusive claim on a session for the duration of one turn.
type Turn struct {
	s         *Store
	e         *entry
	sessionID string
	released  bool
}

// AcquireTurn claims the session for one turn, blocking while another turn is
// in flight. The claim must be released exactly once, normally via Commit.
func (s *Store) AcquireTurn(ctx context.Context, sessionID string) (*Turn, error) {
	e := s.entryFor(sessionID)

	select {
	case e.turnSem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	e.dataMu.Lock()
	err := s.hydrate(e, sessionID)
	e.dataMu.Unlock()
	if err != nil {
		<-e.turnSem
		return nil, err
	}

	logging.SessionDebug("Turn claim acquired for session %s", sessionID)
	return &Turn{s: s, e: e, sessionID: sessionID}, nil
}

// Snapshot returns a deep copy of the session state at claim time.
func (t *Turn) Snapshot() State {
	t.e.dataMu.RLock()
	defer t.e.dataMu.RUnlock()
	return t.e.state.clone()
}

// Commit appends the turn's results to the session in one critical section
// and writes them through to the durable store. The claim is released whether
// or not persistence succeeds; in-memory state only mutates when it does.
func (t *Turn) Commit(c store.TurnCommit) error {
	defer t.Release()

	t.e.dataMu.Lock()
	defer t.e.dataMu.Unlock()

	if t.s.durable != nil {
		if err := t.s.durable.CommitTurn(t.sessionID, c); err != nil {
			return err
		}
	}

	st := &t.e.state
	st.MoodHistory = append(st.MoodHistory, c.Mood)
	if c.Journal != nil {
		st.Journal = append(st.Journal, *c.Journal)
	}
	st.Chat = append(st.Chat, c.UserMsg, c.AuraMsg)
	if c.Content != nil {
		st.Content = *c.Content
		st.HasContent = true
	}
	st.UpdatedAt = time.Now()

	logging.Session("Session %s committed turn %s: %d moods, %d journal, %d chat",
		t.sessionID, c.TurnID, len(st.MoodHistory), len(st.Journal), len(st.Chat))
	return nil
}

// Release gives up the claim without committing. Safe to call after Commit.
func (t *Turn) Release() {
	if t.released {
		return
	}
	t.released = true
	<-t.e.turnSem
	logging.SessionDebug("Turn claim released for session %s", t.sessionID)
}

// =============================================================================
// READS AND RESET
// =============================================================================

// Snapshot returns a copy of a session's state, hydrating it if needed.
func (s *Store) Snapshot(ctx context.Context, sessionID string) (State, error) {
	e := s.entryFor(sessionID)
	e.dataMu.Lock()
	defer e.dataMu.Unlock()
	if err := s.hydrate(e, sessionID); err != nil {
		return State{}, err
	}
	return e.state.clone(), nil
}

// Reset clears a session's histories, in memory and durably. It waits for any
// in-flight turn to finish so a turn never commits into a half-reset session.
func (s *Store) Reset(ctx context.Context, sessionID string) error {
	e := s.entryFor(sessionID)

	select {
	case e.turnSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-e.turnSem }()

	e.dataMu.Lock()
	defer e.dataMu.Unlock()

	if s.durable != nil {
		if err := s.durable.ResetSession(sessionID); err != nil {
			return err
		}
	}

	e.state = State{ID: sessionID, CreatedAt: time.Now()}
	e.loaded = true

	logging.Session("Session %s reset", sessionID)
	return nil
}

// Sessions lists known session ids: durable first, then any in-memory only.
func (s *Store) Sessions() ([]string, error) {
	seen := make(map[string]bool)
	var ids []string

	if s.durable != nil {
		durableIDs, err := s.durable.ListSessions()
		if err != nil {
			return nil, err
		}
		for _, id := range durableIDs {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.sessions {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
