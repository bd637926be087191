package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"aura/internal/store"
	"aura/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func commitFor(turnID string, mood types.Mood) store.TurnCommit {
	now := time.Now()
	return store.TurnCommit{
		TurnID:  turnID,
		Mood:    types.MoodSample{Mood: mood, Confidence: 0.8, Timestamp: now},
		UserMsg: types.ChatMessage{TurnID: turnID, Sender: "user", Text: "hi", Timestamp: now},
		AuraMsg: types.ChatMessage{TurnID: turnID, Sender: "aura", Text: "hello", Timestamp: now},
		LogEntry: types.AgentLogEntry{
			TurnID: turnID, SessionID: "s1", Timestamp: now,
			Statuses: map[string]types.AgentStatus{}, Progress: 100,
		},
	}
}

func TestTurnCommitAppendsState(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	claim, err := s.AcquireTurn(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, claim.Commit(commitFor("t1", types.MoodHappy)))

	st, err := s.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, st.MoodHistory, 1)
	assert.Equal(t, types.MoodHappy, st.MoodHistory[0].Mood)
	assert.Len(t, st.Chat, 2)
}

func TestReleaseWithoutCommitLeavesStateUntouched(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	claim, err := s.AcquireTurn(ctx, "s1")
	require.NoError(t, err)
	claim.Release()

	st, err := s.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, st.MoodHistory)
}

func TestSecondTurnBlocksUntilFirstReleases(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	first, err := s.AcquireTurn(ctx, "s1")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := s.AcquireTurn(ctx, "s1")
		if err == nil {
			second.Release()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second turn acquired while first held the claim")
	case <-time.After(50 * time.Millisecond):
	}

	first.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second turn never acquired after release")
	}
}

func TestAcquireTurnRespectsContext(t *testing.T) {
	s := NewStore(nil)

	first, err := s.AcquireTurn(context.Background(), "s1")
	require.NoError(t, err)
	defer first.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = s.AcquireTurn(ctx, "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrentTurnsNeverLoseMoods(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			claim, err := s.AcquireTurn(ctx, "s1")
			if err != nil {
				t.Error(err)
				return
			}
			if err := claim.Commit(commitFor("t", types.MoodCalm)); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	st, err := s.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, st.MoodHistory, n, "every committed turn appends exactly one mood sample")
	assert.Len(t, st.Chat, 2*n)
}

func TestSnapshotIsIsolatedFromLaterCommits(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	claim, err := s.AcquireTurn(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, claim.Commit(commitFor("t1", types.MoodSad)))

	st, err := s.Snapshot(ctx, "s1")
	require.NoError(t, err)
	st.MoodHistory[0].Mood = types.MoodHappy

	again, err := s.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, types.MoodSad, again.MoodHistory[0].Mood)
}

func TestResetClearsInMemoryAndDurable(t *testing.T) {
	durable, err := store.NewLocalStore(filepath.Join(t.TempDir(), "aura.db"))
	require.NoError(t, err)
	defer durable.Close()

	s := NewStore(durable)
	ctx := context.Background()

	claim, err := s.AcquireTurn(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, claim.Commit(commitFor("t1", types.MoodHappy)))

	require.NoError(t, s.Reset(ctx, "s1"))

	st, err := s.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, st.MoodHistory)

	// A fresh store over the same database sees the reset too
	s2 := NewStore(durable)
	st2, err := s2.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, st2.MoodHistory)
}

func TestHydrationFromDurableStore(t *testing.T) {
	durable, err := store.NewLocalStore(filepath.Join(t.TempDir(), "aura.db"))
	require.NoError(t, err)
	defer durable.Close()

	s := NewStore(durable)
	ctx := context.Background()

	claim, err := s.AcquireTurn(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, claim.Commit(commitFor("t1", types.MoodAnxious)))

	// Second store simulates a restart
	s2 := NewStore(durable)
	st, err := s2.Snapshot(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, st.MoodHistory, 1)
	assert.Equal(t, types.MoodAnxious, st.MoodHistory[0].Mood)
	assert.Len(t, st.Chat, 2)
}
