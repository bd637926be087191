package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"aura/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "aura.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleCommit(turnID string) TurnCommit {
	now := time.Now().Truncate(time.Second)
	return TurnCommit{
		TurnID: turnID,
		Mood:   types.MoodSample{Mood: types.MoodHappy, Confidence: 0.95, Timestamp: now},
		Journal: &types.JournalEntry{
			ID: "j-" + turnID, Timestamp: now, Mood: types.MoodHappy,
			Text: "09:30 🌄\nLight spills over everything it touches",
			UserInput: "I just got promoted!",
		},
		Content: &types.ContentBundle{
			Video:      types.VideoResult{Title: "Celebration Mix", URL: "https://youtu.be/v"},
			News:       []types.NewsArticle{},
			Keyphrases: []string{"i", "just", "got"},
		},
		UserMsg: types.ChatMessage{TurnID: turnID, Sender: "user", Text: "I just got promoted!", Mood: types.MoodHappy, Timestamp: now},
		AuraMsg: types.ChatMessage{TurnID: turnID, Sender: "aura", Text: "That is wonderful news!", Mood: types.MoodHappy, Timestamp: now},
		LogEntry: types.AgentLogEntry{
			TurnID: turnID, SessionID: "s1", Timestamp: now,
			Mood: types.MoodHappy, Confidence: 0.95,
			Statuses: map[string]types.AgentStatus{"emotion": types.StatusComplete},
			Progress: 100,
		},
	}
}

func TestCommitAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CommitTurn("s1", sampleCommit("t1")))
	require.NoError(t, s.CommitTurn("s1", sampleCommit("t2")))

	snap, err := s.LoadSession("s1")
	require.NoError(t, err)

	assert.Len(t, snap.MoodHistory, 2)
	assert.Equal(t, types.MoodHappy, snap.MoodHistory[0].Mood)
	assert.Equal(t, 0.95, snap.MoodHistory[0].Confidence)

	assert.Len(t, snap.Journal, 2)
	assert.Equal(t, "I just got promoted!", snap.Journal[0].UserInput)

	// Two chat messages per turn, in append order
	require.Len(t, snap.Chat, 4)
	assert.Equal(t, "user", snap.Chat[0].Sender)
	assert.Equal(t, "aura", snap.Chat[1].Sender)
	assert.Equal(t, "t1", snap.Chat[0].TurnID)

	// Content snapshot is replace, not append: latest wins, byte-exact
	require.True(t, snap.HasContent)
	if diff := cmp.Diff(*sampleCommit("t2").Content, snap.Content); diff != "" {
		t.Errorf("content round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUnknownSessionIsEmpty(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.LoadSession("never-seen")
	require.NoError(t, err)
	assert.Empty(t, snap.MoodHistory)
	assert.Empty(t, snap.Chat)
	assert.False(t, snap.HasContent)
}

func TestResetSessionClearsStateKeepsAgentLog(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CommitTurn("s1", sampleCommit("t1")))

	require.NoError(t, s.ResetSession("s1"))

	snap, err := s.LoadSession("s1")
	require.NoError(t, err)
	assert.Empty(t, snap.MoodHistory)
	assert.Empty(t, snap.Journal)
	assert.Empty(t, snap.Chat)
	assert.False(t, snap.HasContent)

	// The agent log is an audit trail; reset leaves it alone
	entries, err := s.AgentLog("s1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAgentLogRoundTrip(t *testing.T) {
	s := newTestStore(t)

	c := sampleCommit("t1")
	c.LogEntry.Errors = []types.AgentError{{Agent: "curator", Kind: types.ErrTimeout}}
	require.NoError(t, s.CommitTurn("s1", c))

	entries, err := s.AgentLog("s1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "t1", e.TurnID)
	assert.Equal(t, types.MoodHappy, e.Mood)
	assert.Equal(t, 100, e.Progress)
	assert.Equal(t, types.StatusComplete, e.Statuses["emotion"])
	require.Len(t, e.Errors, 1)
	assert.Equal(t, types.ErrTimeout, e.Errors[0].Kind)
}

func TestListSessionsOrdersByRecency(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CommitTurn("older", sampleCommit("t1")))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.CommitTurn("newer", sampleCommit("t2")))

	ids, err := s.ListSessions()
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "newer", ids[0])
}

// Older deployments stored the bundle wrapped in a content envelope, sometimes
// twice. Loading must unwrap both shapes.
func TestDecodeContentNormalizesLegacyNesting(t *testing.T) {
	canonical := types.ContentBundle{
		Video:      types.VideoResult{Title: "A Video"},
		News:       []types.NewsArticle{{Title: "A", URL: "https://a.example"}},
		Keyphrases: []string{"calm"},
	}
	flat, err := json.Marshal(canonical)
	require.NoError(t, err)

	singleNested, err := json.Marshal(map[string]json.RawMessage{"content": flat})
	require.NoError(t, err)
	doubleNested, err := json.Marshal(map[string]json.RawMessage{"content": singleNested})
	require.NoError(t, err)

	for name, data := range map[string][]byte{
		"flat":   flat,
		"single": singleNested,
		"double": doubleNested,
	} {
		got, err := decodeContent(data)
		require.NoError(t, err, name)
		assert.Equal(t, "A Video", got.Video.Title, name)
		assert.Len(t, got.News, 1, name)
	}
}

func TestDecodeContentNilNewsBecomesEmpty(t *testing.T) {
	got, err := decodeContent([]byte(`{"video": {"title": "V"}}`))
	require.NoError(t, err)
	assert.NotNil(t, got.News)
	assert.Empty(t, got.News)
}

func TestLegacyNestedSnapshotLoadsThroughStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CommitTurn("s1", sampleCommit("t1")))

	// Overwrite the stored snapshot with a legacy nested row by hand
	nested := `{"content": {"video": {"title": "Legacy Video"}, "news": [], "context_keyphrases": ["old"]}}`
	_, err := s.db.Exec(`UPDATE content_snapshots SET content = ? WHERE session_id = ?`, nested, "s1")
	require.NoError(t, err)

	snap, err := s.LoadSession("s1")
	require.NoError(t, err)
	require.True(t, snap.HasContent)
	assert.Equal(t, "Legacy Video", snap.Content.Video.Title)
	assert.Equal(t, []string{"old"}, snap.Content.Keyphrases)
}
