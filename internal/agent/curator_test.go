package agent

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"aura/internal/capability"
	"aura/internal/types"
)

func TestCuratorAgentAllBranchesSucceed(t *testing.T) {
	video, music, news := happyCaps()
	a := NewCuratorAgent(video, music, news, time.Second)

	tc := types.NewTurnContext("t1", "s1", "tell me something nice")
	tc.SetMood(types.MoodHappy, 0.9)

	if err := a.Run(context.Background(), tc); err != nil {
		t.Fatal(err)
	}

	bundle, ok := tc.Content()
	if !ok {
		t.Fatal("content not set")
	}
	if bundle.Video.Title != "A Video" || bundle.Music.Title != "A Track" {
		t.Errorf("bundle = %+v", bundle)
	}
	if len(bundle.News) != 1 {
		t.Errorf("news = %+v", bundle.News)
	}
	if want := []string{"tell", "me", "something"}; !reflect.DeepEqual(bundle.Keyphrases, want) {
		t.Errorf("keyphrases = %v, want %v", bundle.Keyphrases, want)
	}
}

func TestCuratorAgentPartialSuccess(t *testing.T) {
	// Only music succeeds: video and news fields must be explicitly empty,
	// not missing.
	provErr := &capability.ProviderError{Provider: "x", Err: errors.New("down")}
	music := &stubMusic{result: types.MusicResult{Title: "A Track"}}
	a := NewCuratorAgent(&stubVideo{err: provErr}, music, &stubNews{err: provErr}, time.Second)

	tc := types.NewTurnContext("t1", "s1", "play me something")
	tc.SetMood(types.MoodCalm, 0.7)

	if err := a.Run(context.Background(), tc); err != nil {
		t.Fatalf("partial success must not fail the curator: %v", err)
	}

	bundle, ok := tc.Content()
	if !ok {
		t.Fatal("content not set")
	}
	if bundle.Music.Title != "A Track" {
		t.Errorf("music = %+v", bundle.Music)
	}
	if bundle.Video != (types.VideoResult{}) {
		t.Errorf("video should be empty, got %+v", bundle.Video)
	}
	if bundle.News == nil || len(bundle.News) != 0 {
		t.Errorf("news should be explicitly empty, got %#v", bundle.News)
	}
}

func TestCuratorAgentAllBranchesFail(t *testing.T) {
	provErr := &capability.ProviderError{Provider: "x", Err: errors.New("down")}
	a := NewCuratorAgent(&stubVideo{err: provErr}, &stubMusic{err: provErr}, &stubNews{err: provErr}, time.Second)

	tc := types.NewTurnContext("t1", "s1", "anything at all")
	tc.SetMood(types.MoodSad, 0.8)

	err := a.Run(context.Background(), tc)
	var agentErr *types.AgentError
	if !errors.As(err, &agentErr) {
		t.Fatalf("expected AgentError, got %v", err)
	}
	if agentErr.Agent != NameCurator || agentErr.Kind != types.ErrProviderUnavailable {
		t.Errorf("error = %+v", agentErr)
	}
	if _, ok := tc.Content(); ok {
		t.Error("content was set despite total failure")
	}
}

func TestBuildQueryTruncatesOnRuneBoundary(t *testing.T) {
	video, music, news := happyCaps()
	a := NewCuratorAgent(video, music, news, time.Second)

	long := strings.Repeat("気", 150)
	q := a.buildQuery(long, types.MoodNeutral)
	if !utf8.ValidString(q) {
		t.Fatalf("invalid UTF-8: %q", q)
	}
	if utf8.RuneCountInString(q) != 100 {
		t.Errorf("rune count = %d, want 100", utf8.RuneCountInString(q))
	}

	// Non-neutral moods still append after the cut
	q = a.buildQuery(long, types.MoodSad)
	if !strings.HasSuffix(q, " sad") || !utf8.ValidString(q) {
		t.Errorf("got %q", q)
	}
}

func TestExtractKeyphrases(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"I miss my old friends", []string{"i", "miss", "my"}},
		{"rain rain rain go away", []string{"rain", "go", "away"}},
		{"", []string{"general information"}},
		{"   ", []string{"general information"}},
		{"one", []string{"one"}},
	}
	for _, tt := range tests {
		if got := extractKeyphrases(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("extractKeyphrases(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsEmotional(t *testing.T) {
	a := &CuratorAgent{}
	if !a.isEmotional("I feel so lonely") {
		t.Error("emotional input classified factual")
	}
	if a.isEmotional("what is the capital of France") {
		t.Error("factual input classified emotional")
	}
}
