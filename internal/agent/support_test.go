package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"aura/internal/types"
)

func TestSupportAgentEmotionalReply(t *testing.T) {
	a := NewSupportAgent(NewPersonaStore(), time.Second)

	tc := types.NewTurnContext("t1", "s1", "I feel so lonely tonight")
	tc.SetMood(types.MoodSad, 0.85)

	if err := a.Run(context.Background(), tc); err != nil {
		t.Fatal(err)
	}

	reply, ok := tc.Response()
	if !ok || reply == "" {
		t.Fatal("response not set")
	}
	if strings.Contains(strings.ToLower(reply), "error") {
		t.Errorf("reply leaks failure wording: %q", reply)
	}
	if !strings.Contains(reply, "?") {
		t.Errorf("emotional reply has no open question: %q", reply)
	}
}

func TestSupportAgentFactualReply(t *testing.T) {
	a := NewSupportAgent(NewPersonaStore(), time.Second)

	tc := types.NewTurnContext("t1", "s1", "what is the history of jazz")
	tc.SetMood(types.MoodCalm, 0.7)

	if err := a.Run(context.Background(), tc); err != nil {
		t.Fatal(err)
	}

	reply, _ := tc.Response()
	if reply == "" {
		t.Fatal("response empty")
	}
	// Factual replies lean on the topic, not mood metaphors
	if !strings.Contains(reply, "what") && !strings.Contains(reply, "is") {
		t.Errorf("factual reply ignores topic: %q", reply)
	}
}

func TestIsFactualQuery(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"what is the capital of France", true},
		{"Tell me about the ocean", true},
		{"explain quantum entanglement", true},
		{"how to make bread", true},
		{"the world cup final was wild", true},
		{"I feel so alone", false},
		{"today was hard", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isFactualQuery(tt.input); got != tt.want {
			t.Errorf("isFactualQuery(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSupportAgentHighConfidenceIsDirect(t *testing.T) {
	a := NewSupportAgent(NewPersonaStore(), time.Second)

	high := types.NewTurnContext("t1", "s1", "I am so thrilled about everything")
	high.SetMood(types.MoodHappy, 0.95)
	if err := a.Run(context.Background(), high); err != nil {
		t.Fatal(err)
	}
	highReply, _ := high.Response()

	low := types.NewTurnContext("t2", "s1", "I am so thrilled about everything")
	low.SetMood(types.MoodHappy, 0.5)
	if err := a.Run(context.Background(), low); err != nil {
		t.Fatal(err)
	}
	lowReply, _ := low.Response()

	if highReply == lowReply {
		t.Error("confidence does not shape the reply")
	}
	if !strings.Contains(highReply, "I can feel it clearly") {
		t.Errorf("high-confidence reply = %q", highReply)
	}
}

func TestSupportAgentDefaultsToNeutralMood(t *testing.T) {
	a := NewSupportAgent(NewPersonaStore(), time.Second)

	tc := types.NewTurnContext("t1", "s1", "hmm")
	if err := a.Run(context.Background(), tc); err != nil {
		t.Fatal(err)
	}
	if reply, ok := tc.Response(); !ok || reply == "" {
		t.Error("no reply without a mood")
	}
}
