package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura/internal/capability"
	"aura/internal/types"
)

func TestEmotionAgentMapsLabels(t *testing.T) {
	tests := []struct {
		label string
		score float64
		want  types.Mood
	}{
		{"joy", 0.95, types.MoodHappy},
		{"sadness", 0.8, types.MoodSad},
		{"anger", 0.7, types.MoodUpset},
		{"fear", 0.85, types.MoodAnxious},
		{"surprise", 0.9, types.MoodSurprised},
		{"disgust", 0.75, types.MoodDisgusted},
		{"neutral", 0.6, types.MoodCalm},
		{"JOY", 0.95, types.MoodHappy},      // case folded
		{"bewildered", 0.5, types.MoodCalm}, // unknown label
	}

	for _, tt := range tests {
		a := NewEmotionAgent(&stubClassifier{verdict: capability.Classification{Label: tt.label, Score: tt.score}}, time.Second)
		tc := types.NewTurnContext("t1", "s1", "some message")
		if err := a.Run(context.Background(), tc); err != nil {
			t.Fatalf("label %q: %v", tt.label, err)
		}
		mood, confidence, ok := tc.Mood()
		if !ok || mood != tt.want || confidence != tt.score {
			t.Errorf("label %q: got %s/%.2f/%v, want %s/%.2f", tt.label, mood, confidence, ok, tt.want, tt.score)
		}
	}
}

func TestEmotionAgentEmptyLabelIsNeutralZero(t *testing.T) {
	a := NewEmotionAgent(&stubClassifier{verdict: capability.Classification{Label: "", Score: 0.7}}, time.Second)
	tc := types.NewTurnContext("t1", "s1", "some message")

	if err := a.Run(context.Background(), tc); err != nil {
		t.Fatal(err)
	}
	mood, confidence, ok := tc.Mood()
	if !ok || mood != types.MoodNeutral || confidence != 0 {
		t.Errorf("got %s/%.2f/%v, want neutral/0.00", mood, confidence, ok)
	}
}

func TestEmotionAgentPromotionIsExtremelyConfident(t *testing.T) {
	a := NewEmotionAgent(capability.NewLexiconClassifier(), time.Second)
	tc := types.NewTurnContext("t1", "s1", "I just got promoted!")

	if err := a.Run(context.Background(), tc); err != nil {
		t.Fatal(err)
	}
	mood, confidence, _ := tc.Mood()
	if mood != types.MoodHappy {
		t.Errorf("mood = %s, want happy", mood)
	}
	if confidence != 0.95 {
		t.Errorf("confidence = %.2f, want 0.95", confidence)
	}
	if tier := types.ConfidenceTier(confidence); tier != "Extremely confident" {
		t.Errorf("tier = %q", tier)
	}
}

func TestEmotionAgentTimeout(t *testing.T) {
	a := NewEmotionAgent(&stubClassifier{delay: time.Second}, 20*time.Millisecond)
	tc := types.NewTurnContext("t1", "s1", "anyone there?")

	err := a.Run(context.Background(), tc)
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var agentErr *types.AgentError
	if !errors.As(err, &agentErr) {
		t.Fatalf("expected AgentError, got %T", err)
	}
	if agentErr.Kind != types.ErrTimeout {
		t.Errorf("kind = %s, want timeout", agentErr.Kind)
	}

	// Mood stays unset; fallback owns the substitution.
	if _, _, ok := tc.Mood(); ok {
		t.Error("mood was set despite failure")
	}
	recorded := tc.Errors()
	if len(recorded) != 1 || recorded[0].Kind != types.ErrTimeout {
		t.Errorf("recorded errors = %+v", recorded)
	}
}

func TestEmotionAgentProviderFailure(t *testing.T) {
	provErr := &capability.ProviderError{Provider: "genai", Err: errors.New("503")}
	a := NewEmotionAgent(&stubClassifier{err: provErr}, time.Second)
	tc := types.NewTurnContext("t1", "s1", "hello")

	err := a.Run(context.Background(), tc)
	var agentErr *types.AgentError
	if !errors.As(err, &agentErr) {
		t.Fatalf("expected AgentError, got %v", err)
	}
	if agentErr.Kind != types.ErrProviderUnavailable {
		t.Errorf("kind = %s, want provider_unavailable", agentErr.Kind)
	}
}
