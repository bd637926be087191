package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestConfidenceTier(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.95, "Extremely confident"},
		{0.9, "Extremely confident"},
		{0.85, "Very confident"},
		{0.8, "Very confident"},
		{0.7, "Moderately confident"},
		{0.6, "Moderately confident"},
		{0.59, "Not very confident"},
		{0.0, "Not very confident"},
	}
	for _, tt := range tests {
		if got := ConfidenceTier(tt.score); got != tt.want {
			t.Errorf("ConfidenceTier(%.2f) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestClassifierLabelsCoverVocabulary(t *testing.T) {
	expected := map[string]Mood{
		"joy":      MoodHappy,
		"sadness":  MoodSad,
		"anger":    MoodUpset,
		"fear":     MoodAnxious,
		"surprise": MoodSurprised,
		"disgust":  MoodDisgusted,
		"neutral":  MoodCalm,
	}
	for label, want := range expected {
		got, ok := ClassifierLabels[label]
		if !ok {
			t.Errorf("label %q missing", label)
			continue
		}
		if got != want {
			t.Errorf("label %q maps to %s, want %s", label, got, want)
		}
		if !ValidMood(got) {
			t.Errorf("label %q maps outside the vocabulary", label)
		}
	}
}

func TestValidMood(t *testing.T) {
	for _, m := range MoodVocabulary {
		if !ValidMood(m) {
			t.Errorf("vocabulary mood %s reported invalid", m)
		}
	}
	if ValidMood("ecstatic") {
		t.Error("out-of-vocabulary mood reported valid")
	}
}

func TestAgentErrorUnwrap(t *testing.T) {
	inner := errors.New("socket closed")
	err := &AgentError{Agent: "curator", Kind: ErrProviderUnavailable, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("AgentError does not unwrap")
	}
	if err.Error() == "" {
		t.Error("empty error string")
	}
}

func TestContentBundleMarshalsExplicitEmpties(t *testing.T) {
	bundle := ContentBundle{
		News:       []NewsArticle{},
		Keyphrases: []string{},
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"video", "music", "news", "context_keyphrases"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("key %q omitted from canonical bundle", key)
		}
	}
	if string(decoded["news"]) != "[]" {
		t.Errorf("news = %s, want []", decoded["news"])
	}
}
