package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"aura/internal/types"
)

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 14, hour, 30, 0, 0, time.UTC)
	}
}

func TestJournalAgentWritesEntry(t *testing.T) {
	a := NewJournalAgent(NewPersonaStore(), time.Second)
	a.now = fixedClock(22)

	tc := types.NewTurnContext("t1", "s1", "Can't see past tomorrow, everything feels heavy and endless tonight")
	tc.SetMood(types.MoodSad, 0.85)

	if err := a.Run(context.Background(), tc); err != nil {
		t.Fatal(err)
	}

	entry, ok := tc.Journal()
	if !ok {
		t.Fatal("journal not set")
	}
	if entry.ID == "" {
		t.Error("entry id empty")
	}
	if entry.Mood != types.MoodSad {
		t.Errorf("entry mood = %s", entry.Mood)
	}

	lines := strings.Split(entry.Text, "\n")
	if len(lines) < 4 {
		t.Fatalf("entry has %d lines, want at least 4:\n%s", len(lines), entry.Text)
	}
	if !strings.HasPrefix(lines[0], "22:30 ") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[0], "🌙") {
		t.Errorf("night entry missing night symbol: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "You: ") {
		t.Errorf("quote line = %q", lines[1])
	}
	if !strings.Contains(lines[1], "...") {
		t.Errorf("long input not condensed: %q", lines[1])
	}
	if !strings.Contains(lines[2], "→") {
		t.Errorf("poetic line missing symbol join: %q", lines[2])
	}
	if !strings.HasSuffix(lines[len(lines)-1], "?") {
		t.Errorf("entry does not close with a question: %q", lines[len(lines)-1])
	}
}

func TestTimeSymbol(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, "🌄"}, {11, "🌄"},
		{12, "☀️"}, {16, "☀️"},
		{17, "🌆"}, {20, "🌆"},
		{21, "🌙"}, {23, "🌙"}, {0, "🌙"}, {4, "🌙"},
	}
	for _, tt := range tests {
		if got := timeSymbol(tt.hour); got != tt.want {
			t.Errorf("timeSymbol(%d) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestCondense(t *testing.T) {
	if got := condense("short"); got != "short" {
		t.Errorf("condense(short) = %q", got)
	}
	long := strings.Repeat("a", 80)
	got := condense(long)
	if !strings.HasSuffix(got, "...") || len(got) > 54 {
		t.Errorf("condense(long) = %q", got)
	}
}

func TestJournalAgentDeterministicPerInput(t *testing.T) {
	a := NewJournalAgent(NewPersonaStore(), time.Second)
	a.now = fixedClock(9)

	run := func() string {
		tc := types.NewTurnContext("t", "s", "a quiet morning")
		tc.SetMood(types.MoodCalm, 0.7)
		if err := a.Run(context.Background(), tc); err != nil {
			t.Fatal(err)
		}
		entry, _ := tc.Journal()
		return entry.Text
	}

	if first, second := run(), run(); first != second {
		t.Errorf("same input produced different entries:\n%s\n---\n%s", first, second)
	}
}
