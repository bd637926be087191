package types

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTurnContextWriteOnce(t *testing.T) {
	tc := NewTurnContext("t1", "s1", "hello")

	if !tc.SetMood(MoodHappy, 0.9) {
		t.Fatal("first mood write rejected")
	}
	if tc.SetMood(MoodSad, 0.5) {
		t.Error("second mood write accepted")
	}
	mood, confidence, ok := tc.Mood()
	if !ok || mood != MoodHappy || confidence != 0.9 {
		t.Errorf("mood = %s/%.2f/%v, want happy/0.90/true", mood, confidence, ok)
	}

	if !tc.SetResponse("first") {
		t.Fatal("first response write rejected")
	}
	if tc.SetResponse("second") {
		t.Error("second response write accepted")
	}
	if resp, _ := tc.Response(); resp != "first" {
		t.Errorf("response = %q, want %q", resp, "first")
	}
}

func TestTurnContextProgress(t *testing.T) {
	tc := NewTurnContext("t1", "s1", "hello")

	if got := tc.Progress(); got != 0 {
		t.Errorf("fresh progress = %d, want 0", got)
	}
	tc.SetMood(MoodCalm, 0.7)
	if got := tc.Progress(); got != 25 {
		t.Errorf("progress after mood = %d, want 25", got)
	}
	tc.SetContent(ContentBundle{News: []NewsArticle{}})
	tc.SetJournal(JournalEntry{ID: "j1", Timestamp: time.Now()})
	if got := tc.Progress(); got != 75 {
		t.Errorf("progress after three fields = %d, want 75", got)
	}
	tc.SetResponse("done")
	if got := tc.Progress(); got != 100 {
		t.Errorf("full progress = %d, want 100", got)
	}
}

func TestTurnContextConcurrentWriters(t *testing.T) {
	tc := NewTurnContext("t1", "s1", "hello")

	var wins int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tc.SetResponse("winner") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d writers won, want exactly 1", wins)
	}
}

func TestTurnContextRecordError(t *testing.T) {
	tc := NewTurnContext("t1", "s1", "hello")
	tc.RecordError("curator", ErrTimeout, errors.New("deadline"))
	tc.RecordError("support", ErrUnknown, nil)

	errs := tc.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	if errs[0].Agent != "curator" || errs[0].Kind != ErrTimeout {
		t.Errorf("first error = %+v", errs[0])
	}

	// Errors returns a copy; mutating it must not touch the context.
	errs[0].Agent = "mutated"
	if tc.Errors()[0].Agent != "curator" {
		t.Error("Errors exposed internal slice")
	}
}

func TestTurnContextSeedHistoryIsolation(t *testing.T) {
	moods := []MoodSample{{Mood: MoodSad, Confidence: 0.8, Timestamp: time.Now()}}
	tc := NewTurnContext("t1", "s1", "hello")
	tc.SeedHistory(moods, nil, nil)

	got := tc.PriorMoods()
	if len(got) != 1 || got[0].Mood != MoodSad {
		t.Fatalf("prior moods = %+v", got)
	}
	got[0].Mood = MoodHappy
	if tc.PriorMoods()[0].Mood != MoodSad {
		t.Error("PriorMoods exposed internal slice")
	}
}
