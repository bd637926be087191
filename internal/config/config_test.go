package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "AURA" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Classifier.Provider != "lexicon" {
		t.Errorf("Classifier.Provider = %q", cfg.Classifier.Provider)
	}
	if cfg.Providers.News.MaxResults != 7 {
		t.Errorf("News.MaxResults = %d", cfg.Providers.News.MaxResults)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura", "config.yaml")

	cfg := DefaultConfig()
	cfg.Agents.EmotionTimeout = "9s"
	cfg.Memory.HistoryLimit = 25
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.EmotionTimeout() != 9*time.Second {
		t.Errorf("EmotionTimeout = %v", loaded.EmotionTimeout())
	}
	if loaded.Memory.HistoryLimit != 25 {
		t.Errorf("HistoryLimit = %d", loaded.Memory.HistoryLimit)
	}
}

func TestDurationGettersFallBackOnGarbage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agents.EmotionTimeout = "not a duration"
	cfg.Agents.TurnDeadline = "-3s"

	if got := cfg.EmotionTimeout(); got != 3*time.Second {
		t.Errorf("EmotionTimeout fallback = %v", got)
	}
	if got := cfg.TurnDeadline(); got != 15*time.Second {
		t.Errorf("TurnDeadline fallback = %v", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AURA_TAVILY_API_KEY", "tv-123")
	t.Setenv("AURA_DB", "/tmp/elsewhere.db")
	t.Setenv("AURA_GENAI_API_KEY", "gm-456")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Providers.News.APIKey != "tv-123" {
		t.Errorf("News.APIKey = %q", cfg.Providers.News.APIKey)
	}
	if cfg.Memory.DatabasePath != "/tmp/elsewhere.db" {
		t.Errorf("DatabasePath = %q", cfg.Memory.DatabasePath)
	}
	// A GenAI key flips the classifier provider
	if cfg.Classifier.Provider != "genai" || cfg.Classifier.APIKey != "gm-456" {
		t.Errorf("Classifier = %+v", cfg.Classifier)
	}
}
