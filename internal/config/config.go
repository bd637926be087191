// Package config holds AURA configuration: per-agent time budgets, capability
// provider settings, persistence paths, and logging. Loaded from
// .aura/config.yaml with environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all AURA configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Emotion classifier configuration
	Classifier ClassifierConfig `yaml:"classifier"`

	// Content search providers
	Providers ProvidersConfig `yaml:"providers"`

	// Per-agent time budgets and the global turn deadline
	Agents AgentBudgets `yaml:"agents"`

	// Persistence
	Memory MemoryConfig `yaml:"memory"`

	// Persona templates for journal/support text
	Personas PersonasConfig `yaml:"personas"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ClassifierConfig configures the emotion classification capability.
type ClassifierConfig struct {
	Provider string `yaml:"provider"` // lexicon, genai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// ProviderConfig configures one content-search provider.
type ProviderConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
	Timeout    string `yaml:"timeout"`
}

// ProvidersConfig configures the three content-search capabilities.
type ProvidersConfig struct {
	Video ProviderConfig `yaml:"video"`
	Music ProviderConfig `yaml:"music"`
	News  ProviderConfig `yaml:"news"`
}

// AgentBudgets configures per-agent timeouts and the turn deadline.
type AgentBudgets struct {
	EmotionTimeout string `yaml:"emotion_timeout"`
	CuratorTimeout string `yaml:"curator_timeout"`
	JournalTimeout string `yaml:"journal_timeout"`
	SupportTimeout string `yaml:"support_timeout"`
	TurnDeadline   string `yaml:"turn_deadline"`
}

// MemoryConfig configures persistence.
type MemoryConfig struct {
	DatabasePath string `yaml:"database_path"`
	HistoryLimit int    `yaml:"history_limit"` // recent entries seeded into a turn
}

// PersonasConfig configures persona template loading.
type PersonasConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "AURA",
		Version: "1.0.0",

		Classifier: ClassifierConfig{
			Provider: "lexicon",
			Model:    "gemini-2.0-flash",
			Timeout:  "3s",
		},

		Providers: ProvidersConfig{
			Video: ProviderConfig{
				Enabled:    true,
				BaseURL:    "https://www.googleapis.com/youtube/v3",
				MaxResults: 5,
				Timeout:    "4s",
			},
			Music: ProviderConfig{
				Enabled:    true,
				BaseURL:    "https://api.spotify.com/v1",
				MaxResults: 1,
				Timeout:    "4s",
			},
			News: ProviderConfig{
				Enabled:    true,
				BaseURL:    "https://api.tavily.com",
				MaxResults: 7,
				Timeout:    "4s",
			},
		},

		Agents: AgentBudgets{
			EmotionTimeout: "3s",
			CuratorTimeout: "6s",
			JournalTimeout: "3s",
			SupportTimeout: "3s",
			TurnDeadline:   "15s",
		},

		Memory: MemoryConfig{
			DatabasePath: filepath.Join(".aura", "aura.db"),
			HistoryLimit: 10,
		},

		Personas: PersonasConfig{
			Dir: filepath.Join(".aura", "personas"),
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when the
// file does not exist. Environment variables override secrets either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Classifier.APIKey = key
		if c.Classifier.Provider == "lexicon" {
			c.Classifier.Provider = "genai"
		}
	}
	if key := os.Getenv("AURA_GENAI_API_KEY"); key != "" {
		c.Classifier.APIKey = key
		c.Classifier.Provider = "genai"
	}
	if key := os.Getenv("AURA_YOUTUBE_API_KEY"); key != "" {
		c.Providers.Video.APIKey = key
	}
	if key := os.Getenv("AURA_SPOTIFY_TOKEN"); key != "" {
		c.Providers.Music.APIKey = key
	}
	if key := os.Getenv("AURA_TAVILY_API_KEY"); key != "" {
		c.Providers.News.APIKey = key
	}
	if path := os.Getenv("AURA_DB"); path != "" {
		c.Memory.DatabasePath = path
	}
}

// parseDuration is the shared fallback-aware duration parser.
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// EmotionTimeout returns the emotion agent budget as a duration.
func (c *Config) EmotionTimeout() time.Duration {
	return parseDuration(c.Agents.EmotionTimeout, 3*time.Second)
}

// CuratorTimeout returns the curator agent budget as a duration.
func (c *Config) CuratorTimeout() time.Duration {
	return parseDuration(c.Agents.CuratorTimeout, 6*time.Second)
}

// JournalTimeout returns the journal agent budget as a duration.
func (c *Config) JournalTimeout() time.Duration {
	return parseDuration(c.Agents.JournalTimeout, 3*time.Second)
}

// SupportTimeout returns the support agent budget as a duration.
func (c *Config) SupportTimeout() time.Duration {
	return parseDuration(c.Agents.SupportTimeout, 3*time.Second)
}

// TurnDeadline returns the global turn deadline as a duration.
func (c *Config) TurnDeadline() time.Duration {
	return parseDuration(c.Agents.TurnDeadline, 15*time.Second)
}

// ClassifierTimeout returns the classifier call budget as a duration.
func (c *Config) ClassifierTimeout() time.Duration {
	return parseDuration(c.Classifier.Timeout, 3*time.Second)
}

// ProviderTimeout returns a provider call budget as a duration.
func (p ProviderConfig) ProviderTimeout() time.Duration {
	return parseDuration(p.Timeout, 4*time.Second)
}
