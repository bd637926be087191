package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aura/internal/agent"
	"aura/internal/capability"
	"aura/internal/config"
	"aura/internal/logging"
	"aura/internal/msglog"
	"aura/internal/session"
	"aura/internal/store"
	"aura/internal/turn"
)

var (
	// Global flags
	verbose    bool
	configPath string
	sessionID  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "AURA - an emotionally aware wellness companion",
	Long: `AURA listens, senses the mood behind your words, and responds with
support, a journal reflection, and curated content.

Each message runs through a small agent pipeline: emotion analysis first,
then content curation, journaling, and the supportive reply in parallel.
Nothing ever fails loudly; degraded turns still land softly.

Run without arguments to start the interactive chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		if err := logging.Initialize(cwd); err != nil {
			logger.Warn("category logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// runCmd processes a single message and prints the result
var runCmd = &cobra.Command{
	Use:   "run [message]",
	Short: "Process a single message through the agent pipeline",
	Long: `Runs one turn: classifies the mood, curates content, writes a journal
entry, and produces the supportive reply. Prints the full result as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOnce,
}

// resetCmd clears a session's histories
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the session's mood, journal, and chat histories",
	RunE:  resetSession,
}

// sessionsCmd lists known sessions
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List known sessions",
	RunE:  listSessions,
}

// logCmd shows the agent log for a session
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the agent log for the session",
	Long: `Each committed turn appends one agent log entry: per-agent status,
turn progress, and any errors the pipeline absorbed.`,
	RunE: showAgentLog,
}

// healthCmd prints pipeline counters
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show pipeline health counters",
	RunE:  showHealth,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(".aura", "config.yaml"), "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "default", "Session id")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	defer logging.CloseAll()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles everything a command needs.
type app struct {
	cfg         *config.Config
	coordinator *turn.Coordinator
	durable     *store.LocalStore
	watcher     *config.PersonaWatcher
	classifier  capability.Classifier
}

// buildApp wires the full pipeline from configuration.
func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	durable, err := store.NewLocalStore(cfg.Memory.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	personas := agent.NewPersonaStore()
	var watcher *config.PersonaWatcher
	if info, err := os.Stat(cfg.Personas.Dir); err == nil && info.IsDir() {
		watcher, err = config.NewPersonaWatcher(cfg.Personas.Dir, func(path string) {
			if err := personas.Reload(path); err != nil {
				logger.Warn("persona reload failed", zap.String("path", path), zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("persona watcher unavailable", zap.Error(err))
		} else if err := watcher.Start(context.Background()); err != nil {
			logger.Warn("persona watcher failed to start", zap.Error(err))
			watcher = nil
		}
	}

	caps, err := buildCapabilities(cfg)
	if err != nil {
		durable.Close()
		return nil, err
	}

	sessions := session.NewStore(durable)
	log := msglog.New()
	coordinator := turn.NewCoordinator(cfg, caps, sessions, personas, log)

	return &app{
		cfg:         cfg,
		coordinator: coordinator,
		durable:     durable,
		watcher:     watcher,
		classifier:  caps.Classifier,
	}, nil
}

// buildCapabilities assembles the capability set from provider config.
func buildCapabilities(cfg *config.Config) (capability.Capabilities, error) {
	var caps capability.Capabilities

	switch cfg.Classifier.Provider {
	case "genai":
		classifier, err := capability.NewGenAIClassifier(cfg.Classifier.APIKey, cfg.Classifier.Model)
		if err != nil {
			return caps, fmt.Errorf("failed to build classifier: %w", err)
		}
		caps.Classifier = classifier
	default:
		caps.Classifier = capability.NewLexiconClassifier()
	}

	caps.Video = capability.NewYouTubeClient(
		cfg.Providers.Video.APIKey, cfg.Providers.Video.BaseURL,
		cfg.Providers.Video.MaxResults, cfg.Providers.Video.ProviderTimeout())
	caps.Music = capability.NewSpotifyClient(
		cfg.Providers.Music.APIKey, cfg.Providers.Music.BaseURL,
		cfg.Providers.Music.ProviderTimeout())
	caps.News = capability.NewTavilyClient(
		cfg.Providers.News.APIKey, cfg.Providers.News.BaseURL,
		cfg.Providers.News.MaxResults, cfg.Providers.News.ProviderTimeout())

	return caps, nil
}

func (a *app) close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if c, ok := a.classifier.(*capability.GenAIClassifier); ok {
		if err := c.Close(); err != nil {
			logger.Warn("classifier close failed", zap.Error(err))
		}
	}
	if a.durable != nil {
		a.durable.Close()
	}
}

func runOnce(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := a.coordinator.ProcessTurn(ctx, sessionID, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func resetSession(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.coordinator.ResetSession(context.Background(), sessionID); err != nil {
		return err
	}
	fmt.Printf("Session %s reset.\n", sessionID)
	return nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ids, err := a.durable.ListSessions()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No sessions yet.")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func showAgentLog(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.durable.AgentLog(sessionID, 20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No agent log entries for session %s.\n", sessionID)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  turn=%s  mood=%s(%.2f)  progress=%d%%\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.TurnID, e.Mood, e.Confidence, e.Progress)
		for name, status := range e.Statuses {
			fmt.Printf("    %-8s %s\n", name, status)
		}
		for _, agentErr := range e.Errors {
			fmt.Printf("    !! %s: %s\n", agentErr.Agent, agentErr.Kind)
		}
	}
	return nil
}

func showHealth(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	h := a.coordinator.Health()
	out, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
