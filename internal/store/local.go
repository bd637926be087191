// Package store persists session histories in SQLite: mood samples, journal
// entries, chat messages, the latest content snapshot, and the agent log. One
// turn commits in one transaction so a crash never leaves a half-written
// turn.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"aura/internal/logging"
	"aura/internal/types"
)

// LocalStore is the SQLite-backed durable store.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore initializes the SQLite database at the given path.
func NewLocalStore(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	logging.Store("Initializing LocalStore at path: %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &LocalStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.StoreDebug("Database schema initialized successfully")

	return s, nil
}

func (s *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS mood_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		mood TEXT NOT NULL,
		confidence REAL NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		FOREIGN KEY(session_id) REFERENCES sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_mood_session ON mood_history(session_id);

	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		mood TEXT NOT NULL,
		entry TEXT NOT NULL,
		user_input TEXT,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY(session_id) REFERENCES sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_journal_session ON journal_entries(session_id);

	CREATE TABLE IF NOT EXISTS chat_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		turn_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		text TEXT NOT NULL,
		mood TEXT,
		sent_at TIMESTAMP NOT NULL,
		FOREIGN KEY(session_id) REFERENCES sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_chat_session ON chat_history(session_id);

	CREATE TABLE IF NOT EXISTS content_snapshots (
		session_id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		FOREIGN KEY(session_id) REFERENCES sessions(id)
	);

	CREATE TABLE IF NOT EXISTS agent_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		mood TEXT,
		confidence REAL,
		statuses TEXT NOT NULL,
		progress INTEGER NOT NULL,
		errors TEXT,
		logged_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_agentlog_session ON agent_log(session_id);
	CREATE INDEX IF NOT EXISTS idx_agentlog_turn ON agent_log(turn_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// SESSION HYDRATION
// =============================================================================

// SessionSnapshot is everything the durable store knows about one session.
type SessionSnapshot struct {
	ID          string
	MoodHistory []types.MoodSample
	Journal     []types.JournalEntry
	Chat        []types.ChatMessage
	Content     types.ContentBundle
	HasContent  bool
}

// LoadSession hydrates a session's histories. A session id with no rows
// returns an empty snapshot, not an error.
func (s *LocalStore) LoadSession(sessionID string) (*SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &SessionSnapshot{ID: sessionID}

	rows, err := s.db.Query(
		`SELECT mood, confidence, recorded_at FROM mood_history WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mood history: %w", err)
	}
	for rows.Next() {
		var m types.MoodSample
		var mood string
		if err := rows.Scan(&mood, &m.Confidence, &m.Timestamp); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan mood row: %w", err)
		}
		m.Mood = types.Mood(mood)
		snap.MoodHistory = append(snap.MoodHistory, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(
		`SELECT id, mood, entry, COALESCE(user_input, ''), created_at FROM journal_entries WHERE session_id = ? ORDER BY created_at`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}
	for rows.Next() {
		var e types.JournalEntry
		var mood string
		if err := rows.Scan(&e.ID, &mood, &e.Text, &e.UserInput, &e.Timestamp); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.Mood = types.Mood(mood)
		snap.Journal = append(snap.Journal, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(
		`SELECT turn_id, sender, text, COALESCE(mood, ''), sent_at FROM chat_history WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	for rows.Next() {
		var m types.ChatMessage
		var mood string
		if err := rows.Scan(&m.TurnID, &m.Sender, &m.Text, &mood, &m.Timestamp); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		m.Mood = types.Mood(mood)
		snap.Chat = append(snap.Chat, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var contentJSON string
	err = s.db.QueryRow(
		`SELECT content FROM content_snapshots WHERE session_id = ?`, sessionID).Scan(&contentJSON)
	switch {
	case err == sql.ErrNoRows:
		// No content yet
	case err != nil:
		return nil, fmt.Errorf("failed to load content snapshot: %w", err)
	default:
		bundle, err := decodeContent([]byte(contentJSON))
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("Discarding unreadable content snapshot for %s: %v", sessionID, err)
		} else {
			snap.Content = bundle
			snap.HasContent = true
		}
	}

	logging.StoreDebug("Loaded session %s: %d moods, %d journal, %d chat",
		sessionID, len(snap.MoodHistory), len(snap.Journal), len(snap.Chat))
	return snap, nil
}

// decodeContent parses a stored content snapshot. Older snapshots wrapped the
// bundle in an extra {"content": ...} envelope; those unwrap transparently.
func decodeContent(data []byte) (types.ContentBundle, error) {
	var probe struct {
		Content *json.RawMessage `json:"content"`
		Video   *json.RawMessage `json:"video"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return types.ContentBundle{}, err
	}
	if probe.Content != nil && probe.Video == nil {
		data = *probe.Content
		// Some legacy rows nested twice
		var inner struct {
			Content *json.RawMessage `json:"content"`
			Video   *json.RawMessage `json:"video"`
		}
		if err := json.Unmarshal(data, &inner); err == nil && inner.Content != nil && inner.Video == nil {
			data = *inner.Content
		}
	}

	var bundle types.ContentBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return types.ContentBundle{}, err
	}
	if bundle.News == nil {
		bundle.News = []types.NewsArticle{}
	}
	return bundle, nil
}

// =============================================================================
// TURN COMMIT
// =============================================================================

// TurnCommit is everything one committed turn appends to a session.
type TurnCommit struct {
	TurnID   string
	Mood     types.MoodSample
	Journal  *types.JournalEntry
	Content  *types.ContentBundle
	UserMsg  types.ChatMessage
	AuraMsg  types.ChatMessage
	LogEntry types.AgentLogEntry
}

// CommitTurn appends one turn's results in a single transaction.
func (s *LocalStore) CommitTurn(sessionID string, c TurnCommit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := logging.StartTimer(logging.CategoryStore, "CommitTurn")
	defer timer.Stop()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.Exec(
		`INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		sessionID, now, now); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO mood_history (session_id, mood, confidence, recorded_at) VALUES (?, ?, ?, ?)`,
		sessionID, string(c.Mood.Mood), c.Mood.Confidence, c.Mood.Timestamp); err != nil {
		return fmt.Errorf("failed to append mood: %w", err)
	}

	if c.Journal != nil {
		if _, err := tx.Exec(
			`INSERT INTO journal_entries (id, session_id, mood, entry, user_input, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			c.Journal.ID, sessionID, string(c.Journal.Mood), c.Journal.Text, c.Journal.UserInput, c.Journal.Timestamp); err != nil {
			return fmt.Errorf("failed to append journal entry: %w", err)
		}
	}

	for _, msg := range []types.ChatMessage{c.UserMsg, c.AuraMsg} {
		if _, err := tx.Exec(
			`INSERT INTO chat_history (session_id, turn_id, sender, text, mood, sent_at) VALUES (?, ?, ?, ?, ?, ?)`,
			sessionID, msg.TurnID, msg.Sender, msg.Text, string(msg.Mood), msg.Timestamp); err != nil {
			return fmt.Errorf("failed to append chat message: %w", err)
		}
	}

	if c.Content != nil {
		contentJSON, err := json.Marshal(c.Content)
		if err != nil {
			return fmt.Errorf("failed to marshal content: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO content_snapshots (session_id, content, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(session_id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
			sessionID, string(contentJSON), now); err != nil {
			return fmt.Errorf("failed to replace content snapshot: %w", err)
		}
	}

	statusJSON, err := json.Marshal(c.LogEntry.Statuses)
	if err != nil {
		return fmt.Errorf("failed to marshal statuses: %w", err)
	}
	errorsJSON, err := json.Marshal(c.LogEntry.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal errors: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO agent_log (turn_id, session_id, mood, confidence, statuses, progress, errors, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.TurnID, sessionID, string(c.LogEntry.Mood), c.LogEntry.Confidence,
		string(statusJSON), c.LogEntry.Progress, string(errorsJSON), c.LogEntry.Timestamp); err != nil {
		return fmt.Errorf("failed to append agent log entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit turn: %w", err)
	}

	logging.Store("Committed turn %s for session %s", c.TurnID, sessionID)
	return nil
}

// ResetSession deletes all rows for a session. The agent log is kept; it is
// an audit trail, not session state.
func (s *LocalStore) ResetSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM mood_history WHERE session_id = ?`,
		`DELETE FROM journal_entries WHERE session_id = ?`,
		`DELETE FROM chat_history WHERE session_id = ?`,
		`DELETE FROM content_snapshots WHERE session_id = ?`,
		`DELETE FROM sessions WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, sessionID); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	logging.Store("Reset session %s", sessionID)
	return nil
}

// ListSessions returns all known session ids, most recently updated first.
func (s *LocalStore) ListSessions() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AgentLog returns the most recent agent log entries for a session.
func (s *LocalStore) AgentLog(sessionID string, limit int) ([]types.AgentLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT turn_id, session_id, mood, confidence, statuses, progress, errors, logged_at
		 FROM agent_log WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent log: %w", err)
	}
	defer rows.Close()

	var entries []types.AgentLogEntry
	for rows.Next() {
		var e types.AgentLogEntry
		var mood, statusJSON, errorsJSON string
		if err := rows.Scan(&e.TurnID, &e.SessionID, &mood, &e.Confidence, &statusJSON, &e.Progress, &errorsJSON, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan agent log row: %w", err)
		}
		e.Mood = types.Mood(mood)
		if err := json.Unmarshal([]byte(statusJSON), &e.Statuses); err != nil {
			logging.StoreDebug("Unreadable statuses for turn %s: %v", e.TurnID, err)
		}
		if errorsJSON != "" && errorsJSON != "null" {
			if err := json.Unmarshal([]byte(errorsJSON), &e.Errors); err != nil {
				logging.StoreDebug("Unreadable errors for turn %s: %v", e.TurnID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
