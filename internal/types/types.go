// Package types provides shared type definitions used across AURA packages.
// This package exists to break import cycles between the agents, the turn
// coordinator, and the stores. Types here are foundational data structures
// with no complex dependencies.
package types

import (
	"time"
)

// =============================================================================
// MOOD VOCABULARY
// =============================================================================

// Mood is one of the fixed user-facing mood labels.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodUpset     Mood = "upset"
	MoodAnxious   Mood = "anxious"
	MoodSurprised Mood = "surprised"
	MoodDisgusted Mood = "disgusted"
	MoodCalm      Mood = "calm"
	MoodNeutral   Mood = "neutral"
)

// MoodVocabulary lists every mood a turn may resolve to.
var MoodVocabulary = []Mood{
	MoodHappy, MoodSad, MoodUpset, MoodAnxious,
	MoodSurprised, MoodDisgusted, MoodCalm, MoodNeutral,
}

// ValidMood reports whether m is in the fixed vocabulary.
func ValidMood(m Mood) bool {
	for _, v := range MoodVocabulary {
		if v == m {
			return true
		}
	}
	return false
}

// ClassifierLabels maps raw classifier labels to the mood vocabulary.
// Labels outside this table resolve to neutral.
var ClassifierLabels = map[string]Mood{
	"joy":      MoodHappy,
	"sadness":  MoodSad,
	"anger":    MoodUpset,
	"fear":     MoodAnxious,
	"surprise": MoodSurprised,
	"disgust":  MoodDisgusted,
	"neutral":  MoodCalm,
}

// ConfidenceTier converts a numeric classifier score into the
// human-readable tier shown alongside the mood.
func ConfidenceTier(score float64) string {
	switch {
	case score >= 0.9:
		return "Extremely confident"
	case score >= 0.8:
		return "Very confident"
	case score >= 0.6:
		return "Moderately confident"
	default:
		return "Not very confident"
	}
}

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// ErrorKind classifies agent and capability failures.
type ErrorKind string

const (
	// ErrTimeout means a capability call exceeded its budget.
	ErrTimeout ErrorKind = "timeout"
	// ErrProviderUnavailable means a capability returned a transport or auth error.
	ErrProviderUnavailable ErrorKind = "provider_unavailable"
	// ErrInvalidInput means the user input was malformed (e.g. empty text).
	ErrInvalidInput ErrorKind = "invalid_input"
	// ErrUnknown is an unclassified failure.
	ErrUnknown ErrorKind = "unknown"
)

// AgentError is the typed failure an agent reports instead of an opaque error.
// It never escapes the agent boundary as a panic or a raw error; the
// coordinator converts every one of these into a recorded error plus a
// fallback substitution.
type AgentError struct {
	Agent string    `json:"agent"`
	Kind  ErrorKind `json:"kind"`
	Err   error     `json:"-"`
}

func (e *AgentError) Error() string {
	msg := string(e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return e.Agent + ": " + msg
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *AgentError) Unwrap() error { return e.Err }

// =============================================================================
// CONTENT BUNDLE
// =============================================================================

// VideoResult is one curated video recommendation.
type VideoResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Artist      string `json:"artist"`
}

// MusicResult is one curated music recommendation.
type MusicResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Artist      string `json:"artist"`
	URI         string `json:"uri,omitempty"`
}

// NewsArticle is one curated news item.
type NewsArticle struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
}

// ContentBundle is the canonical curated-content shape. Sub-fields that were
// attempted but returned nothing are explicitly empty (zero value / empty
// slice), never omitted, so consumers can distinguish "not attempted" from
// "empty result". Legacy double-nested records are normalized at the store
// boundary; nothing downstream ever sees a nested shape.
type ContentBundle struct {
	Video      VideoResult   `json:"video"`
	Music      MusicResult   `json:"music"`
	News       []NewsArticle `json:"news"`
	Keyphrases []string      `json:"context_keyphrases"`
}

// =============================================================================
// JOURNAL
// =============================================================================

// JournalEntry is one structured journal record.
type JournalEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Mood      Mood      `json:"mood"`
	Text      string    `json:"entry"`
	UserInput string    `json:"user_input,omitempty"`
}

// =============================================================================
// SESSION HISTORIES
// =============================================================================

// MoodSample is one element of a session's mood history.
type MoodSample struct {
	Mood       Mood      `json:"mood"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatMessage is one element of a session's chat history. TurnID threads the
// message back to the agent log entry for the same turn.
type ChatMessage struct {
	TurnID    string    `json:"turn_id"`
	Sender    string    `json:"sender"` // "user" or "aura"
	Text      string    `json:"text"`
	Mood      Mood      `json:"mood,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// =============================================================================
// AGENT STATUS / LOG
// =============================================================================

// AgentStatus is the per-agent lifecycle state recorded in an agent log entry.
type AgentStatus string

const (
	StatusPending    AgentStatus = "pending"
	StatusInProgress AgentStatus = "in-progress"
	StatusComplete   AgentStatus = "complete"
	StatusError      AgentStatus = "error"
)

// AgentLogEntry is the append-only audit record derived from a Turn Context
// when the turn commits. Immutable after creation.
type AgentLogEntry struct {
	TurnID     string                 `json:"turn_id"`
	SessionID  string                 `json:"session_id"`
	Timestamp  time.Time              `json:"timestamp"`
	Mood       Mood                   `json:"mood"`
	Confidence float64                `json:"confidence"`
	Statuses   map[string]AgentStatus `json:"statuses"`
	Progress   int                    `json:"progress"` // 25 x populated owned fields
	Errors     []AgentError           `json:"errors,omitempty"`
}

// =============================================================================
// TURN RESULT
// =============================================================================

// TurnResult is the merged outcome of one processed turn, shaped for the
// boundary (CLI, HTTP handler, ...).
type TurnResult struct {
	TurnID         string         `json:"turn_id"`
	Response       string         `json:"response"`
	Mood           Mood           `json:"mood"`
	Confidence     float64        `json:"confidence"`
	ConfidenceTier string         `json:"confidence_tier"`
	Timestamp      string         `json:"timestamp"` // ISO-8601
	Journal        string         `json:"journal"`
	JournalEntries []JournalEntry `json:"journal_entries"`
	Content        ContentBundle  `json:"content"`
	Status         string         `json:"status"` // complete | in-progress | pending
}
