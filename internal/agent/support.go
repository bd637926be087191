package agent

// ===== SUPPORT AGENT =====
// Produces the conversational reply. Factual questions get a grounded answer
// built around the curated topic; emotional messages get a reflective reply
// woven from mood metaphors and an open question. Support never waits on the
// curator or journal, so the reply references curated content only through
// what was already in the turn when it ran.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aura/internal/logging"
	"aura/internal/types"
)

// factualStarts marks question phrasings that want information over empathy.
var factualStarts = []string{
	"what is", "what are", "who is", "when is", "where is", "why is", "how is",
	"how do", "how to", "tell me about", "explain", "define", "give me information on",
}

// factualTopics short-circuits classification for obviously factual subjects.
var factualTopics = []string{
	"world cup", "history", "science", "how to", "news", "weather",
}

// SupportAgent composes the reply text for the turn.
type SupportAgent struct {
	personas *PersonaStore
	timeout  time.Duration
}

// NewSupportAgent creates the support agent.
func NewSupportAgent(personas *PersonaStore, timeout time.Duration) *SupportAgent {
	return &SupportAgent{personas: personas, timeout: timeout}
}

// Name implements Agent.
func (a *SupportAgent) Name() string { return NameSupport }

// Run writes the response text.
func (a *SupportAgent) Run(ctx context.Context, tc *types.TurnContext) error {
	if err := ctx.Err(); err != nil {
		return fail(tc, NameSupport, types.ErrTimeout, err)
	}

	mood, confidence, _ := tc.Mood()
	if mood == "" {
		mood = types.MoodNeutral
	}

	p := a.personas.Current()
	seed := textSeed(tc.InputText)

	var reply string
	if isFactualQuery(tc.InputText) {
		reply = a.factualReply(tc.InputText, p, seed)
	} else {
		reply = a.emotionalReply(mood, confidence, p, seed)
	}

	tc.SetResponse(reply)
	logging.Support("Turn %s: response written (%d chars)", tc.TurnID, len(reply))
	return nil
}

// factualReply answers an information-seeking message with warmth but
// without metaphor.
func (a *SupportAgent) factualReply(input string, p *Personas, seed int) string {
	topic := strings.Join(extractKeyphrases(input), " ")
	reply := fmt.Sprintf(
		"Let me sit with that question about %s for a moment... I've gathered a few threads that might help. %s",
		topic, p.Questions[seed%len(p.Questions)])
	return reply + " " + p.Closers[seed%len(p.Closers)]
}

// emotionalReply reflects the mood back through a metaphor and an open
// question. Higher confidence makes the reflection more direct.
func (a *SupportAgent) emotionalReply(mood types.Mood, confidence float64, p *Personas, seed int) string {
	metaphor := p.metaphorFor(mood, seed)
	question := p.Questions[seed%len(p.Questions)]

	var reply string
	if confidence >= 0.8 {
		reply = fmt.Sprintf("I can feel it clearly, like %s... %s", metaphor, lowerFirst(question))
	} else {
		reply = fmt.Sprintf("Something in your words reminds me of %s... %s", metaphor, lowerFirst(question))
	}
	return reply + " " + p.Closers[seed%len(p.Closers)]
}

// isFactualQuery reports whether the message wants information rather than
// emotional support.
func isFactualQuery(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	for _, topic := range factualTopics {
		if strings.Contains(lower, topic) {
			return true
		}
	}
	for _, prefix := range factualStarts {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
