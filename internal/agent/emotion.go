package agent

// ===== EMOTION AGENT =====
// First in the pipeline and the only blocking stage: everything downstream
// reads the mood it writes. On classifier failure the mood stays unset and
// fallback substitutes neutral with zero confidence.

import (
	"context"
	"strings"
	"time"

	"aura/internal/capability"
	"aura/internal/logging"
	"aura/internal/types"
)

// EmotionAgent classifies the user's message into the mood vocabulary.
type EmotionAgent struct {
	classifier capability.Classifier
	timeout    time.Duration
}

// NewEmotionAgent creates the emotion agent around a classifier capability.
func NewEmotionAgent(classifier capability.Classifier, timeout time.Duration) *EmotionAgent {
	return &EmotionAgent{classifier: classifier, timeout: timeout}
}

// Name implements Agent.
func (a *EmotionAgent) Name() string { return NameEmotion }

// Run classifies the input and writes mood plus confidence. An empty label
// means the classifier had no verdict and maps to neutral at zero confidence;
// labels outside the known set map to calm, matching how neutral classifier
// output is treated.
func (a *EmotionAgent) Run(ctx context.Context, tc *types.TurnContext) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	verdict, err := a.classifier.Classify(ctx, tc.InputText)
	if err != nil {
		logging.Get(logging.CategoryEmotion).Error("Classification failed for turn %s: %v", tc.TurnID, err)
		return fail(tc, NameEmotion, capability.Kind(err), err)
	}

	if verdict.Label == "" {
		// An empty verdict is no verdict: neutral, zero confidence.
		logging.Get(logging.CategoryEmotion).Warn("Empty classifier label for turn %s", tc.TurnID)
		tc.SetMood(types.MoodNeutral, 0)
		return nil
	}

	mood, ok := types.ClassifierLabels[strings.ToLower(verdict.Label)]
	if !ok {
		logging.Get(logging.CategoryEmotion).Warn("Unknown classifier label %q, treating as calm", verdict.Label)
		mood = types.MoodCalm
	}

	tc.SetMood(mood, verdict.Score)
	logging.Emotion("Turn %s: %s (%.2f, %s)", tc.TurnID, mood, verdict.Score, types.ConfidenceTier(verdict.Score))
	return nil
}
