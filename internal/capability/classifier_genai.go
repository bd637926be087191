package capability

// ===== GENAI CLASSIFIER =====
// Emotion classification via Google's Gemini API. Asks the model for a single
// JSON object with a raw label and score so the output maps cleanly onto the
// mood vocabulary.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"aura/internal/logging"
)

const classifyPrompt = `Classify the dominant emotion of the user's message.
Respond with exactly one JSON object, no prose:
{"label": "<joy|sadness|anger|fear|surprise|disgust|neutral>", "score": <0.0-1.0>}`

// GenAIClassifier classifies emotion using a Gemini model.
type GenAIClassifier struct {
	client *genai.Client
	model  string
}

// NewGenAIClassifier creates a Gemini-backed classifier.
func NewGenAIClassifier(apiKey, model string) (*GenAIClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClassifier{
		client: client,
		model:  model,
	}, nil
}

// Classify sends the text to the model and parses the JSON verdict. One retry
// on a transport failure, none on a malformed reply.
func (c *GenAIClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(classifyPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	var result *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt <= 1; attempt++ {
		result, err = c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return Classification{}, ctx.Err()
		}
		logging.CapabilityDebug("[genai] classify attempt %d failed: %v", attempt+1, err)
	}
	if err != nil {
		return Classification{}, &ProviderError{Provider: "genai", Err: err}
	}

	raw := strings.TrimSpace(result.Text())
	var verdict struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return Classification{}, &ProviderError{Provider: "genai",
			Err: fmt.Errorf("malformed verdict %q: %w", truncate(raw, 120), err)}
	}
	if verdict.Score < 0 {
		verdict.Score = 0
	}
	if verdict.Score > 1 {
		verdict.Score = 1
	}

	logging.Capability("[genai] classified as %s (%.2f)", verdict.Label, verdict.Score)
	return Classification{Label: strings.ToLower(verdict.Label), Score: verdict.Score}, nil
}

// Close releases the classifier. The genai client holds no closable handle,
// so this only exists to mirror the shutdown path of other providers.
func (c *GenAIClassifier) Close() error {
	return nil
}
