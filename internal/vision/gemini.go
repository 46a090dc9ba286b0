package vision

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiJudge implements Judge using Google's Gemini API
type GeminiJudge struct {
	client *genai.Client
	model  string
}

// NewGeminiJudge creates a new Gemini vision judge
func NewGeminiJudge(apiKey, model string) (*GeminiJudge, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &GeminiJudge{
		client: client,
		model:  model,
	}, nil
}

// Judge evaluates a single item against the vision document
func (j *GeminiJudge) Judge(ctx context.Context, doc *Doc, item Summary) (Verdict, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: genai.Ptr(int32(200)),
		Temperature:     genai.Ptr(float32(0)),
	}

	result, err := j.client.Models.GenerateContent(ctx, j.model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: BuildPrompt(doc, item)}},
		},
	}, config)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return degraded("Empty model response"), nil
	}

	v, reason := classifyVerdict(result.Candidates[0].Content.Parts[0].Text)
	if reason != "" {
		return degraded(reason), nil
	}
	return v, nil
}

// Close releases resources
func (j *GeminiJudge) Close() error {
	return nil
}
