package vision

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIJudge implements Judge using OpenAI's chat API
type OpenAIJudge struct {
	client *openai.Client
	model  string
}

// NewOpenAIJudge creates a new OpenAI vision judge
func NewOpenAIJudge(apiKey, model string) (*OpenAIJudge, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIJudge{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Judge evaluates a single item against the vision document. Unusable model
// output degrades to a strays verdict rather than an error so one flaky
// response never derails a triage run.
func (j *OpenAIJudge) Judge(ctx context.Context, doc *Doc, item Summary) (Verdict, error) {
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(doc, item)},
		},
		MaxTokens:   200,
		Temperature: 0,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to create chat completion: %w", err)
	}

	return verdictFromCompletion(resp), nil
}

func verdictFromCompletion(resp openai.ChatCompletionResponse) Verdict {
	if len(resp.Choices) == 0 {
		return degraded("Empty model response")
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case openai.FinishReasonLength:
		return degraded("Response truncated")
	case openai.FinishReasonContentFilter:
		return degraded("Model declined evaluation")
	}

	text := choice.Message.Content
	if text == "" {
		return degraded("Empty model response")
	}

	v, reason := classifyVerdict(text)
	if reason != "" {
		return degraded(reason)
	}
	return v
}

// Close releases resources
func (j *OpenAIJudge) Close() error {
	return nil
}
