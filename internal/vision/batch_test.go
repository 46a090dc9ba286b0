package vision

import (
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestBuildBatchRequest(t *testing.T) {
	doc := &Doc{Content: "Only parsers are in scope.", Source: "VISION.md"}
	items := []Summary{
		{Number: 7, Title: "feat: add parser", Body: "Adds a parser"},
		{Number: 12, Title: "fix: off by one", Body: "Fixes indexing"},
	}

	job, err := NewOpenAIBatchJob("test-key", "", doc, items)
	if err != nil {
		t.Fatalf("NewOpenAIBatchJob() error = %v", err)
	}

	req := job.buildBatchRequest()

	if req.Endpoint != openai.BatchEndpointChatCompletions {
		t.Errorf("endpoint = %q, want chat completions", req.Endpoint)
	}
	if req.CompletionWindow != "24h" {
		t.Errorf("completion window = %q, want 24h", req.CompletionWindow)
	}
	if req.FileName != "clawtriage-vision.jsonl" {
		t.Errorf("file name = %q", req.FileName)
	}
	if len(req.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(req.Lines))
	}

	wantIDs := []string{"item-7", "item-12"}
	for i, line := range req.Lines {
		chat, ok := line.(openai.BatchChatCompletionRequest)
		if !ok {
			t.Fatalf("line %d is %T, want BatchChatCompletionRequest", i, line)
		}
		if chat.CustomID != wantIDs[i] {
			t.Errorf("line %d custom id = %q, want %q", i, chat.CustomID, wantIDs[i])
		}
		if chat.Body.Model != "gpt-4o-mini" {
			t.Errorf("line %d model = %q, want default gpt-4o-mini", i, chat.Body.Model)
		}
		if len(chat.Body.Messages) != 1 {
			t.Fatalf("line %d has %d messages, want 1", i, len(chat.Body.Messages))
		}
		prompt := chat.Body.Messages[0].Content
		if !strings.Contains(prompt, doc.Content) {
			t.Errorf("line %d prompt missing vision doc content", i)
		}
		if !strings.Contains(prompt, items[i].Title) {
			t.Errorf("line %d prompt missing item title", i)
		}
	}
}

func TestParseCustomID(t *testing.T) {
	tests := []struct {
		id     string
		number int
		ok     bool
	}{
		{"item-42", 42, true},
		{"item-0", 0, true},
		{"item-", 0, false},
		{"item-abc", 0, false},
		{"request-42", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			number, ok := parseCustomID(tt.id)
			if number != tt.number || ok != tt.ok {
				t.Errorf("parseCustomID(%q) = (%d, %v), want (%d, %v)", tt.id, number, ok, tt.number, tt.ok)
			}
		})
	}
}
