package vision

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBatchJob evaluates many items in one OpenAI Batch API submission.
// Each item becomes one JSONL line keyed by its PR or issue number.
type OpenAIBatchJob struct {
	client *openai.Client
	model  string
	doc    *Doc
	items  []Summary

	batchID      string
	outputFileID string
	failed       bool
}

// NewOpenAIBatchJob creates a bulk alignment job for the given items
func NewOpenAIBatchJob(apiKey, model string, doc *Doc, items []Summary) (*OpenAIBatchJob, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIBatchJob{
		client: openai.NewClient(apiKey),
		model:  model,
		doc:    doc,
		items:  items,
	}, nil
}

// buildBatchRequest assembles the upload payload: one JSONL chat request per
// item, keyed by its number.
func (j *OpenAIBatchJob) buildBatchRequest() openai.CreateBatchWithUploadFileRequest {
	lines := make([]openai.BatchLineItem, 0, len(j.items))
	for _, item := range j.items {
		lines = append(lines, openai.BatchChatCompletionRequest{
			CustomID: fmt.Sprintf("item-%d", item.Number),
			Method:   "POST",
			URL:      openai.BatchEndpointChatCompletions,
			Body: openai.ChatCompletionRequest{
				Model: j.model,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(j.doc, item)},
				},
				MaxTokens:   200,
				Temperature: 0,
			},
		})
	}

	return openai.CreateBatchWithUploadFileRequest{
		Endpoint:         openai.BatchEndpointChatCompletions,
		CompletionWindow: "24h",
		UploadBatchFileRequest: openai.UploadBatchFileRequest{
			FileName: "clawtriage-vision.jsonl",
			Lines:    lines,
		},
	}
}

// Submit uploads the request file and creates the batch
func (j *OpenAIBatchJob) Submit(ctx context.Context) (string, error) {
	resp, err := j.client.CreateBatchWithUploadFile(ctx, j.buildBatchRequest())
	if err != nil {
		return "", fmt.Errorf("failed to create batch: %w", err)
	}

	j.batchID = resp.ID
	return resp.ID, nil
}

// Poll checks batch status. A terminal failure state is reported as done so
// the caller collects error verdicts instead of polling forever.
func (j *OpenAIBatchJob) Poll(ctx context.Context) (bool, error) {
	batch, err := j.client.RetrieveBatch(ctx, j.batchID)
	if err != nil {
		return false, fmt.Errorf("failed to retrieve batch %s: %w", j.batchID, err)
	}

	switch batch.Status {
	case "completed":
		if batch.OutputFileID != nil {
			j.outputFileID = *batch.OutputFileID
		}
		return true, nil
	case "failed", "expired", "cancelled":
		log.Printf("[Vision] Batch %s ended in status %s", j.batchID, batch.Status)
		j.failed = true
		return true, nil
	default:
		if batch.RequestCounts.Total > 0 {
			log.Printf("[Vision] Batch %s: %d/%d requests completed", j.batchID, batch.RequestCounts.Completed, batch.RequestCounts.Total)
		}
		return false, nil
	}
}

// ID returns the provider batch identifier, empty before Submit
func (j *OpenAIBatchJob) ID() string {
	return j.batchID
}

type batchOutputLine struct {
	CustomID string `json:"custom_id"`
	Response *struct {
		StatusCode int                           `json:"status_code"`
		Body       openai.ChatCompletionResponse `json:"body"`
	} `json:"response"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Results downloads and parses the batch output. Items missing from the
// output, or whose replies are unusable, get degraded or error verdicts.
func (j *OpenAIBatchJob) Results(ctx context.Context) (map[int]Verdict, error) {
	verdicts := make(map[int]Verdict, len(j.items))

	if j.failed || j.outputFileID == "" {
		for _, item := range j.items {
			verdicts[item.Number] = ErrorVerdict("Batch evaluation failed")
		}
		return verdicts, nil
	}

	content, err := j.client.GetFileContent(ctx, j.outputFileID)
	if err != nil {
		return nil, fmt.Errorf("failed to download batch output: %w", err)
	}
	defer content.Close()

	scanner := bufio.NewScanner(content)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var out batchOutputLine
		if err := json.Unmarshal([]byte(line), &out); err != nil {
			log.Printf("[Vision] Skipping unparseable output line: %v", err)
			continue
		}

		number, ok := parseCustomID(out.CustomID)
		if !ok {
			log.Printf("[Vision] Skipping output line with unknown custom_id %q", out.CustomID)
			continue
		}

		verdicts[number] = verdictFromOutputLine(out)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch output: %w", err)
	}

	// Items the provider dropped entirely still need a verdict.
	for _, item := range j.items {
		if _, ok := verdicts[item.Number]; !ok {
			verdicts[item.Number] = ErrorVerdict("No result returned for item")
		}
	}

	return verdicts, nil
}

func verdictFromOutputLine(out batchOutputLine) Verdict {
	if out.Error != nil {
		return ErrorVerdict(fmt.Sprintf("Batch request failed: %s", out.Error.Message))
	}
	if out.Response == nil || out.Response.StatusCode != 200 {
		return ErrorVerdict("Batch request failed")
	}
	return verdictFromCompletion(out.Response.Body)
}

func parseCustomID(id string) (int, bool) {
	rest, found := strings.CutPrefix(id, "item-")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
