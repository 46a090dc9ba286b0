// Package embedding generates embedding vectors for PR and issue text, with
// a primary/fallback provider pair and batched requests for bulk runs.
package embedding

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// Provider defines the interface for embedding generation
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

const (
	// minEmbedLength is the minimum sanitized text length worth embedding.
	// Shorter inputs produce near-meaningless vectors that pollute
	// similarity search.
	minEmbedLength = 10

	// maxBatchSize caps texts per embedding request
	maxBatchSize = 2048

	bodySnippetLength = 500
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

// Sanitize replaces control characters with spaces so raw GitHub bodies
// never break the embedding request payload.
func Sanitize(text string) string {
	return controlChars.ReplaceAllString(text, " ")
}

// Snippet returns the leading portion of a body as stored in the vector
// cache and fed to the embedding provider.
func Snippet(body string) string {
	if len(body) > bodySnippetLength {
		return body[:bodySnippetLength]
	}
	return body
}

// PrepareText combines an item's title with its body snippet into the
// canonical embedding input.
func PrepareText(title, body string) string {
	return Sanitize(fmt.Sprintf("%s\n\n%s", title, Snippet(body)))
}

// Embeddable reports whether sanitized text is long enough to embed
func Embeddable(text string) bool {
	return len(strings.TrimSpace(text)) >= minEmbedLength
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// EmbedAll embeds every eligible text and returns vectors keyed by the input
// index. Texts too short to embed, and all-zero vectors from the provider,
// are left out of the result.
func EmbedAll(ctx context.Context, provider Provider, texts []string) (map[int][]float32, error) {
	type pending struct {
		index int
		text  string
	}

	var queue []pending
	for i, text := range texts {
		sanitized := Sanitize(text)
		if !Embeddable(sanitized) {
			continue
		}
		queue = append(queue, pending{index: i, text: sanitized})
	}

	results := make(map[int][]float32, len(queue))
	for start := 0; start < len(queue); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(queue) {
			end = len(queue)
		}
		chunk := queue[start:end]

		inputs := make([]string, len(chunk))
		for i, p := range chunk {
			inputs[i] = p.text
		}

		vectors, err := provider.EmbedBatch(ctx, inputs)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch of %d texts: %w", len(inputs), err)
		}
		if len(vectors) != len(inputs) {
			return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d inputs", len(vectors), len(inputs))
		}

		for i, vec := range vectors {
			if len(vec) == 0 || isZeroVector(vec) {
				log.Printf("[Embedding] Provider returned empty vector for input %d, skipping", chunk[i].index)
				continue
			}
			results[chunk[i].index] = vec
		}
	}

	return results, nil
}
