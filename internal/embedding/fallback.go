package embedding

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/GriffinAtlas/clawtriage/internal/config"
)

// FallbackProvider tries a primary provider and falls back to a secondary
// one when the primary call fails. The fallback is optional.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
}

// NewFallbackProvider builds the provider pair from config. A broken
// fallback configuration is logged and ignored; a broken primary is fatal.
func NewFallbackProvider(cfg *config.EmbeddingConfig) (*FallbackProvider, error) {
	primary, err := newProvider(&cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary embedding provider: %w", err)
	}

	var fallback Provider
	if cfg.Fallback.Provider != "" && cfg.Fallback.APIKey != "" {
		fallback, err = newProvider(&cfg.Fallback)
		if err != nil {
			log.Printf("[Embedding] Fallback provider unavailable: %v", err)
		}
	}

	return &FallbackProvider{primary: primary, fallback: fallback}, nil
}

func newProvider(cfg *config.ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.Dimensions)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// Embed generates a single embedding, retrying on the fallback provider
func (p *FallbackProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := p.primary.Embed(ctx, text)
	if err == nil {
		return vec, nil
	}
	if p.fallback == nil {
		return nil, fmt.Errorf("primary embedding failed (no fallback): %w", err)
	}

	log.Printf("[Embedding] Primary provider failed, trying fallback: %v", err)
	return p.fallback.Embed(ctx, text)
}

// EmbedBatch generates embeddings for a batch, retrying on the fallback
// provider as a whole batch
func (p *FallbackProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := p.primary.EmbedBatch(ctx, texts)
	if err == nil {
		return vecs, nil
	}
	if p.fallback == nil {
		return nil, fmt.Errorf("primary embedding failed (no fallback): %w", err)
	}

	log.Printf("[Embedding] Primary batch failed, trying fallback: %v", err)
	return p.fallback.EmbedBatch(ctx, texts)
}

// Close releases both providers
func (p *FallbackProvider) Close() error {
	errs := []error{p.primary.Close()}
	if p.fallback != nil {
		errs = append(errs, p.fallback.Close())
	}
	return errors.Join(errs...)
}
