package cli

import (
	"fmt"

	"github.com/GriffinAtlas/clawtriage/internal/batch"
	"github.com/GriffinAtlas/clawtriage/internal/config"
	"github.com/GriffinAtlas/clawtriage/internal/vision"
)

// createJudge builds the vision judge from config. Returns nil when vision
// checks are skipped.
func createJudge(cfg *config.VisionConfig) (vision.Judge, error) {
	if cfg.Skip {
		return nil, nil
	}

	switch cfg.Provider.Provider {
	case "gemini":
		return vision.NewGeminiJudge(cfg.Provider.APIKey, cfg.Provider.Model)
	case "openai":
		return vision.NewOpenAIJudge(cfg.Provider.APIKey, cfg.Provider.Model)
	default:
		return nil, fmt.Errorf("unknown vision provider: %s", cfg.Provider.Provider)
	}
}

// createJobFactory builds the bulk vision job factory for batch runs. OpenAI
// uses the Batch API; Gemini falls back to sequential inline judging. Returns
// nil when vision checks are skipped.
func createJobFactory(cfg *config.VisionConfig) (batch.JobFactory, error) {
	if cfg.Skip {
		return nil, nil
	}

	switch cfg.Provider.Provider {
	case "openai":
		apiKey := cfg.Provider.APIKey
		model := cfg.Provider.Model
		return func(doc *vision.Doc, items []vision.Summary) (vision.Job, error) {
			return vision.NewOpenAIBatchJob(apiKey, model, doc, items)
		}, nil
	case "gemini":
		judge, err := vision.NewGeminiJudge(cfg.Provider.APIKey, cfg.Provider.Model)
		if err != nil {
			return nil, err
		}
		return func(doc *vision.Doc, items []vision.Summary) (vision.Job, error) {
			return vision.NewInlineJob(judge, doc, items), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown vision provider: %s", cfg.Provider.Provider)
	}
}
