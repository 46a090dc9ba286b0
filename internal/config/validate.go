package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Repo == "" {
		errs = append(errs, ValidationError{"repo", "required"})
	} else if !strings.Contains(cfg.Repo, "/") {
		errs = append(errs, ValidationError{"repo", "must be in format 'owner/repo'"})
	}

	if cfg.Embedding.Primary.Provider == "" {
		errs = append(errs, ValidationError{"embedding.primary.provider", "required"})
	} else if !validProvider(cfg.Embedding.Primary.Provider) {
		errs = append(errs, ValidationError{"embedding.primary.provider", "must be 'gemini' or 'openai'"})
	}

	if cfg.Embedding.Primary.APIKey == "" {
		errs = append(errs, ValidationError{"embedding.primary.api_key", "required"})
	}

	if cfg.Embedding.Fallback.Provider != "" && !validProvider(cfg.Embedding.Fallback.Provider) {
		errs = append(errs, ValidationError{"embedding.fallback.provider", "must be 'gemini' or 'openai'"})
	}

	if cfg.Triage.SimilarityThreshold < 0 || cfg.Triage.SimilarityThreshold > 1 {
		errs = append(errs, ValidationError{"triage.similarity_threshold", "must be between 0 and 1"})
	}

	if !cfg.Vision.Skip {
		if cfg.Vision.Provider.Provider == "" {
			errs = append(errs, ValidationError{"vision.provider.provider", "required unless vision is skipped"})
		} else if !validProvider(cfg.Vision.Provider.Provider) {
			errs = append(errs, ValidationError{"vision.provider.provider", "must be 'gemini' or 'openai'"})
		}

		if cfg.Vision.Provider.APIKey == "" {
			errs = append(errs, ValidationError{"vision.provider.api_key", "required unless vision is skipped"})
		}
	}

	if cfg.Vision.PollSeconds < 1 {
		errs = append(errs, ValidationError{"vision.poll_seconds", "must be positive"})
	}
	if cfg.Vision.TimeoutMinutes < 1 {
		errs = append(errs, ValidationError{"vision.timeout_minutes", "must be positive"})
	}

	return errs
}

func validProvider(name string) bool {
	return name == "gemini" || name == "openai"
}
