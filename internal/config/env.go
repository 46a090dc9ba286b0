package config

import (
	"os"
	"regexp"
	"strconv"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in config string fields
func expandConfigEnvVars(cfg *Config) {
	cfg.Embedding.Primary.APIKey = expandEnvVars(cfg.Embedding.Primary.APIKey)
	cfg.Embedding.Fallback.APIKey = expandEnvVars(cfg.Embedding.Fallback.APIKey)
	cfg.Vision.Provider.APIKey = expandEnvVars(cfg.Vision.Provider.APIKey)
}

// applyEnvOverrides lets environment variables override file settings, so CI
// jobs can retarget a run without editing the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLAWTRIAGE_REPO"); v != "" {
		cfg.Repo = v
	}
	if v := os.Getenv("CACHE_PATH"); v != "" {
		cfg.Caches.Embeddings = v
	}
	if v := os.Getenv("ENRICHMENT_CACHE_PATH"); v != "" {
		cfg.Caches.Enrichment = v
	}
	if v := os.Getenv("ISSUE_CACHE_PATH"); v != "" {
		cfg.Caches.IssueEmbeddings = v
	}
	if v := os.Getenv("ISSUE_ENRICHMENT_CACHE_PATH"); v != "" {
		cfg.Caches.IssueEnrichment = v
	}
	if v := os.Getenv("SIMILARITY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Triage.SimilarityThreshold = f
		}
	}
	if v := os.Getenv("SKIP_VISION"); v != "" {
		cfg.Vision.Skip = v == "1" || v == "true"
	}
	if v := os.Getenv("POST_COMMENT"); v != "" {
		cfg.Post.Comment = v == "1" || v == "true"
	}

	fillProviderFromEnv(&cfg.Embedding.Primary)
	fillProviderFromEnv(&cfg.Vision.Provider)
}

// fillProviderFromEnv completes a provider setting from well-known API key
// variables, so env-only runs work without a config file.
func fillProviderFromEnv(p *ProviderConfig) {
	if p.APIKey != "" {
		return
	}
	switch p.Provider {
	case "openai":
		p.APIKey = os.Getenv("OPENAI_API_KEY")
	case "gemini":
		p.APIKey = os.Getenv("GEMINI_API_KEY")
	case "":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			p.Provider, p.APIKey = "openai", v
		} else if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			p.Provider, p.APIKey = "gemini", v
		}
	}
}
