// Package config loads the clawtriage YAML configuration, expands
// ${ENV_VAR} references, applies environment overrides, and validates the
// result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	Repo      string          `yaml:"repo"`
	Triage    TriageConfig    `yaml:"triage"`
	Caches    CachesConfig    `yaml:"caches"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vision    VisionConfig    `yaml:"vision"`
	Post      PostConfig      `yaml:"post"`
}

// TriageConfig contains duplicate detection tuning
type TriageConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// CachesConfig contains flat-file cache locations. Empty paths fall back to
// repo-derived defaults in the working directory.
type CachesConfig struct {
	Embeddings      string `yaml:"embeddings"`
	Enrichment      string `yaml:"enrichment"`
	IssueEmbeddings string `yaml:"issue_embeddings"`
	IssueEnrichment string `yaml:"issue_enrichment"`
}

// EmbeddingConfig contains embedding provider settings
type EmbeddingConfig struct {
	Primary  ProviderConfig `yaml:"primary"`
	Fallback ProviderConfig `yaml:"fallback"`
}

// ProviderConfig contains settings for a model provider
type ProviderConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
}

// VisionConfig contains vision alignment settings
type VisionConfig struct {
	Skip           bool           `yaml:"skip"`
	Provider       ProviderConfig `yaml:"provider"`
	PollSeconds    int            `yaml:"poll_seconds"`
	TimeoutMinutes int            `yaml:"timeout_minutes"`
}

// PostConfig controls how batch reports are published
type PostConfig struct {
	Comment     bool   `yaml:"comment"`
	ReportLabel string `yaml:"report_label"`
}

// Load reads and parses config from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns a config built purely from environment and defaults, for
// running without a config file.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		".github/clawtriage.yaml",
		".github/clawtriage.yml",
		"clawtriage.yaml",
		"clawtriage.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "clawtriage", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Triage.SimilarityThreshold == 0 {
		cfg.Triage.SimilarityThreshold = 0.82
	}
	if cfg.Embedding.Primary.Dimensions == 0 {
		cfg.Embedding.Primary.Dimensions = 768
	}
	if cfg.Embedding.Fallback.Dimensions == 0 {
		cfg.Embedding.Fallback.Dimensions = 768
	}
	if cfg.Vision.PollSeconds == 0 {
		cfg.Vision.PollSeconds = 30
	}
	if cfg.Vision.TimeoutMinutes == 0 {
		cfg.Vision.TimeoutMinutes = 60
	}
	if cfg.Post.ReportLabel == "" {
		cfg.Post.ReportLabel = "clawtriage-batch"
	}

	if cfg.Repo != "" {
		slug := strings.ReplaceAll(cfg.Repo, "/", "-")
		if cfg.Caches.Embeddings == "" {
			cfg.Caches.Embeddings = fmt.Sprintf(".clawtriage-cache-%s.json", slug)
		}
		if cfg.Caches.Enrichment == "" {
			cfg.Caches.Enrichment = fmt.Sprintf(".clawtriage-enrichment-cache-%s.json", slug)
		}
		if cfg.Caches.IssueEmbeddings == "" {
			cfg.Caches.IssueEmbeddings = fmt.Sprintf(".clawtriage-issue-cache-%s.json", slug)
		}
		if cfg.Caches.IssueEnrichment == "" {
			cfg.Caches.IssueEnrichment = fmt.Sprintf(".clawtriage-issue-enrichment-cache-%s.json", slug)
		}
	}
}
