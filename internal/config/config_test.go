package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "expands env var",
			input:  "${TEST_VAR}",
			expect: "test-value",
		},
		{
			name:   "keeps unset var",
			input:  "${UNSET_VAR}",
			expect: "${UNSET_VAR}",
		},
		{
			name:   "expands in string",
			input:  "key-${TEST_VAR}-suffix",
			expect: "key-test-value-suffix",
		},
		{
			name:   "no vars",
			input:  "plain string",
			expect: "plain string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expect {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expect)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := `
repo: "testorg/testrepo"

triage:
  similarity_threshold: 0.9

embedding:
  primary:
    provider: "gemini"
    model: "gemini-embedding-001"
    api_key: "test-key"
    dimensions: 768

vision:
  provider:
    provider: "openai"
    model: "gpt-4o-mini"
    api_key: "${CLAW_TEST_VISION_KEY}"
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	os.Setenv("CLAW_TEST_VISION_KEY", "vision-secret")
	defer os.Unsetenv("CLAW_TEST_VISION_KEY")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Repo != "testorg/testrepo" {
		t.Errorf("repo = %q, want testorg/testrepo", cfg.Repo)
	}
	if cfg.Triage.SimilarityThreshold != 0.9 {
		t.Errorf("threshold = %v, want 0.9", cfg.Triage.SimilarityThreshold)
	}
	if cfg.Embedding.Primary.Provider != "gemini" {
		t.Errorf("primary provider = %q, want gemini", cfg.Embedding.Primary.Provider)
	}
	if cfg.Vision.Provider.APIKey != "vision-secret" {
		t.Errorf("vision api key = %q, want expanded secret", cfg.Vision.Provider.APIKey)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := `
repo: "acme/widgets"
embedding:
  primary:
    provider: "openai"
    api_key: "k"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Triage.SimilarityThreshold != 0.82 {
		t.Errorf("threshold default = %v, want 0.82", cfg.Triage.SimilarityThreshold)
	}
	if cfg.Embedding.Primary.Dimensions != 768 {
		t.Errorf("dimensions default = %d, want 768", cfg.Embedding.Primary.Dimensions)
	}
	if cfg.Vision.PollSeconds != 30 {
		t.Errorf("poll seconds default = %d, want 30", cfg.Vision.PollSeconds)
	}
	if cfg.Vision.TimeoutMinutes != 60 {
		t.Errorf("timeout default = %d, want 60", cfg.Vision.TimeoutMinutes)
	}
	if cfg.Post.ReportLabel != "clawtriage-batch" {
		t.Errorf("report label default = %q, want clawtriage-batch", cfg.Post.ReportLabel)
	}
	if cfg.Caches.Embeddings != ".clawtriage-cache-acme-widgets.json" {
		t.Errorf("embeddings cache default = %q", cfg.Caches.Embeddings)
	}
	if cfg.Caches.Enrichment != ".clawtriage-enrichment-cache-acme-widgets.json" {
		t.Errorf("enrichment cache default = %q", cfg.Caches.Enrichment)
	}
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := `
repo: "acme/widgets"
triage:
  similarity_threshold: 0.9
embedding:
  primary:
    provider: "openai"
    api_key: "k"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	t.Setenv("CLAWTRIAGE_REPO", "other/repo")
	t.Setenv("SIMILARITY_THRESHOLD", "0.75")
	t.Setenv("SKIP_VISION", "true")
	t.Setenv("CACHE_PATH", "/tmp/custom-cache.json")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Repo != "other/repo" {
		t.Errorf("repo = %q, want env override", cfg.Repo)
	}
	if cfg.Triage.SimilarityThreshold != 0.75 {
		t.Errorf("threshold = %v, want 0.75", cfg.Triage.SimilarityThreshold)
	}
	if !cfg.Vision.Skip {
		t.Error("SKIP_VISION=true should enable skip")
	}
	if cfg.Caches.Embeddings != "/tmp/custom-cache.json" {
		t.Errorf("embeddings cache = %q, want env override", cfg.Caches.Embeddings)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Repo: "acme/widgets",
		Triage: TriageConfig{
			SimilarityThreshold: 0.82,
		},
		Embedding: EmbeddingConfig{
			Primary: ProviderConfig{Provider: "openai", APIKey: "k"},
		},
		Vision: VisionConfig{
			Provider:       ProviderConfig{Provider: "gemini", APIKey: "k"},
			PollSeconds:    30,
			TimeoutMinutes: 60,
		},
	}
	if errs := Validate(valid); len(errs) != 0 {
		t.Errorf("valid config produced errors: %v", errs)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing repo", func(c *Config) { c.Repo = "" }, "repo"},
		{"bad repo format", func(c *Config) { c.Repo = "justaname" }, "repo"},
		{"missing primary provider", func(c *Config) { c.Embedding.Primary.Provider = "" }, "embedding.primary.provider"},
		{"unknown primary provider", func(c *Config) { c.Embedding.Primary.Provider = "cohere" }, "embedding.primary.provider"},
		{"missing primary key", func(c *Config) { c.Embedding.Primary.APIKey = "" }, "embedding.primary.api_key"},
		{"threshold out of range", func(c *Config) { c.Triage.SimilarityThreshold = 1.5 }, "triage.similarity_threshold"},
		{"missing vision provider", func(c *Config) { c.Vision.Provider = ProviderConfig{} }, "vision.provider.provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			errs := Validate(&cfg)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, err := range errs {
				if ve, ok := err.(ValidationError); ok && ve.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateSkippedVision(t *testing.T) {
	cfg := &Config{
		Repo: "acme/widgets",
		Triage: TriageConfig{
			SimilarityThreshold: 0.82,
		},
		Embedding: EmbeddingConfig{
			Primary: ProviderConfig{Provider: "openai", APIKey: "k"},
		},
		Vision: VisionConfig{
			Skip:           true,
			PollSeconds:    30,
			TimeoutMinutes: 60,
		},
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("skipped vision should not require provider settings: %v", errs)
	}
}

func TestDefaultFromEnv(t *testing.T) {
	t.Setenv("CLAWTRIAGE_REPO", "acme/widgets")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Default()

	if errs := Validate(cfg); len(errs) != 0 {
		t.Fatalf("env-only config should validate, got %v", errs)
	}
	if cfg.Repo != "acme/widgets" {
		t.Errorf("repo = %q, want acme/widgets", cfg.Repo)
	}
	if cfg.Embedding.Primary.Provider != "openai" || cfg.Embedding.Primary.APIKey != "sk-test" {
		t.Errorf("primary provider = %+v, want openai from env", cfg.Embedding.Primary)
	}
	if cfg.Vision.Provider.Provider != "openai" || cfg.Vision.Provider.APIKey != "sk-test" {
		t.Errorf("vision provider = %+v, want openai from env", cfg.Vision.Provider)
	}
	if cfg.Caches.Embeddings != ".clawtriage-cache-acme-widgets.json" {
		t.Errorf("embeddings cache = %q", cfg.Caches.Embeddings)
	}
}

func TestFillProviderFromEnvMatchesProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "g-gemini")

	p := ProviderConfig{Provider: "gemini"}
	fillProviderFromEnv(&p)
	if p.APIKey != "g-gemini" {
		t.Errorf("gemini provider picked key %q, want GEMINI_API_KEY", p.APIKey)
	}

	p = ProviderConfig{Provider: "openai", APIKey: "from-file"}
	fillProviderFromEnv(&p)
	if p.APIKey != "from-file" {
		t.Errorf("configured key was overridden: %q", p.APIKey)
	}
}
