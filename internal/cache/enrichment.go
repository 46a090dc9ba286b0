package cache

import (
	"encoding/json"
	"log"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// EnrichedPR is a cached per-PR detail record
type EnrichedPR struct {
	models.EnrichedPRData
	CachedAt string `json:"cachedAt"`
}

// EnrichedIssue is a cached per-issue detail record
type EnrichedIssue struct {
	models.EnrichedIssueData
	CachedAt string `json:"cachedAt"`
}

// PREnrichment is the on-disk PR enrichment cache. Entries are append-only
// per number: once fetched, a PR is never re-fetched unless the file is deleted.
type PREnrichment struct {
	Version     int                `json:"version"`
	LastUpdated string             `json:"lastUpdated"`
	Entries     map[int]EnrichedPR `json:"entries"`
}

// IssueEnrichment is the on-disk issue enrichment cache
type IssueEnrichment struct {
	Version     int                   `json:"version"`
	LastUpdated string                `json:"lastUpdated"`
	Entries     map[int]EnrichedIssue `json:"entries"`
}

// EmptyPREnrichment returns the canonical empty PR enrichment cache
func EmptyPREnrichment() *PREnrichment {
	return &PREnrichment{Version: 1, LastUpdated: "", Entries: map[int]EnrichedPR{}}
}

// EmptyIssueEnrichment returns the canonical empty issue enrichment cache
func EmptyIssueEnrichment() *IssueEnrichment {
	return &IssueEnrichment{Version: 1, LastUpdated: "", Entries: map[int]EnrichedIssue{}}
}

// LoadPREnrichment reads a PR enrichment cache with the same tolerant
// contract as Load: any failure yields the canonical empty cache.
func LoadPREnrichment(path string) *PREnrichment {
	raw, ok := readCacheFile(path, "Enrichment")
	if !ok {
		return EmptyPREnrichment()
	}

	var entries map[int]EnrichedPR
	if err := json.Unmarshal(raw["entries"], &entries); err != nil || entries == nil {
		log.Printf("[Enrichment] Invalid cache format, returning empty cache")
		return EmptyPREnrichment()
	}

	cache := EmptyPREnrichment()
	cache.Entries = entries
	if v, found := raw["version"]; found {
		_ = json.Unmarshal(v, &cache.Version)
	}
	if v, found := raw["lastUpdated"]; found {
		_ = json.Unmarshal(v, &cache.LastUpdated)
	}

	log.Printf("[Enrichment] Loaded %d cached entries (last updated: %s)",
		len(cache.Entries), orNever(cache.LastUpdated))
	return cache
}

// SavePREnrichment writes the PR enrichment cache atomically, best-effort
func SavePREnrichment(path string, cache *PREnrichment) {
	if err := writeAtomic(path, cache); err != nil {
		log.Printf("[Enrichment] Failed to save cache: %v", err)
		return
	}
	log.Printf("[Enrichment] Saved %d entries to %s", len(cache.Entries), path)
}

// LoadIssueEnrichment reads an issue enrichment cache, tolerant on failure
func LoadIssueEnrichment(path string) *IssueEnrichment {
	raw, ok := readCacheFile(path, "Issue Enrichment")
	if !ok {
		return EmptyIssueEnrichment()
	}

	var entries map[int]EnrichedIssue
	if err := json.Unmarshal(raw["entries"], &entries); err != nil || entries == nil {
		log.Printf("[Issue Enrichment] Invalid cache format, returning empty cache")
		return EmptyIssueEnrichment()
	}

	cache := EmptyIssueEnrichment()
	cache.Entries = entries
	if v, found := raw["version"]; found {
		_ = json.Unmarshal(v, &cache.Version)
	}
	if v, found := raw["lastUpdated"]; found {
		_ = json.Unmarshal(v, &cache.LastUpdated)
	}

	log.Printf("[Issue Enrichment] Loaded %d cached entries (last updated: %s)",
		len(cache.Entries), orNever(cache.LastUpdated))
	return cache
}

// SaveIssueEnrichment writes the issue enrichment cache atomically, best-effort
func SaveIssueEnrichment(path string, cache *IssueEnrichment) {
	if err := writeAtomic(path, cache); err != nil {
		log.Printf("[Issue Enrichment] Failed to save cache: %v", err)
		return
	}
	log.Printf("[Issue Enrichment] Saved %d entries to %s", len(cache.Entries), path)
}

func orNever(ts string) string {
	if ts == "" {
		return "never"
	}
	return ts
}
