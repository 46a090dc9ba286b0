// Package cache implements the two flat-file JSON caches used by the triage
// pipeline: the embedding cache (item number -> embedding vector) and the
// enrichment caches (item number -> detail data). Both are tolerant on load
// (a missing or corrupt file yields a fresh empty cache) and atomic on save.
package cache

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Entry is one cached embedding keyed by item number
type Entry struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Embedding []float32 `json:"embedding"`
	CachedAt  string    `json:"cachedAt"`
}

// VectorCache is the on-disk embedding cache
type VectorCache struct {
	Version     int     `json:"version"`
	LastRebuilt string  `json:"lastRebuilt"`
	Count       int     `json:"prCount"`
	Entries     []Entry `json:"entries"`
}

// EmptyVectorCache returns the canonical empty cache value
func EmptyVectorCache() *VectorCache {
	return &VectorCache{Version: 1, LastRebuilt: "", Count: 0, Entries: []Entry{}}
}

// Load reads a vector cache from disk. A missing file, unparseable content,
// or a structural mismatch all yield the canonical empty cache, never an error.
func Load(path string) *VectorCache {
	raw, ok := readCacheFile(path, "Cache")
	if !ok {
		return EmptyVectorCache()
	}

	var entries []Entry
	if err := json.Unmarshal(raw["entries"], &entries); err != nil {
		log.Printf("[Cache] Invalid cache format, returning empty cache")
		return EmptyVectorCache()
	}
	if entries == nil {
		entries = []Entry{}
	}

	var cache VectorCache
	cache.Entries = entries
	if v, found := raw["version"]; found {
		_ = json.Unmarshal(v, &cache.Version)
	}
	if v, found := raw["lastRebuilt"]; found {
		_ = json.Unmarshal(v, &cache.LastRebuilt)
	}
	if v, found := raw["prCount"]; found {
		_ = json.Unmarshal(v, &cache.Count)
	}

	rebuilt := cache.LastRebuilt
	if rebuilt == "" {
		rebuilt = "never"
	}
	log.Printf("[Cache] Loaded %d entries (last rebuilt: %s)", len(cache.Entries), rebuilt)
	return &cache
}

// Save writes the cache atomically: serialize to a temporary sibling file,
// then rename over the destination. Failures are logged and swallowed so a
// bad disk never aborts a batch run.
func Save(path string, cache *VectorCache) {
	if err := writeAtomic(path, cache); err != nil {
		log.Printf("[Cache] Failed to save cache: %v", err)
		return
	}
	log.Printf("[Cache] Saved %d entries to %s", len(cache.Entries), path)
}

// Upsert replaces the entry matching e.Number, or appends if absent.
// The (possibly grown) slice is returned for reassignment by the caller.
func Upsert(entries []Entry, e Entry) []Entry {
	for i := range entries {
		if entries[i].Number == e.Number {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

// IsStale reports whether the cache needs a full rebuild: true when it has
// never been rebuilt, when the timestamp is unreadable, or when the last
// rebuild is more than 60 minutes before now. Exactly 60 minutes is fresh.
func (c *VectorCache) IsStale(now time.Time) bool {
	if c.LastRebuilt == "" {
		return true
	}
	rebuilt, err := time.Parse(time.RFC3339, c.LastRebuilt)
	if err != nil {
		return true
	}
	return now.Sub(rebuilt) > time.Hour
}

// readCacheFile reads and structurally validates a cache file. The second
// return is false when the caller should fall back to an empty cache.
func readCacheFile(path, tag string) (map[string]json.RawMessage, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[%s] No cache file found, starting fresh", tag)
		} else {
			log.Printf("[%s] Failed to load cache, starting fresh: %v", tag, err)
		}
		return nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("[%s] Failed to parse cache, starting fresh: %v", tag, err)
		return nil, false
	}

	if _, found := raw["version"]; !found {
		log.Printf("[%s] Invalid cache format, returning empty cache", tag)
		return nil, false
	}
	if _, found := raw["entries"]; !found {
		log.Printf("[%s] Invalid cache format, returning empty cache", tag)
		return nil, false
	}

	return raw, true
}

// writeAtomic serializes v to path via a temporary sibling file and rename
func writeAtomic(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
