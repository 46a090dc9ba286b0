package batch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/GriffinAtlas/clawtriage/internal/cache"
	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

func TestEnrichPRs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enrichment.json")
	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	prs := []models.BatchPR{
		{Number: 1, Title: "fix: a"},
		{Number: 2, Title: "fix: b"},
		{Number: 3, Title: "fix: c"},
	}

	gh := &fakeGitHub{
		prDetails: map[int]models.EnrichedPRData{
			1: {Additions: 10, ChangedFiles: 1},
			2: {Additions: 20, ChangedFiles: 2},
			3: {Additions: 30, ChangedFiles: 3},
		},
		failDetails: map[int]bool{2: true},
	}

	ec := cache.EmptyPREnrichment()
	EnrichPRs(context.Background(), gh, ec, path, "acme", "widgets", prs, now)

	if len(ec.Entries) != 2 {
		t.Fatalf("entries = %d, want 2 (one fetch failed)", len(ec.Entries))
	}
	if ec.Entries[1].Additions != 10 || ec.Entries[3].Additions != 30 {
		t.Errorf("unexpected entries: %+v", ec.Entries)
	}
	if ec.LastUpdated == "" {
		t.Error("lastUpdated should be set after fetching")
	}

	// The cache was persisted.
	loaded := cache.LoadPREnrichment(path)
	if len(loaded.Entries) != 2 {
		t.Errorf("persisted entries = %d, want 2", len(loaded.Entries))
	}

	// A second pass only fetches what is still missing.
	gh.detailCalls = nil
	gh.failDetails = nil
	EnrichPRs(context.Background(), gh, ec, path, "acme", "widgets", prs, now)
	if len(gh.detailCalls) != 1 || gh.detailCalls[0] != 2 {
		t.Errorf("second pass fetched %v, want only [2]", gh.detailCalls)
	}
	if len(ec.Entries) != 3 {
		t.Errorf("entries = %d, want 3 after second pass", len(ec.Entries))
	}
}

func TestEnrichIssuesNothingMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enrichment.json")
	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	ec := cache.EmptyIssueEnrichment()
	ec.Entries[10] = cache.EnrichedIssue{EnrichedIssueData: models.EnrichedIssueData{CommentCount: 5}}

	gh := &fakeGitHub{}
	EnrichIssues(context.Background(), gh, ec, path, "acme", "widgets",
		[]models.BatchIssue{{Number: 10}}, now)

	if len(gh.detailCalls) != 0 {
		t.Errorf("expected no fetches, got %v", gh.detailCalls)
	}
}
