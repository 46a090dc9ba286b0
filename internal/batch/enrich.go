// Package batch orchestrates repository-wide triage runs: fetch all open
// items, embed and cluster them, enrich detail data, score quality, run the
// bulk vision check, and assemble the final result.
package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/GriffinAtlas/clawtriage/internal/cache"
	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// checkpointInterval is how many fetches happen between cache saves, so an
// interrupted enrichment pass loses at most this much work.
const checkpointInterval = 50

// PRDetailFetcher fetches per-PR diff stats and file lists
type PRDetailFetcher interface {
	GetPRDetails(ctx context.Context, owner, repo string, number int) (models.EnrichedPRData, error)
}

// IssueDetailFetcher fetches per-issue engagement detail
type IssueDetailFetcher interface {
	GetIssueDetails(ctx context.Context, owner, repo string, number int) (models.EnrichedIssueData, error)
}

// EnrichPRs fetches detail data for every PR missing from the enrichment
// cache. Individual fetch failures are logged and skipped; those PRs fall
// back to partial-tier scoring. The cache is checkpointed periodically with
// a rough ETA and saved at the end if anything was fetched.
func EnrichPRs(ctx context.Context, fetcher PRDetailFetcher, ec *cache.PREnrichment, path, owner, repo string, prs []models.BatchPR, now func() time.Time) {
	var missing []models.BatchPR
	for _, pr := range prs {
		if _, ok := ec.Entries[pr.Number]; !ok {
			missing = append(missing, pr)
		}
	}
	if len(missing) == 0 {
		log.Printf("[Enrichment] All %d PRs already enriched", len(prs))
		return
	}
	log.Printf("[Enrichment] Fetching detail for %d of %d PRs", len(missing), len(prs))

	start := now()
	fetched := 0
	for i, pr := range missing {
		data, err := fetcher.GetPRDetails(ctx, owner, repo, pr.Number)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[Enrichment] Failed to fetch PR #%d, skipping: %v", pr.Number, err)
			continue
		}

		ec.Entries[pr.Number] = cache.EnrichedPR{
			EnrichedPRData: data,
			CachedAt:       now().Format(time.RFC3339),
		}
		fetched++

		if fetched%checkpointInterval == 0 {
			ec.LastUpdated = now().Format(time.RFC3339)
			cache.SavePREnrichment(path, ec)
			logETA(start, now(), i+1, len(missing))
		}
	}

	if fetched > 0 {
		ec.LastUpdated = now().Format(time.RFC3339)
		cache.SavePREnrichment(path, ec)
	}
}

// EnrichIssues is the issue-side counterpart of EnrichPRs
func EnrichIssues(ctx context.Context, fetcher IssueDetailFetcher, ec *cache.IssueEnrichment, path, owner, repo string, issues []models.BatchIssue, now func() time.Time) {
	var missing []models.BatchIssue
	for _, issue := range issues {
		if _, ok := ec.Entries[issue.Number]; !ok {
			missing = append(missing, issue)
		}
	}
	if len(missing) == 0 {
		log.Printf("[Issue Enrichment] All %d issues already enriched", len(issues))
		return
	}
	log.Printf("[Issue Enrichment] Fetching detail for %d of %d issues", len(missing), len(issues))

	start := now()
	fetched := 0
	for i, issue := range missing {
		data, err := fetcher.GetIssueDetails(ctx, owner, repo, issue.Number)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[Issue Enrichment] Failed to fetch issue #%d, skipping: %v", issue.Number, err)
			continue
		}

		ec.Entries[issue.Number] = cache.EnrichedIssue{
			EnrichedIssueData: data,
			CachedAt:          now().Format(time.RFC3339),
		}
		fetched++

		if fetched%checkpointInterval == 0 {
			ec.LastUpdated = now().Format(time.RFC3339)
			cache.SaveIssueEnrichment(path, ec)
			logETA(start, now(), i+1, len(missing))
		}
	}

	if fetched > 0 {
		ec.LastUpdated = now().Format(time.RFC3339)
		cache.SaveIssueEnrichment(path, ec)
	}
}

// logETA estimates remaining time from throughput so far
func logETA(start, now time.Time, done, total int) {
	if done == 0 || total <= done {
		return
	}
	elapsed := now.Sub(start)
	remaining := time.Duration(float64(elapsed) / float64(done) * float64(total-done))
	log.Printf("[Enrichment] Checkpoint: %d/%d done, %s", done, total, fmt.Sprintf("~%dm %ds remaining", int(remaining.Minutes()), int(remaining.Seconds())%60))
}
