package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/GriffinAtlas/clawtriage/internal/cache"
	"github.com/GriffinAtlas/clawtriage/internal/embedding"
	"github.com/GriffinAtlas/clawtriage/internal/similarity"
	"github.com/GriffinAtlas/clawtriage/internal/triage"
	"github.com/GriffinAtlas/clawtriage/internal/vision"
	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// RunIssueBatch triages every open issue in the repository
func RunIssueBatch(ctx context.Context, deps Deps, owner, repo string, opts Options) (*models.IssueBatchResult, error) {
	issues, err := deps.GitHub.ListOpenIssues(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list open issues: %w", err)
	}
	log.Printf("[Issue Batch] Triaging %d open issues in %s/%s", len(issues), owner, repo)

	texts := make(map[int]string, len(issues))
	titleBody := make(map[int][2]string, len(issues))
	numbers := make([]int, len(issues))
	for i, issue := range issues {
		texts[issue.Number] = embedding.PrepareText(issue.Title, issue.Body)
		titleBody[issue.Number] = [2]string{issue.Title, issue.Body}
		numbers[i] = issue.Number
	}
	entries, err := syncEmbeddings(ctx, deps, opts.CachePath, numbers, texts, titleBody)
	if err != nil {
		return nil, err
	}

	clusters := similarity.ClusterDuplicates(entries, opts.Threshold)
	log.Printf("[Issue Batch] Found %d duplicate clusters", len(clusters))

	ec := cache.LoadIssueEnrichment(opts.EnrichmentPath)
	EnrichIssues(ctx, deps.GitHub, ec, opts.EnrichmentPath, owner, repo, issues, deps.now)

	summaries := make([]vision.Summary, 0, len(issues))
	for _, issue := range issues {
		summaries = append(summaries, vision.Summary{
			Number:  issue.Number,
			Title:   issue.Title,
			Body:    issue.Body,
			Labels:  issue.Labels,
			IsIssue: true,
		})
	}

	verdicts, batchID := runVision(ctx, deps, owner, repo, summaries, opts.SkipVision)

	inCluster := clusterIndex(clusters)
	batchEntries := make([]models.BatchIssueTriageEntry, 0, len(issues))
	for _, issue := range issues {
		entry := models.BatchIssueTriageEntry{
			IssueNumber: issue.Number,
			Title:       issue.Title,
			User:        issue.User,
			Labels:      issue.Labels,
		}

		if e, ok := ec.Entries[issue.Number]; ok {
			full := issue.FullIssue(e.EnrichedIssueData)
			score, breakdown := triage.ScoreIssue(&full)
			entry.QualityScore = score
			entry.QualityTier = models.TierFull
			entry.QualityBreakdown = &breakdown
		} else {
			score, _ := triage.ScorePartialIssue(issue.Body, issue.Labels)
			if score > partialScoreCap {
				score = partialScoreCap
			}
			entry.QualityScore = score
			entry.QualityTier = models.TierPartial
		}

		v := verdicts[issue.Number]
		entry.VisionAlignment = v.Alignment
		entry.VisionReason = v.Reason

		isDuplicate := false
		if canonical, ok := inCluster[issue.Number]; ok {
			c := canonical
			entry.DuplicateCluster = &c
			isDuplicate = true
		}

		entry.RecommendedAction = triage.DeriveIssueAction(isDuplicate, entry.QualityScore, entry.VisionAlignment)
		batchEntries = append(batchEntries, entry)
	}

	return &models.IssueBatchResult{
		RunID:         uuid.New().String(),
		Repo:          fmt.Sprintf("%s/%s", owner, repo),
		TotalIssues:   len(issues),
		Timestamp:     deps.now().Format(time.RFC3339),
		Clusters:      clusters,
		Entries:       batchEntries,
		Stats:         computeIssueStats(batchEntries, clusters),
		VisionBatchID: batchID,
	}, nil
}
