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

// partialScoreCap keeps partially-scored items from outranking fully-scored
// ones: only two of four criteria are measurable without detail data.
const partialScoreCap = 5.0

// GitHubClient is the repository access a batch run needs
type GitHubClient interface {
	ListOpenPRs(ctx context.Context, owner, repo string) ([]models.BatchPR, error)
	ListOpenIssues(ctx context.Context, owner, repo string) ([]models.BatchIssue, error)
	GetPRDetails(ctx context.Context, owner, repo string, number int) (models.EnrichedPRData, error)
	GetIssueDetails(ctx context.Context, owner, repo string, number int) (models.EnrichedIssueData, error)
	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
}

// JobFactory builds a bulk vision job for the given items. A nil factory
// disables vision checks entirely.
type JobFactory func(doc *vision.Doc, items []vision.Summary) (vision.Job, error)

// Deps are the collaborators for a batch run
type Deps struct {
	GitHub   GitHubClient
	Embedder embedding.Provider
	NewJob   JobFactory
	Poller   *vision.Poller
	Now      func() time.Time
}

// Options tunes a batch run
type Options struct {
	CachePath      string
	EnrichmentPath string
	Threshold      float64
	SkipVision     bool
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// RunPRBatch triages every open PR in the repository
func RunPRBatch(ctx context.Context, deps Deps, owner, repo string, opts Options) (*models.BatchResult, error) {
	prs, err := deps.GitHub.ListOpenPRs(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list open PRs: %w", err)
	}
	log.Printf("[Batch] Triaging %d open PRs in %s/%s", len(prs), owner, repo)

	texts := make(map[int]string, len(prs))
	for _, pr := range prs {
		texts[pr.Number] = embedding.PrepareText(pr.Title, pr.Body)
	}
	entries, err := syncEmbeddings(ctx, deps, opts.CachePath, prNumbers(prs), texts, prTitleBody(prs))
	if err != nil {
		return nil, err
	}

	clusters := similarity.ClusterDuplicates(entries, opts.Threshold)
	log.Printf("[Batch] Found %d duplicate clusters", len(clusters))

	ec := cache.LoadPREnrichment(opts.EnrichmentPath)
	EnrichPRs(ctx, deps.GitHub, ec, opts.EnrichmentPath, owner, repo, prs, deps.now)

	summaries := make([]vision.Summary, 0, len(prs))
	for _, pr := range prs {
		s := vision.Summary{Number: pr.Number, Title: pr.Title, Body: pr.Body}
		if e, ok := ec.Entries[pr.Number]; ok {
			s.Files = e.FileList
		}
		summaries = append(summaries, s)
	}

	verdicts, batchID := runVision(ctx, deps, owner, repo, summaries, opts.SkipVision)

	inCluster := clusterIndex(clusters)
	batchEntries := make([]models.BatchTriageEntry, 0, len(prs))
	for _, pr := range prs {
		entry := models.BatchTriageEntry{
			PRNumber: pr.Number,
			Title:    pr.Title,
			User:     pr.User,
		}

		if e, ok := ec.Entries[pr.Number]; ok {
			full := pr.FullPR(e.EnrichedPRData)
			score, breakdown := triage.ScorePR(&full)
			entry.QualityScore = score
			entry.QualityTier = models.TierFull
			entry.QualityBreakdown = &breakdown
		} else {
			score, _ := triage.ScorePartialPR(pr.Title, pr.Body)
			if score > partialScoreCap {
				score = partialScoreCap
			}
			entry.QualityScore = score
			entry.QualityTier = models.TierPartial
		}

		v := verdicts[pr.Number]
		entry.VisionAlignment = v.Alignment
		entry.VisionReason = v.Reason

		isDuplicate := false
		if canonical, ok := inCluster[pr.Number]; ok {
			c := canonical
			entry.DuplicateCluster = &c
			isDuplicate = true
		}

		entry.RecommendedAction = triage.DeriveAction(isDuplicate, entry.QualityScore, entry.VisionAlignment)
		batchEntries = append(batchEntries, entry)
	}

	return &models.BatchResult{
		RunID:         uuid.New().String(),
		Repo:          fmt.Sprintf("%s/%s", owner, repo),
		TotalPRs:      len(prs),
		Timestamp:     deps.now().Format(time.RFC3339),
		Clusters:      clusters,
		Entries:       batchEntries,
		Stats:         computePRStats(batchEntries, clusters),
		VisionBatchID: batchID,
	}, nil
}

// syncEmbeddings reconciles the embedding cache with the current open item
// set: closed items are dropped, new ones are embedded, and the result is
// persisted. Returned entries cover only items that embedded successfully.
func syncEmbeddings(ctx context.Context, deps Deps, path string, numbers []int, texts map[int]string, titleBody map[int][2]string) ([]cache.Entry, error) {
	vc := cache.Load(path)

	byNumber := make(map[int]cache.Entry, len(vc.Entries))
	for _, e := range vc.Entries {
		byNumber[e.Number] = e
	}

	ts := deps.now().Format(time.RFC3339)
	var entries []cache.Entry
	var missing []int
	for _, n := range numbers {
		if e, ok := byNumber[n]; ok && len(e.Embedding) > 0 {
			entries = append(entries, e)
			continue
		}
		missing = append(missing, n)
	}

	if len(missing) > 0 {
		log.Printf("[Batch] Embedding %d new items", len(missing))
		inputs := make([]string, len(missing))
		for i, n := range missing {
			inputs[i] = texts[n]
		}

		vectors, err := embedding.EmbedAll(ctx, deps.Embedder, inputs)
		if err != nil {
			return nil, fmt.Errorf("failed to embed new items: %w", err)
		}

		for i, n := range missing {
			vec, ok := vectors[i]
			if !ok {
				continue
			}
			tb := titleBody[n]
			entries = append(entries, cache.Entry{
				Number:    n,
				Title:     tb[0],
				Body:      embedding.Snippet(tb[1]),
				Embedding: vec,
				CachedAt:  ts,
			})
		}
	}

	vc.Entries = entries
	vc.Count = len(entries)
	vc.LastRebuilt = ts
	cache.Save(path, vc)

	return entries, nil
}

// runVision produces a verdict for every item. Skipped runs yield pending
// verdicts, a missing vision doc yields strays, and job failures yield error
// verdicts; the batch itself always continues.
func runVision(ctx context.Context, deps Deps, owner, repo string, items []vision.Summary, skip bool) (map[int]vision.Verdict, string) {
	verdicts := make(map[int]vision.Verdict, len(items))

	if skip || deps.NewJob == nil {
		for _, item := range items {
			verdicts[item.Number] = vision.Verdict{Alignment: models.AlignmentPending, Reason: "Vision check skipped"}
		}
		return verdicts, ""
	}

	doc, err := vision.FetchDoc(ctx, deps.GitHub, owner, repo)
	if err != nil || doc == nil {
		if err != nil {
			log.Printf("[Batch] Failed to fetch vision doc: %v", err)
		}
		for _, item := range items {
			verdicts[item.Number] = vision.NoVisionVerdict()
		}
		return verdicts, ""
	}

	job, err := deps.NewJob(doc, items)
	if err != nil {
		log.Printf("[Batch] Failed to create vision job: %v", err)
		for _, item := range items {
			verdicts[item.Number] = vision.ErrorVerdict("Vision batch could not be created")
		}
		return verdicts, ""
	}

	results, state, err := deps.Poller.Run(ctx, job)
	batchID := jobID(job)
	if err != nil {
		log.Printf("[Batch] Vision job ended in state %s: %v", state, err)
		for _, item := range items {
			verdicts[item.Number] = vision.ErrorVerdict(fmt.Sprintf("Vision batch %s", state))
		}
		return verdicts, batchID
	}

	for _, item := range items {
		if v, ok := results[item.Number]; ok {
			verdicts[item.Number] = v
		} else {
			verdicts[item.Number] = vision.ErrorVerdict("No result returned for item")
		}
	}
	return verdicts, batchID
}

func jobID(job vision.Job) string {
	if ider, ok := job.(interface{ ID() string }); ok {
		return ider.ID()
	}
	return ""
}

func clusterIndex(clusters []models.DuplicateCluster) map[int]int {
	index := make(map[int]int)
	for _, c := range clusters {
		for _, m := range c.Members {
			index[m] = c.Canonical
		}
	}
	return index
}

func prNumbers(prs []models.BatchPR) []int {
	numbers := make([]int, len(prs))
	for i, pr := range prs {
		numbers[i] = pr.Number
	}
	return numbers
}

func prTitleBody(prs []models.BatchPR) map[int][2]string {
	m := make(map[int][2]string, len(prs))
	for _, pr := range prs {
		m[pr.Number] = [2]string{pr.Title, pr.Body}
	}
	return m
}
