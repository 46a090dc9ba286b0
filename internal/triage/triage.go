package triage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/GriffinAtlas/clawtriage/internal/cache"
	"github.com/GriffinAtlas/clawtriage/internal/embedding"
	"github.com/GriffinAtlas/clawtriage/internal/vision"
	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// GitHubClient is the repository access the single-PR flow needs
type GitHubClient interface {
	ListOpenPRs(ctx context.Context, owner, repo string) ([]models.BatchPR, error)
	GetPR(ctx context.Context, owner, repo string, number int) (*models.PR, error)
	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
}

// Deps are the collaborators for a triage run. Judge may be nil when vision
// checks are disabled.
type Deps struct {
	GitHub   GitHubClient
	Embedder embedding.Provider
	Judge    vision.Judge
	Now      func() time.Time
}

// Options tunes a single-PR triage run
type Options struct {
	CachePath  string
	Threshold  float64
	SkipVision bool
}

// TriagePR runs the full single-PR pipeline: rebuild the embedding cache if
// stale, find near-duplicates, score quality, check vision alignment, and
// derive a recommendation with a ready-to-post draft comment.
func TriagePR(ctx context.Context, deps Deps, owner, repo string, number int, opts Options) (*models.TriageResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	vc := cache.Load(opts.CachePath)
	if vc.IsStale(now()) {
		log.Printf("[Triage] Embedding cache is stale, rebuilding")
		rebuilt, err := rebuildCache(ctx, deps, owner, repo, now())
		if err != nil {
			return nil, err
		}
		vc = rebuilt
		cache.Save(opts.CachePath, vc)
	}

	pr, err := deps.GitHub.GetPR(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	target, changed, err := ensureEmbedded(ctx, deps, vc, pr, now())
	if err != nil {
		return nil, err
	}
	if changed {
		cache.Save(opts.CachePath, vc)
	}

	similar := FindSimilarPRs(target, pr.Number, vc.Entries, opts.Threshold)
	isDuplicate := len(similar) > 0

	quality, breakdown := ScorePR(pr)

	alignment, reason, err := checkVision(ctx, deps, owner, repo, pr, opts.SkipVision)
	if err != nil {
		return nil, err
	}

	result := &models.TriageResult{
		PRNumber:          pr.Number,
		IsDuplicate:       isDuplicate,
		DuplicateOf:       similar,
		QualityScore:      quality,
		QualityBreakdown:  breakdown,
		VisionAlignment:   alignment,
		VisionReason:      reason,
		RecommendedAction: DeriveAction(isDuplicate, quality, alignment),
	}
	result.DraftComment = BuildDraftComment(result)

	return result, nil
}

// rebuildCache embeds every open PR and returns a fresh cache
func rebuildCache(ctx context.Context, deps Deps, owner, repo string, now time.Time) (*cache.VectorCache, error) {
	prs, err := deps.GitHub.ListOpenPRs(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild embedding cache: %w", err)
	}

	texts := make([]string, len(prs))
	for i, pr := range prs {
		texts[i] = embedding.PrepareText(pr.Title, pr.Body)
	}

	vectors, err := embedding.EmbedAll(ctx, deps.Embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild embedding cache: %w", err)
	}

	ts := now.Format(time.RFC3339)
	vc := cache.EmptyVectorCache()
	vc.LastRebuilt = ts
	for i, pr := range prs {
		vec, ok := vectors[i]
		if !ok {
			continue
		}
		vc.Entries = append(vc.Entries, cache.Entry{
			Number:    pr.Number,
			Title:     pr.Title,
			Body:      embedding.Snippet(pr.Body),
			Embedding: vec,
			CachedAt:  ts,
		})
	}
	vc.Count = len(vc.Entries)

	log.Printf("[Triage] Rebuilt embedding cache with %d of %d open PRs", len(vc.Entries), len(prs))
	return vc, nil
}

// ensureEmbedded returns the target PR's embedding, generating and caching
// it when absent. The second return reports whether the cache was modified.
func ensureEmbedded(ctx context.Context, deps Deps, vc *cache.VectorCache, pr *models.PR, now time.Time) ([]float32, bool, error) {
	for _, e := range vc.Entries {
		if e.Number == pr.Number && len(e.Embedding) > 0 {
			return e.Embedding, false, nil
		}
	}

	text := embedding.PrepareText(pr.Title, pr.Body)
	if !embedding.Embeddable(text) {
		return nil, false, nil
	}

	vec, err := deps.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, false, fmt.Errorf("failed to embed PR #%d: %w", pr.Number, err)
	}

	vc.Entries = cache.Upsert(vc.Entries, cache.Entry{
		Number:    pr.Number,
		Title:     pr.Title,
		Body:      embedding.Snippet(pr.Body),
		Embedding: vec,
		CachedAt:  now.Format(time.RFC3339),
	})
	vc.Count = len(vc.Entries)

	return vec, true, nil
}

func checkVision(ctx context.Context, deps Deps, owner, repo string, pr *models.PR, skip bool) (models.Alignment, string, error) {
	if skip || deps.Judge == nil {
		return models.AlignmentPending, "Vision check skipped", nil
	}

	doc, err := vision.FetchDoc(ctx, deps.GitHub, owner, repo)
	if err != nil {
		return "", "", err
	}
	if doc == nil {
		v := vision.NoVisionVerdict()
		return v.Alignment, v.Reason, nil
	}

	v, err := deps.Judge.Judge(ctx, doc, vision.Summary{
		Number: pr.Number,
		Title:  pr.Title,
		Body:   pr.Body,
		Files:  pr.FileList,
	})
	if err != nil {
		return "", "", err
	}
	return v.Alignment, v.Reason, nil
}
