package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinAtlas/clawtriage/internal/batch"
	"github.com/GriffinAtlas/clawtriage/internal/embedding"
	"github.com/GriffinAtlas/clawtriage/internal/github"
	"github.com/GriffinAtlas/clawtriage/internal/report"
	"github.com/GriffinAtlas/clawtriage/internal/vision"
)

const reportLabelColor = "1d76db"

func newBatchCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Triage every open pull request in the repository",
		Long: `Run the full pipeline over all open PRs: sync the embedding cache,
cluster duplicates, enrich PR details, bulk-check vision alignment, and score
every PR. Writes the full result as JSON and optionally posts a markdown
report as a GitHub issue.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			owner, repo, err := github.ParseRepo(cfg.Repo)
			if err != nil {
				return err
			}

			ghClient, err := github.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}
			defer ghClient.Close()

			embedder, err := embedding.NewFallbackProvider(&cfg.Embedding)
			if err != nil {
				return fmt.Errorf("failed to create embedder: %w", err)
			}
			defer embedder.Close()

			newJob, err := createJobFactory(&cfg.Vision)
			if err != nil {
				return fmt.Errorf("failed to create vision job factory: %w", err)
			}

			deps := batch.Deps{
				GitHub:   ghClient,
				Embedder: embedder,
				NewJob:   newJob,
				Poller: vision.NewPoller(
					time.Duration(cfg.Vision.PollSeconds)*time.Second,
					time.Duration(cfg.Vision.TimeoutMinutes)*time.Minute,
				),
			}
			opts := batch.Options{
				CachePath:      cfg.Caches.Embeddings,
				EnrichmentPath: cfg.Caches.Enrichment,
				Threshold:      cfg.Triage.SimilarityThreshold,
				SkipVision:     cfg.Vision.Skip,
			}

			fmt.Printf("Running batch triage for %s\n", cfg.Repo)

			result, err := batch.RunPRBatch(ctx, deps, owner, repo, opts)
			if err != nil {
				return fmt.Errorf("batch run failed: %w", err)
			}

			if outputPath == "" {
				outputPath = fmt.Sprintf("clawtriage-batch-%s-%s-%s.json", owner, repo, resultDate(result.Timestamp))
			}
			if err := writeResultJSON(outputPath, result); err != nil {
				return err
			}
			fmt.Printf("Results written to: %s\n", outputPath)

			fmt.Printf("\nTriaged %d PRs: %d merge candidates, %d needing revision, %d in duplicate clusters\n",
				result.Stats.TotalPRs, result.Stats.MergeCandidate, result.Stats.NeedsRevision, result.Stats.DuplicatePRs)

			rep := report.BuildPRReport(result)
			if cfg.Post.Comment && !dryRun {
				postReport(ctx, ghClient, cfg.Post.ReportLabel, owner, repo, rep, outputPath)
			} else {
				fmt.Println("\n--- Report Preview ---")
				fmt.Println(rep.Title)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "output", "", "path for the JSON result file")

	return cmd
}

// postReport files the markdown report as a labeled issue. Failures are not
// fatal: the JSON result is already on disk.
func postReport(ctx context.Context, gh *github.Client, label, owner, repo string, rep report.Report, outputPath string) {
	if err := gh.EnsureLabel(ctx, owner, repo, label, reportLabelColor, "Automated triage batch reports"); err != nil {
		log.Printf("[Batch] Failed to ensure report label: %v", err)
	}

	number, err := gh.CreateIssue(ctx, owner, repo, rep.Title, rep.Body, []string{label})
	if err != nil {
		log.Printf("[Batch] Failed to post report issue: %v", err)
		fmt.Printf("Report could not be posted; full data remains in %s\n", outputPath)
		fmt.Println("\n--- Report Preview ---")
		fmt.Println(rep.Title)
		return
	}

	fmt.Printf("Report posted: https://github.com/%s/%s/issues/%d\n", owner, repo, number)
}

func writeResultJSON(path string, result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}

// resultDate extracts the date portion of an RFC 3339 timestamp
func resultDate(timestamp string) string {
	if i := strings.Index(timestamp, "T"); i > 0 {
		return timestamp[:i]
	}
	return timestamp
}
