package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinAtlas/clawtriage/internal/batch"
	"github.com/GriffinAtlas/clawtriage/internal/embedding"
	"github.com/GriffinAtlas/clawtriage/internal/github"
	"github.com/GriffinAtlas/clawtriage/internal/report"
	"github.com/GriffinAtlas/clawtriage/internal/vision"
)

func newIssueBatchCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "issue-batch",
		Short: "Triage every open issue in the repository",
		Long: `Run the full pipeline over all open issues: sync the issue
embedding cache, cluster duplicates, enrich issue details, bulk-check vision
alignment, and score every issue. Writes the full result as JSON and
optionally posts a markdown report as a GitHub issue.`,
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
				CachePath:      cfg.Caches.IssueEmbeddings,
				EnrichmentPath: cfg.Caches.IssueEnrichment,
				Threshold:      cfg.Triage.SimilarityThreshold,
				SkipVision:     cfg.Vision.Skip,
			}

			fmt.Printf("Running issue batch triage for %s\n", cfg.Repo)

			result, err := batch.RunIssueBatch(ctx, deps, owner, repo, opts)
			if err != nil {
				return fmt.Errorf("issue batch run failed: %w", err)
			}

			if outputPath == "" {
				outputPath = fmt.Sprintf("clawtriage-issue-batch-%s-%s-%s.json", owner, repo, resultDate(result.Timestamp))
			}
			if err := writeResultJSON(outputPath, result); err != nil {
				return err
			}
			fmt.Printf("Results written to: %s\n", outputPath)

			fmt.Printf("\nTriaged %d issues: %d to prioritize, %d needing info, %d in duplicate clusters\n",
				result.Stats.TotalIssues, result.Stats.Prioritize, result.Stats.NeedsInfo, result.Stats.DuplicateIssues)

			rep := report.BuildIssueReport(result)
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
