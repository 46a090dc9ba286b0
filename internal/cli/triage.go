package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GriffinAtlas/clawtriage/internal/embedding"
	"github.com/GriffinAtlas/clawtriage/internal/github"
	"github.com/GriffinAtlas/clawtriage/internal/triage"
	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

func newTriageCmd() *cobra.Command {
	var (
		postComment bool
		outputPath  string
	)

	cmd := &cobra.Command{
		Use:   "triage <pr_number>",
		Short: "Triage a single pull request",
		Long: `Analyze one open pull request: find near-duplicate PRs using
semantic embeddings, score description and diff quality, and check alignment
against the repository's VISION.md. Prints a draft review comment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid PR number: %s", args[0])
			}

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

			judge, err := createJudge(&cfg.Vision)
			if err != nil {
				return fmt.Errorf("failed to create vision judge: %w", err)
			}
			if judge != nil {
				defer judge.Close()
			}

			fmt.Printf("Triaging PR #%d in %s\n", number, cfg.Repo)

			deps := triage.Deps{
				GitHub:   ghClient,
				Embedder: embedder,
				Judge:    judge,
			}
			opts := triage.Options{
				CachePath:  cfg.Caches.Embeddings,
				Threshold:  cfg.Triage.SimilarityThreshold,
				SkipVision: cfg.Vision.Skip,
			}

			result, err := triage.TriagePR(ctx, deps, owner, repo, number, opts)
			if err != nil {
				return fmt.Errorf("triage failed: %w", err)
			}

			printTriageResult(result)

			if outputPath != "" {
				if err := writeResultJSON(outputPath, result); err != nil {
					return err
				}
				fmt.Printf("Output written to: %s\n", outputPath)
			}

			if postComment && cfg.Post.Comment && !dryRun {
				if err := ghClient.PostComment(ctx, owner, repo, number, result.DraftComment); err != nil {
					return fmt.Errorf("failed to post comment: %w", err)
				}
				fmt.Println("Comment posted.")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&postComment, "post", false, "post the draft comment to the PR")
	cmd.Flags().StringVar(&outputPath, "output", "", "path to write the triage result JSON")

	return cmd
}

func printTriageResult(result *models.TriageResult) {
	fmt.Println("\n=== Triage Result ===")
	fmt.Printf("\nQuality Score: %.1f/10\n", result.QualityScore)
	fmt.Printf("Vision: %s", result.VisionAlignment)
	if result.VisionReason != "" {
		fmt.Printf(" (%s)", result.VisionReason)
	}
	fmt.Println()

	if result.IsDuplicate {
		fmt.Println("\nSimilar PRs:")
		for _, s := range result.DuplicateOf {
			fmt.Printf("  - #%d: %s (%.1f%%)\n", s.Number, s.Title, s.Score*100)
		}
	}

	fmt.Printf("\nRecommended action: %s\n", result.RecommendedAction)
	fmt.Println("\n--- Draft Comment ---")
	fmt.Println(result.DraftComment)
}
