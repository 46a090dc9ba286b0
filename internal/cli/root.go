package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinAtlas/clawtriage/internal/config"
)

var (
	cfgFile string
	dryRun  bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "clawtriage",
	Short: "PR and issue triage for GitHub repositories",
	Long: `clawtriage scores pull requests and issues for quality, detects
duplicates using semantic embeddings, and checks alignment against the
repository's VISION.md using an LLM.

Runs against a single PR or an entire repository in batch mode.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "skip all GitHub writes")

	rootCmd.AddCommand(newTriageCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newIssueBatchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("clawtriage version %s\n", version)
		},
	}
}

// loadConfig resolves, loads, and validates the configuration. Without a
// config file the run is configured from environment variables alone.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgPath := config.FindConfigPath(cfgFile); cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("  - %v\n", e)
		}
		return nil, fmt.Errorf("configuration is invalid")
	}

	return cfg, nil
}
