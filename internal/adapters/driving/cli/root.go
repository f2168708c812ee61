// Package cli implements the cobra command surface of the Forkful CLI.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forkful-labs/forkful-cli/internal/core/ports/driving"
	"github.com/forkful-labs/forkful-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services the commands run against, wired by setupServices (or replaced by
// tests).
var (
	searchService  driving.SearchService
	matcherService driving.MatcherService
	ingestor       driving.Ingestor
)

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "forkful",
	Short: "Recipe discovery from ingredients and free text",
	Long: `Forkful indexes recipe collections into a vector index and answers
free-text and ingredient-based queries against them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
		// API keys may live in a .env next to the working directory.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.forkful)")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
