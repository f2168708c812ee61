package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

var matchJSON bool

var matchCmd = &cobra.Command{
	Use:   "match [ingredient]...",
	Short: "Find recipes cookable from a set of ingredients",
	Long: `Ranks recipes by how much of their ingredient list the provided set
covers, listing what each candidate is still missing. Falls back to semantic
search when few precise matches exist.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matcherService == nil {
		if _, err := setupQueryServices(); err != nil {
			return err
		}
	}

	matches, err := matcherService.MatchByIngredients(context.Background(), args)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("match failed: %w", err)
	}

	if matchJSON {
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal matches: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(matches) == 0 {
		cmd.Println("No matching recipes.")
		return nil
	}

	cmd.Println("Candidates:")
	cmd.Println()
	for i := range matches {
		title := matches[i].Title
		if title == "" {
			title = matches[i].RecipeID
		}
		marker := ""
		if matches[i].Fuzzy {
			marker = " ~"
		}
		cmd.Printf("  [%d] %s (%.0f%%)%s\n", i+1, title, matches[i].Score*100, marker)
		if len(matches[i].MissingIngredients) > 0 {
			cmd.Printf("      missing: %s\n", strings.Join(matches[i].MissingIngredients, ", "))
		}
		cmd.Println()
	}
	return nil
}
