package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

var (
	searchTopK      int
	searchJSON      bool
	searchNamespace string
	searchCuisine   string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed recipes by free text",
	Long: `Embeds the query, retrieves the nearest instruction chunks from the
vector index and returns recipes ranked by aggregate relevance.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top", "n", 5, "maximum number of recipes")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchNamespace, "namespace", "", "vector index namespace")
	searchCmd.Flags().StringVar(&searchCuisine, "cuisine", "", "filter by cuisine")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		if _, err := setupQueryServices(); err != nil {
			return err
		}
	}

	opts := domain.SearchOptions{
		TopK:      searchTopK,
		Namespace: searchNamespace,
	}
	if searchCuisine != "" {
		opts.Filter = map[string]any{"cuisine": searchCuisine}
	}

	results, err := searchService.Search(context.Background(), args[0], opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].RecipeID
		}
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, title, results[i].Score)
		if results[i].Snippet != "" {
			cmd.Printf("      %s\n", results[i].Snippet)
		}
		cmd.Println()
	}
	return nil
}
