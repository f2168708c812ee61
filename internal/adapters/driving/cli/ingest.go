package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestNamespace string

var ingestCmd = &cobra.Command{
	Use:   "ingest [csv-file]",
	Short: "Index a recipe CSV into the vector index",
	Long: `Chunks, embeds and indexes every recipe row of a CSV export.
Progress is checkpointed: an interrupted run resumes after the last
committed row instead of re-embedding finished work.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestNamespace, "namespace", "", "vector index namespace (default from config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		if _, err := setupIngestor(args[0], ingestNamespace); err != nil {
			return err
		}
	}

	stats, err := ingestor.Ingest(context.Background())

	// Stats are meaningful even when the run aborted part-way.
	cmd.Printf("Rows processed:      %d\n", stats.RowsProcessed)
	cmd.Printf("Chunks indexed:      %d\n", stats.ChunksIndexed)
	cmd.Printf("Batches dropped:     %d\n", stats.BatchesDropped)
	cmd.Printf("Slices dead-lettered: %d\n", stats.SlicesDeadLettered)

	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}
