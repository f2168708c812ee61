package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful-labs/forkful-cli/internal/core/ports/driving"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [csv-file]", ingestCmd.Use)
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_PrintsStats(t *testing.T) {
	stub := &stubIngestor{stats: driving.IngestStats{
		RowsProcessed: 100,
		ChunksIndexed: 250,
	}}
	cleanup := setupTestServices(nil, nil, stub)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "recipes.csv"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 1, stub.runs)
	out := buf.String()
	assert.Contains(t, out, "Rows processed:      100")
	assert.Contains(t, out, "Chunks indexed:      250")
}

func TestIngestCmd_PrintsStatsEvenOnFailure(t *testing.T) {
	stub := &stubIngestor{
		stats: driving.IngestStats{RowsProcessed: 40, BatchesDropped: 2},
		err:   errors.New("source exhausted"),
	}
	cleanup := setupTestServices(nil, nil, stub)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "recipes.csv"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingestion failed")
	assert.Contains(t, buf.String(), "Rows processed:      40")
	assert.Contains(t, buf.String(), "Batches dropped:     2")
}
