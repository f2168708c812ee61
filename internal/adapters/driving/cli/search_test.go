package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_HasTopFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top")
	require.NotNil(t, flag, "top flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	stub := &stubSearchService{results: []domain.RecipeResult{
		{RecipeID: "soup", Title: "Tomato Soup", Score: 1.04, Snippet: "Tomato Soup — simmer"},
	}}
	cleanup := setupTestServices(stub, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "tomato soup"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "tomato soup", stub.lastQuery)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "Tomato Soup (1.040)")
	assert.Contains(t, buf.String(), "simmer")
}

func TestSearchCmd_PassesFlagsThrough(t *testing.T) {
	stub := &stubSearchService{}
	cleanup := setupTestServices(stub, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "-n", "3", "--namespace", "staging", "--cuisine", "Indian", "curry"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchTopK = 5
		searchNamespace = ""
		searchCuisine = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 3, stub.lastOpts.TopK)
	assert.Equal(t, "staging", stub.lastOpts.Namespace)
	assert.Equal(t, "Indian", stub.lastOpts.Filter["cuisine"])
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	stub := &stubSearchService{results: []domain.RecipeResult{
		{RecipeID: "soup", Title: "Tomato Soup", Score: 0.9},
	}}
	cleanup := setupTestServices(stub, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "soup"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"recipe_id\": \"soup\"")
	assert.Contains(t, buf.String(), "\"score\"")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(&stubSearchService{}, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "nothing indexed"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices(&stubSearchService{err: errors.New("index down")}, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "soup"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}
