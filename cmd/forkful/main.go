// Command forkful is the recipe discovery CLI.
package main

import (
	"os"

	"github.com/forkful-labs/forkful-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
