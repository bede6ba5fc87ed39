// Command stepkit reads and writes STEP (ISO 10303-21) exchange files.
package main

import (
	"os"

	"github.com/leapstack-labs/stepkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
