// Command igridvu is a synchronized grid viewer for related images:
// rendering passes, debug outputs, or any set of files sharing a path
// prefix. All panels zoom and pan together.
package main

import (
	"fmt"
	"os"

	"github.com/igridvu/igridvu/cmd/igridvu"
)

func main() {
	if err := igridvu.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
