// clipsift is a development harness for the fusion library: it reads
// per-modality match lists from JSON files, runs classification and
// fusion, and prints the ranked output as JSON.
package main

import (
	"os"

	"github.com/clipsift/clipsift/cmd/clipsift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
