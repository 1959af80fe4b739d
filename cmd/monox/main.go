// Command monox histograms a per-event observable over a file of JSON
// events.
package main

import (
	"fmt"
	"os"

	"github.com/kbukum/monox/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "monox:", err)
		os.Exit(1)
	}
}
