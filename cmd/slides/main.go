// Command slides is the design-index CLI for presentation decks.
package main

import (
	"fmt"
	"os"

	"github.com/unnitin/slides/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
