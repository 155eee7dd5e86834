// Command hybridrag answers questions from local documents with web search
// fallback.
package main

import (
	"fmt"
	"os"

	"github.com/0xcro3dile/hybridrag-go/cmd/hybridrag/commands"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
