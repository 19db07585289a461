// main is the entry point for the gridscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/gridscope/gridscope/cmd"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/internal/runstore"
)

func main() {
	err := cmd.Execute()

	// Flush stores and profiles before deciding the exit code. A deferred
	// cleanup would be skipped by os.Exit.
	runstore.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Could not stop profiling", perr)
	}

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
