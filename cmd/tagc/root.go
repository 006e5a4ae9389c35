// Command tagc drives the front end end to end: it discovers a module's
// import graph, lowers it to HIR, and reports whatever diag.Bag collected
// along the way. It exists to exercise the core from the outside — the
// parser it drives through is explicitly out of scope for the front end
// itself (spec.md §1) — not to be a production compiler driver.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var maxErrors int

var rootCmd = &cobra.Command{
	Use:   "tagc",
	Short: "tagc is the tagged-union language front end",
}

func main() {
	rootCmd.PersistentFlags().IntVar(&maxErrors, "max-errors", 20, "stop printing diagnostics after this many")
	rootCmd.AddCommand(checkCmd, dumpHIRCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
