package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tagc-lang/tagc/build"
)

var checkCmd = &cobra.Command{
	Use:   "check <entry-file>",
	Short: "lower a module's import graph to HIR and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		if printDiagnostics(result.Modules, maxErrors) {
			os.Exit(1)
		}
		color.New(color.FgGreen).Fprintln(os.Stdout, "ok")
		fmt.Fprintf(os.Stdout, "%d module(s), %d function(s)\n", len(result.Modules), countFunctions(result.Modules))
		return nil
	},
}

func countFunctions(modules []*build.Module) int {
	n := 0
	for _, m := range modules {
		n += len(m.Functions) + 1 // +1 for the module's synthetic init function
	}
	return n
}
