package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/tagc-lang/tagc/build"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	pathColor  = color.New(color.FgCyan)
)

// printDiagnostics renders every module's accumulated diagnostics to
// stderr, capped at maxErrors total, and reports whether anything was
// printed at all.
func printDiagnostics(modules []*build.Module, maxErrors int) bool {
	printed := 0
	any := false
	for _, mod := range modules {
		for _, d := range mod.Bag.All() {
			any = true
			if printed >= maxErrors {
				continue
			}
			printed++
			fmt.Fprintf(os.Stderr, "%s %s: %s\n",
				pathColor.Sprintf("%s:%s", mod.Path, d.Span.String()),
				errorColor.Sprint("error"),
				d.Kind.Message(),
			)
		}
	}
	if any && printed < countDiagnostics(modules) {
		fmt.Fprintf(os.Stderr, "(%d more diagnostics suppressed, see --max-errors)\n", countDiagnostics(modules)-printed)
	}
	return any
}

func countDiagnostics(modules []*build.Module) int {
	n := 0
	for _, mod := range modules {
		n += mod.Bag.Len()
	}
	return n
}
