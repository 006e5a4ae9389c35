package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tagc-lang/tagc/build"
	"github.com/tagc-lang/tagc/hir"
)

var dumpHIRCmd = &cobra.Command{
	Use:   "dump-hir <entry-file>",
	Short: "lower a module's import graph to HIR and print its text form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		if printDiagnostics(result.Modules, maxErrors) {
			os.Exit(1)
		}
		for _, mod := range result.Modules {
			dumpModule(os.Stdout, result.Prog, mod)
		}
		return nil
	},
}

func dumpModule(w *os.File, prog *hir.Program, mod *build.Module) {
	fmt.Fprintf(w, "// module %s\n", mod.Path)

	var buf bytes.Buffer
	hir.WriteFunction(&buf, prog, mod.InitFn)
	w.Write(buf.Bytes())

	for _, id := range mod.Functions {
		buf.Reset()
		hir.WriteFunction(&buf, prog, prog.Function(id))
		w.Write(buf.Bytes())
	}
	fmt.Fprintln(w)
}
