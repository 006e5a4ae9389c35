package main

import (
	"context"
	"os"

	"github.com/tagc-lang/tagc/build"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/module"
)

// loadResult is everything a subcommand needs out of a full discover+build
// pass: the shared Program every module's HIR was lowered into, the
// per-module build results (for exports/diagnostics), kept in build order
// (so dump-hir can print modules in a stable, dependency-first sequence).
type loadResult struct {
	Prog    *hir.Program
	Modules []*build.Module // in graph.BuildOrder() order (dependency-first)
}

func loadProgram(rootPath string) (*loadResult, error) {
	strs := interner.NewStringInterner()
	tags := interner.NewTagInterner()

	graph, err := module.Discover(context.Background(), rootPath, readFile, strs)
	if err != nil {
		return nil, err
	}

	prog := hir.NewProgram(strs, tags)
	pb := build.NewProgramBuilder(prog)

	var built []*build.Module
	for _, p := range graph.BuildOrder() {
		f := graph.Files[p]
		built = append(built, pb.BuildModule(f.Path, f.Stmts))
	}

	return &loadResult{Prog: prog, Modules: built}, nil
}

func readFile(p string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
