// Package module discovers and parses the transitive closure of a
// compilation's source files: it reads the entry module, follows every
// `from "path" { ... }` statement to the file it names, and parses the
// whole reachable set concurrently with golang.org/x/sync/errgroup (spec
// §5, §6.2). Parsing itself is out of scope for the semantic core (package
// token's minimal recursive-descent parser exists only to drive it); this
// package's own job is purely graph discovery, deduplication, and ordering
// — turning a set of files with cross-references into the dependency-first
// sequence build.ProgramBuilder.BuildModule must see them in.
package module

import (
	"context"
	"fmt"
	"path"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/token"
)

// Reader loads the source text for a canonical module path. Production
// callers back this with os.ReadFile; tests back it with an in-memory map
// (see discover_test.go).
type Reader func(canonicalPath string) (string, error)

// File is one parsed source file plus the canonical paths of every module
// it imports, deduplicated.
type File struct {
	Path    string
	Stmts   []ast.Stmt
	Imports []string
}

// Graph is the result of a discovery walk: every reachable file, keyed by
// its canonical path.
type Graph struct {
	Root  string
	Files map[string]*File
}

// canonicalize resolves importPath relative to the directory of
// fromPath, the same rule build.canonicalizeImportPath applies so the two
// packages agree on what counts as "the same module" (spec §5). The root
// module's own path never goes through this function — Discover takes it
// as already canonical, since there is no importer to resolve it against.
func canonicalize(fromPath, importPath string) string {
	return path.Clean(path.Join(path.Dir(fromPath), importPath))
}

// Discover walks the import graph starting at rootPath, reading and
// parsing every reachable file concurrently. Files are deduplicated by
// canonical path, so a diamond-shaped import (two files both importing a
// third) parses that third file exactly once. strs is shared across every
// parsed file, the one StringInterner the resulting Program uses (spec
// §3.5, §5: "identical identifier text anywhere in the compilation gets
// one StringID").
func Discover(ctx context.Context, rootPath string, read Reader, strs *interner.StringInterner) (*Graph, error) {
	root := path.Clean(rootPath)

	var mu sync.Mutex
	files := map[string]*File{}
	launched := map[string]bool{}

	eg, ctx := errgroup.WithContext(ctx)

	var launch func(p string)
	launch = func(p string) {
		mu.Lock()
		if launched[p] {
			mu.Unlock()
			return
		}
		launched[p] = true
		mu.Unlock()

		eg.Go(func() error {
			src, err := read(p)
			if err != nil {
				return fmt.Errorf("reading module %q: %w", p, err)
			}
			stmts := token.NewParser(src, strs).ParseModule()

			imports := importPathsOf(p, stmts)

			mu.Lock()
			files[p] = &File{Path: p, Stmts: stmts, Imports: imports}
			mu.Unlock()

			for _, imp := range imports {
				launch(imp)
			}
			return nil
		})
	}

	launch(root)
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Graph{Root: root, Files: files}, nil
}

// importPathsOf collects the canonicalized, deduplicated set of paths
// fromPath's top-level From statements name, in file order.
func importPathsOf(fromPath string, stmts []ast.Stmt) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range stmts {
		k, ok := s.Kind.(ast.StFrom)
		if !ok {
			continue
		}
		canon := canonicalize(fromPath, k.Path)
		if seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, canon)
	}
	return out
}

// BuildOrder topologically sorts g's files so that every file appears
// after all of its imports (a reverse postorder DFS, same technique
// go/packages uses to order a build list). A cycle breaks the recursion at
// the repeated node rather than looping forever; the resulting order is
// still complete, just not import-complete for the modules on the cycle.
// An import cycle is not reported as an error.
func (g *Graph) BuildOrder() []string {
	var order []string
	visited := map[string]bool{}
	onStack := map[string]bool{}

	var visit func(p string)
	visit = func(p string) {
		if visited[p] || onStack[p] {
			return
		}
		onStack[p] = true
		f, ok := g.Files[p]
		if ok {
			for _, imp := range f.Imports {
				visit(imp)
			}
		}
		onStack[p] = false
		visited[p] = true
		order = append(order, p)
	}

	// Every file in g.Files was reached by following imports out from
	// Root (Discover never adds a file any other way), so a single DFS
	// from Root visits them all; starting here instead of ranging over
	// the map keeps the resulting order deterministic across runs.
	visit(g.Root)
	return order
}
