package module

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/internal/interner"
)

func mapReader(files map[string]string) Reader {
	return func(p string) (string, error) {
		src, ok := files[p]
		if !ok {
			return "", errors.New("no such file: " + p)
		}
		return src, nil
	}
}

// TestDiscover_Diamond verifies a diamond-shaped import graph (root imports
// a and b, both of which import c) parses c exactly once and that
// BuildOrder places every file after everything it imports.
func TestDiscover_Diamond(t *testing.T) {
	files := map[string]string{
		"root.tagc": `from "a.tagc" { }` + "\n" + `from "b.tagc" { }` + "\n",
		"a.tagc":    `from "c.tagc" { }` + "\n",
		"b.tagc":    `from "c.tagc" { }` + "\n",
		"c.tagc":    "",
	}

	strs := interner.NewStringInterner()
	graph, err := Discover(context.Background(), "root.tagc", mapReader(files), strs)
	require.NoError(t, err)

	require.Len(t, graph.Files, 4)
	names := make([]string, 0, len(graph.Files))
	for p := range graph.Files {
		names = append(names, p)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a.tagc", "b.tagc", "c.tagc", "root.tagc"}, names)

	order := graph.BuildOrder()
	require.Len(t, order, 4)
	pos := map[string]int{}
	for i, p := range order {
		pos[p] = i
	}
	assert.Less(t, pos["c.tagc"], pos["a.tagc"], "c must build before a, which imports it")
	assert.Less(t, pos["c.tagc"], pos["b.tagc"], "c must build before b, which imports it")
	assert.Less(t, pos["a.tagc"], pos["root.tagc"], "a must build before root, which imports it")
	assert.Less(t, pos["b.tagc"], pos["root.tagc"], "b must build before root, which imports it")
}

// TestDiscover_RelativeImportPath checks that an import path is resolved
// relative to the importing file's own directory, not the discovery root's.
func TestDiscover_RelativeImportPath(t *testing.T) {
	files := map[string]string{
		"pkg/root.tagc": `from "sub/leaf.tagc" { }` + "\n",
		"pkg/sub/leaf.tagc": "",
	}

	strs := interner.NewStringInterner()
	graph, err := Discover(context.Background(), "pkg/root.tagc", mapReader(files), strs)
	require.NoError(t, err)

	require.Contains(t, graph.Files, "pkg/sub/leaf.tagc")
	assert.Equal(t, "pkg/root.tagc", graph.Root)
}

// TestDiscover_MissingImport propagates a Reader error for an import that
// cannot be read, rather than silently dropping it.
func TestDiscover_MissingImport(t *testing.T) {
	files := map[string]string{
		"root.tagc": `from "missing.tagc" { }` + "\n",
	}

	strs := interner.NewStringInterner()
	_, err := Discover(context.Background(), "root.tagc", mapReader(files), strs)
	assert.Error(t, err)
}
