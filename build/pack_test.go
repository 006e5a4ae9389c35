package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

func TestPackFields_SortsByAlignmentDescendingThenNameAscending(t *testing.T) {
	strs := interner.NewStringInterner()
	bName := strs.Intern("b") // i8, alignment 1
	aName := strs.Intern("a") // i64, alignment 8
	cName := strs.Intern("c") // i8, alignment 1

	fields := []types.Field{
		{Name: bName, Type: types.NewPrimitive(types.I8)},
		{Name: aName, Type: types.NewPrimitive(types.I64)},
		{Name: cName, Type: types.NewPrimitive(types.I8)},
	}

	sorted := packFields(fields, strs)
	require.Len(t, sorted, 3)
	assert.Equal(t, aName, sorted[0].Name, "the widest field (i64) sorts first")
	assert.Equal(t, bName, sorted[1].Name, "among equal-alignment fields, name ascending breaks the tie")
	assert.Equal(t, cName, sorted[2].Name)
}

func TestPackFields_DoesNotMutateInput(t *testing.T) {
	strs := interner.NewStringInterner()
	xName := strs.Intern("x")
	yName := strs.Intern("y")
	original := []types.Field{
		{Name: xName, Type: types.NewPrimitive(types.I8)},
		{Name: yName, Type: types.NewPrimitive(types.I64)},
	}

	_ = packFields(original, strs)
	assert.Equal(t, xName, original[0].Name, "packFields must sort a copy, not the caller's slice")
}

func TestFieldAlignment_WidensWithPrimitiveSize(t *testing.T) {
	assert.Equal(t, 1, fieldAlignment(types.NewPrimitive(types.Bool)))
	assert.Equal(t, 4, fieldAlignment(types.NewPrimitive(types.I32)))
	assert.Equal(t, 8, fieldAlignment(types.NewPrimitive(types.I64)))
	assert.Equal(t, 8, fieldAlignment(types.NewPointer(types.PointerMut, types.NewPrimitive(types.I32), types.NewPrimitive(types.I32))), "reference-shaped types share machine-word alignment")
}
