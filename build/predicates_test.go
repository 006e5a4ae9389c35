package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

func TestUnionSubtract_RemovesSingleTag(t *testing.T) {
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")
	errTag := tags.Intern("Err")
	variants := []types.TagType{{ID: okTag}, {ID: errTag}}

	got := unionSubtract(variants, types.NewTag(okTag, nil))
	_, isTag := got.AsTag()
	require.True(t, isTag, "subtracting one of two variants collapses the remainder to a plain Tag")
	remaining, _ := got.AsTag()
	assert.Equal(t, errTag, remaining.ID)
}

func TestUnionSubtract_RemovesEveryNamedVariantOfAUnionTarget(t *testing.T) {
	tags := interner.NewTagInterner()
	a := tags.Intern("A")
	b := tags.Intern("B")
	c := tags.Intern("C")
	variants := []types.TagType{{ID: a}, {ID: b}, {ID: c}}

	target := types.NewUnion([]types.TagType{{ID: a}, {ID: b}})
	got := unionSubtract(variants, target)
	remaining, ok := got.AsTag()
	require.True(t, ok)
	assert.Equal(t, c, remaining.ID)
}

func TestUnionSubtract_SubtractingEverythingYieldsEmptyUnion(t *testing.T) {
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")
	variants := []types.TagType{{ID: okTag}}

	got := unionSubtract(variants, types.NewTag(okTag, nil))
	remaining, ok := got.AsUnion()
	require.True(t, ok, "UnionOf with zero surviving members still returns a (empty) Union, not Unknown")
	assert.Empty(t, remaining)
}
