package build

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

func TestUnifyTypes_IdenticalIncomingUnifiesTrivially(t *testing.T) {
	i32 := types.NewPrimitive(types.I32)
	got, ok := UnifyTypes([]types.Type{i32, i32, i32})
	assert.True(t, ok)
	assert.True(t, types.Identical(got, i32))
}

func TestUnifyTypes_TagsUnifyToCanonicalUnion(t *testing.T) {
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")
	errTag := tags.Intern("Err")

	got, ok := UnifyTypes([]types.Type{types.NewTag(okTag, nil), types.NewTag(errTag, nil)})
	assert.True(t, ok)
	variants, isUnion := got.AsUnion()
	assert.True(t, isUnion)
	assert.Len(t, variants, 2)
}

func TestUnifyTypes_UnknownMembersAreIgnoredAmongTags(t *testing.T) {
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")

	got, ok := UnifyTypes([]types.Type{types.NewTag(okTag, nil), types.UnknownType})
	assert.True(t, ok)
	_, isTag := got.AsTag()
	assert.True(t, isTag, "a single non-unknown tag among otherwise-unknown members collapses to a plain Tag")
}

func TestUnifyTypes_IncompatiblePrimitivesFail(t *testing.T) {
	_, ok := UnifyTypes([]types.Type{types.NewPrimitive(types.I32), types.NewPrimitive(types.Bool)})
	assert.False(t, ok)
}

func TestUnifyTypes_EmptyIncomingFails(t *testing.T) {
	_, ok := UnifyTypes(nil)
	assert.False(t, ok)
}
