package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tagc-lang/tagc/internal/interner"
)

func TestIdentical_Reflexive(t *testing.T) {
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")

	cases := []Type{
		NewPrimitive(I32),
		UnknownType,
		NewPointer(PointerMut, NewPrimitive(I32), NewPrimitive(I32)),
		NewFn([]Type{NewPrimitive(I32)}, NewPrimitive(Bool)),
		NewTag(okTag, nil),
		NewList(NewPrimitive(U8)),
		StringType,
		NewClosureObject(NewFn(nil, NewPrimitive(Void)), NewClosureEnv()),
	}
	for _, c := range cases {
		assert.True(t, Identical(c, c))
	}
}

func TestIdentical_DiscriminantMismatch(t *testing.T) {
	assert.False(t, Identical(NewPrimitive(I32), NewPrimitive(I64)))
	assert.False(t, Identical(NewPrimitive(I32), StringType))
	assert.False(t, Identical(UnknownType, NewPrimitive(I32)))
	assert.False(t, Identical(NewPrimitive(I32), UnknownType))
}

func TestIdentical_UnionIsOrderIndependentAfterCanonicalization(t *testing.T) {
	tags := interner.NewTagInterner()
	a := tags.Intern("A")
	b := tags.Intern("B")

	u1 := NewUnion([]TagType{{ID: a}, {ID: b}})
	u2 := NewUnion([]TagType{{ID: b}, {ID: a}})
	assert.True(t, Identical(u1, u2), "NewUnion sorts variants by TagID, so insertion order must not matter")
}

func TestHash_CongruentWithIdentical(t *testing.T) {
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")
	errTag := tags.Intern("Err")

	a := NewUnion([]TagType{{ID: okTag}, {ID: errTag}})
	b := NewUnion([]TagType{{ID: errTag}, {ID: okTag}})
	assert.True(t, Identical(a, b))
	assert.Equal(t, Hash(a), Hash(b), "Identical types must hash identically")

	assert.False(t, Identical(a, NewPrimitive(I64)))
}

func TestUnionOf_FlattensAndDedupsAndCollapsesSingleton(t *testing.T) {
	tags := interner.NewTagInterner()
	a := tags.Intern("A")
	b := tags.Intern("B")

	nested := NewUnion([]TagType{{ID: a}, {ID: b}})
	flat := UnionOf(nested, NewTag(a, nil))
	variants, ok := flat.AsUnion()
	assert.True(t, ok)
	assert.Len(t, variants, 2, "duplicate A from the nested union and the bare tag must collapse to one")

	single := UnionOf(NewTag(a, nil))
	_, isTag := single.AsTag()
	assert.True(t, isTag, "a one-member union must collapse to a plain Tag, not a Union of one")
}

func TestAssignable_UnknownAbsorbs(t *testing.T) {
	assert.True(t, Assignable(UnknownType, NewPrimitive(I32)))
	assert.True(t, Assignable(NewPrimitive(I32), UnknownType))
}

func TestAssignable_PrimitiveRequiresExactMatch(t *testing.T) {
	assert.True(t, Assignable(NewPrimitive(I32), NewPrimitive(I32)))
	assert.False(t, Assignable(NewPrimitive(I32), NewPrimitive(I64)), "no implicit widening between distinct primitives")
}

func TestAssignable_PointerMutDowngradesToRefNotReverse(t *testing.T) {
	mutP := NewPointer(PointerMut, NewPrimitive(I32), NewPrimitive(I32))
	refP := NewPointer(PointerRef, NewPrimitive(I32), NewPrimitive(I32))
	assert.True(t, Assignable(mutP, refP), "mut pointer may be assigned where a ref pointer is expected")
	assert.False(t, Assignable(refP, mutP), "a ref pointer may not be assigned where a mut pointer is expected")
}

func TestAssignable_TagToUnion(t *testing.T) {
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")
	errTag := tags.Intern("Err")
	u := NewUnion([]TagType{{ID: okTag}, {ID: errTag}})

	assert.True(t, Assignable(NewTag(okTag, nil), u))
	unrelated := tags.Intern("Other")
	assert.False(t, Assignable(NewTag(unrelated, nil), u))
}

func TestAssignable_UnionToUnionIsMultisetInclusion(t *testing.T) {
	tags := interner.NewTagInterner()
	a := tags.Intern("A")
	b := tags.Intern("B")
	c := tags.Intern("C")

	narrow := NewUnion([]TagType{{ID: a}, {ID: b}})
	wide := NewUnion([]TagType{{ID: a}, {ID: b}, {ID: c}})
	assert.True(t, Assignable(narrow, wide), "every variant of the narrower union is present in the wider one")
	assert.False(t, Assignable(wide, narrow), "C has no home in the narrower union")
}

func TestAssignable_UserDefinedRequiresSameFieldsInOrder(t *testing.T) {
	strs := interner.NewStringInterner()
	xName := strs.Intern("x")
	yName := strs.Intern("y")

	a := NewUserDefined([]Field{{Name: xName, Type: NewPrimitive(I32)}, {Name: yName, Type: NewPrimitive(I32)}})
	b := NewUserDefined([]Field{{Name: yName, Type: NewPrimitive(I32)}, {Name: xName, Type: NewPrimitive(I32)}})
	assert.False(t, Assignable(a, b), "field order is canonical and part of the comparison")

	c := NewUserDefined([]Field{{Name: xName, Type: NewPrimitive(I32)}, {Name: yName, Type: NewPrimitive(I32)}})
	assert.True(t, Assignable(a, c))
}

func TestAssignable_FunctionTypeIsInvariantBothWays(t *testing.T) {
	f1 := NewFn([]Type{NewPrimitive(I32)}, NewPrimitive(Bool))
	f2 := NewFn([]Type{NewPrimitive(I64)}, NewPrimitive(Bool))
	assert.False(t, Assignable(f1, f2), "parameter types are compared invariantly, not contravariantly")

	f3 := NewFn([]Type{NewPrimitive(I32)}, NewPrimitive(Bool))
	assert.True(t, Assignable(f1, f3))
}

func TestEquatable_IntegerFamiliesCrossSignedness(t *testing.T) {
	assert.True(t, Equatable(NewPrimitive(I32), NewPrimitive(U32)), "both integers, even across signedness")
	assert.False(t, Equatable(NewPrimitive(I32), NewPrimitive(F32)), "an integer and a float are not equatable")
	assert.True(t, Equatable(NewPrimitive(Bool), NewPrimitive(Bool)))
}

func TestEquatable_TagAgainstUnion(t *testing.T) {
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")
	errTag := tags.Intern("Err")
	u := NewUnion([]TagType{{ID: okTag}, {ID: errTag}})

	assert.True(t, Equatable(NewTag(okTag, nil), u))
	other := tags.Intern("Other")
	assert.False(t, Equatable(NewTag(other, nil), u))
}

func TestNumericRank_OrdersWidthsAndFloatsAboveInts(t *testing.T) {
	assert.Less(t, NumericRank(I8), NumericRank(I32))
	assert.Less(t, NumericRank(I64), NumericRank(F32))
	assert.Less(t, NumericRank(F32), NumericRank(F64))
	assert.Equal(t, 0, NumericRank(Bool), "Bool does not participate in numeric widening")
}

func TestIsSigned_FloatsAreSigned(t *testing.T) {
	assert.True(t, IsSigned(F32))
	assert.True(t, IsSigned(I8))
	assert.False(t, IsSigned(U8))
}

func TestString_RendersCompositeTypes(t *testing.T) {
	strs := interner.NewStringInterner()
	tags := interner.NewTagInterner()
	okTag := tags.Intern("Ok")

	got := String(NewList(NewTag(okTag, nil)), strs, tags)
	assert.Equal(t, "[#Ok]", got)

	fn := NewFn([]Type{NewPrimitive(I32), NewPrimitive(Bool)}, StringType)
	assert.Equal(t, "fn(i32, bool): string", String(fn, strs, tags))
}
