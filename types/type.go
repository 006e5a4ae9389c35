// Package types implements the type lattice of the front-end: the Type
// representation, structural equality and hashing, the assignable and
// equatable relations, and the numeric helpers the arithmetic rules in
// build rely on (spec.md §4.1).
//
// This package has no notion of source position, scopes, or SSA values —
// it is a closed algebra over Type values, the way go/types/predicates.go
// is a closed algebra over *types.Type independent of the rest of go/types.
package types

import (
	"golang.org/x/exp/slices"

	"github.com/tagc-lang/tagc/internal/interner"
)

// Primitive enumerates the non-composite base types.
type Primitive int

const (
	Void Primitive = iota
	Bool
	I8
	I16
	I32
	I64
	ISize
	U8
	U16
	U32
	U64
	USize
	F32
	F64
)

var primitiveNames = map[Primitive]string{
	Void: "void", Bool: "bool",
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", ISize: "isize",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64", USize: "usize",
	F32: "f32", F64: "f64",
}

// PointerKind distinguishes how strongly a pointer may be narrowed and
// reassigned through. Mut pointers may be downgraded to Ref on assignment;
// the reverse is rejected (spec §4.1 rule 3).
type PointerKind int

const (
	PointerMut PointerKind = iota
	PointerRef
	PointerRaw
)

// StructKind discriminates the seven shapes a Struct-category type may
// take (spec §3.2).
type StructKind int

const (
	StructUserDefined StructKind = iota
	StructTagKind
	StructUnionKind
	StructListKind
	StructStringKind
	StructClosureObjectKind
	StructClosureEnvKind
)

// Field is one named, typed member of a UserDefined struct. Field order is
// canonical: it is fixed at construction time by the packer (§4.1 rule 7,
// §4.4.7), never re-sorted later.
type Field struct {
	Name  interner.StringID
	Type  Type
	Align int // alignment used by the packer to compute canonical order
}

// TagType is a single tag variant: a label plus an optional payload type.
type TagType struct {
	ID      interner.TagID
	Payload *Type // nil if the tag carries no payload
}

// Kind is the tagged union discriminant of a Type. Unlike ast's node
// kinds, Type's Kind values are compared structurally (see Identical), so
// every Kind implementation must be built from comparable or
// slice-of-comparable fields and must not embed a Span.
type Kind interface{ kind() }

type (
	KPrimitive struct{ Prim Primitive }
	KPointer   struct {
		Kind       PointerKind
		Constraint *Type
		NarrowedTo *Type
	}
	KFn struct {
		Params []Type
		Return *Type
	}
	KStruct struct {
		Struct StructKind
		// UserDefined
		Fields []Field
		// Tag
		Tag *TagType
		// Union: always kept sorted by TagID ascending (canonicalized,
		// spec §3.2).
		Variants []TagType
		// List
		Item *Type
		// ClosureObject / ClosureEnv
		ClosureFn  *Type
		ClosureEnv *Type
	}
	KUnknown struct{}
)

func (KPrimitive) kind() {}
func (KPointer) kind()   {}
func (KFn) kind()        {}
func (KStruct) kind()    {}
func (KUnknown) kind()   {}

// Type is a tagged-variant type value. Types are small and copied by
// value; Kind holds the only heap-allocated state (slices, pointers to
// nested Types).
type Type struct {
	Kind Kind
}

// Convenience constructors.

func NewPrimitive(p Primitive) Type { return Type{Kind: KPrimitive{Prim: p}} }

var UnknownType = Type{Kind: KUnknown{}}

func NewPointer(kind PointerKind, constraint, narrowedTo Type) Type {
	return Type{Kind: KPointer{Kind: kind, Constraint: &constraint, NarrowedTo: &narrowedTo}}
}

func NewFn(params []Type, ret Type) Type {
	return Type{Kind: KFn{Params: params, Return: &ret}}
}

func NewUserDefined(fields []Field) Type {
	return Type{Kind: KStruct{Struct: StructUserDefined, Fields: fields}}
}

func NewTag(id interner.TagID, payload *Type) Type {
	return Type{Kind: KStruct{Struct: StructTagKind, Tag: &TagType{ID: id, Payload: payload}}}
}

// NewUnion canonicalizes variants by TagID before constructing the type.
// It is exposed directly as well as via UnionOf (the deduplicating,
// nested-union-flattening constructor supplemented from original_source's
// union_of.rs, see SPEC_FULL.md §3).
func NewUnion(variants []TagType) Type {
	sorted := append([]TagType(nil), variants...)
	slices.SortFunc(sorted, func(a, b TagType) int { return int(a.ID) - int(b.ID) })
	return Type{Kind: KStruct{Struct: StructUnionKind, Variants: sorted}}
}

// UnionOf builds a canonical union from a set of member types, flattening
// any nested unions and deduplicating by TagID. A lone tag collapses to a
// plain Tag type rather than a single-variant union.
func UnionOf(members ...Type) Type {
	seen := map[interner.TagID]TagType{}
	order := []interner.TagID{}
	add := func(tt TagType) {
		if _, ok := seen[tt.ID]; !ok {
			order = append(order, tt.ID)
		}
		seen[tt.ID] = tt
	}
	for _, m := range members {
		switch k := m.Kind.(type) {
		case KStruct:
			switch k.Struct {
			case StructTagKind:
				add(*k.Tag)
			case StructUnionKind:
				for _, v := range k.Variants {
					add(v)
				}
			}
		}
	}
	variants := make([]TagType, 0, len(order))
	for _, id := range order {
		variants = append(variants, seen[id])
	}
	if len(variants) == 1 {
		return NewTag(variants[0].ID, variants[0].Payload)
	}
	return NewUnion(variants)
}

func NewList(item Type) Type {
	return Type{Kind: KStruct{Struct: StructListKind, Item: &item}}
}

var StringType = Type{Kind: KStruct{Struct: StructStringKind}}

func NewClosureObject(fn, env Type) Type {
	return Type{Kind: KStruct{Struct: StructClosureObjectKind, ClosureFn: &fn, ClosureEnv: &env}}
}

func NewClosureEnv() Type {
	return Type{Kind: KStruct{Struct: StructClosureEnvKind}}
}

// IsUnknown reports whether t is the poison type.
func (t Type) IsUnknown() bool {
	_, ok := t.Kind.(KUnknown)
	return ok
}

// AsPrimitive reports whether t is a primitive and, if so, which one.
func (t Type) AsPrimitive() (Primitive, bool) {
	if k, ok := t.Kind.(KPrimitive); ok {
		return k.Prim, true
	}
	return 0, false
}

// AsUnion reports whether t is a Union struct and, if so, its variants.
func (t Type) AsUnion() ([]TagType, bool) {
	if k, ok := t.Kind.(KStruct); ok && k.Struct == StructUnionKind {
		return k.Variants, true
	}
	return nil, false
}

// AsTag reports whether t is a single Tag struct.
func (t Type) AsTag() (TagType, bool) {
	if k, ok := t.Kind.(KStruct); ok && k.Struct == StructTagKind {
		return *k.Tag, true
	}
	return TagType{}, false
}

// AsPointer reports whether t is a Pointer and, if so, its components.
func (t Type) AsPointer() (PointerKind, Type, Type, bool) {
	if k, ok := t.Kind.(KPointer); ok {
		return k.Kind, *k.Constraint, *k.NarrowedTo, true
	}
	return 0, Type{}, Type{}, false
}

// AsList reports whether t is a List and, if so, its element type.
func (t Type) AsList() (Type, bool) {
	if k, ok := t.Kind.(KStruct); ok && k.Struct == StructListKind {
		return *k.Item, true
	}
	return Type{}, false
}

// AsUserDefined reports whether t is a UserDefined struct and, if so, its
// fields in canonical order.
func (t Type) AsUserDefined() ([]Field, bool) {
	if k, ok := t.Kind.(KStruct); ok && k.Struct == StructUserDefined {
		return k.Fields, true
	}
	return nil, false
}

// AsFn reports whether t is a function type and, if so, its signature.
func (t Type) AsFn() ([]Type, Type, bool) {
	if k, ok := t.Kind.(KFn); ok {
		return k.Params, *k.Return, true
	}
	return nil, Type{}, false
}

// IsString reports whether t is the String descriptor type.
func (t Type) IsString() bool {
	k, ok := t.Kind.(KStruct)
	return ok && k.Struct == StructStringKind
}
