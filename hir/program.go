package hir

import (
	"reflect"

	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

// Constant is an interned literal value, deduplicated by (Kind, Type)
// across an entire Program the same way StringID/TagID deduplicate names
// (spec §3.5): two occurrences of the number literal 0 with the same type
// share one ConstantID.
type Constant struct {
	Kind ConstantKind
	Type Type
}

// ConstantKind is the tagged union of literal shapes a ConstantID may
// name.
type ConstantKind interface{ constantKind() }

type (
	ConstInt    struct{ Value int64 }
	ConstUint   struct{ Value uint64 }
	ConstFloat  struct{ Value float64 }
	ConstBool   struct{ Value bool }
	ConstString struct{ Value interner.StringID }
	ConstNull   struct{}
	ConstVoid   struct{}
)

func (ConstInt) constantKind()    {}
func (ConstUint) constantKind()   {}
func (ConstFloat) constantKind()  {}
func (ConstBool) constantKind()   {}
func (ConstString) constantKind() {}
func (ConstNull) constantKind()   {}
func (ConstVoid) constantKind()   {}

// HeapAllocation records the element type of one heap-allocated object,
// addressed by HeapAllocationID; the allocator itself (arena vs individual
// allocation) is a backend concern out of scope here (spec §1).
type HeapAllocation struct {
	ElemType Type
}

// Program is the top-level owner of every interned table and every lowered
// function across all modules of a compilation, mirroring go/ssa's
// Program: the one place a FunctionID, ConstantID, or HeapAllocationID can
// be dereferenced back into its definition.
type Program struct {
	Strings *interner.StringInterner
	Tags    *interner.TagInterner

	functions   []*Function
	constants   []Constant
	constBuckets map[uint64][]ConstantID
	allocations []HeapAllocation

	// ValueTypes records, per function, the declared Type of every
	// ValueID it defines — the single source of truth queried by
	// diagnostics and by later stages instead of re-deriving a value's
	// type from its defining instruction (spec §3.5).
	valueTypes map[FunctionID]map[ValueID]Type
}

// NewProgram creates an empty Program sharing the given interners (callers
// typically share one pair of interners across every module of a build, so
// identical identifier text anywhere in the compilation gets one StringID).
func NewProgram(strs *interner.StringInterner, tags *interner.TagInterner) *Program {
	return &Program{
		Strings:      strs,
		Tags:         tags,
		constBuckets: make(map[uint64][]ConstantID),
		valueTypes:   make(map[FunctionID]map[ValueID]Type),
	}
}

// InternConstant returns the ConstantID for (kind, typ), creating one if
// this exact (kind, typ) pair has not been seen before. Dedup keys on a
// structural hash of typ plus a deep-equal of kind (a ConstantKind's
// payload is always a plain comparable-by-value literal, but the hash
// bucket may still collide across distinct kinds, so every candidate in
// the bucket is checked before minting a new id).
func (p *Program) InternConstant(kind ConstantKind, typ Type) ConstantID {
	h := types.Hash(typ)
	for _, id := range p.constBuckets[h] {
		existing := p.constants[id]
		if reflect.DeepEqual(existing.Kind, kind) && types.Identical(existing.Type, typ) {
			return id
		}
	}
	id := ConstantID(len(p.constants))
	p.constants = append(p.constants, Constant{Kind: kind, Type: typ})
	p.constBuckets[h] = append(p.constBuckets[h], id)
	return id
}

// Constant looks up a previously interned constant by id.
func (p *Program) Constant(id ConstantID) Constant {
	if int(id) < 0 || int(id) >= len(p.constants) {
		panic("INTERNAL COMPILER ERROR: unknown ConstantID")
	}
	return p.constants[id]
}

// NewHeapAllocation records a new heap allocation site and returns its id.
func (p *Program) NewHeapAllocation(elem Type) HeapAllocationID {
	id := HeapAllocationID(len(p.allocations))
	p.allocations = append(p.allocations, HeapAllocation{ElemType: elem})
	return id
}

// AddFunction registers fn with the program and assigns it the next
// FunctionID (fn.ID must already equal that id; callers allocate ids via
// NextFunctionID before constructing the Function so forward references
// within a module can be recorded during the placeholder pass).
func (p *Program) AddFunction(fn *Function) {
	if int(fn.ID) != len(p.functions) {
		panic("INTERNAL COMPILER ERROR: function registered out of order")
	}
	p.functions = append(p.functions, fn)
	p.valueTypes[fn.ID] = make(map[ValueID]Type)
}

// NextFunctionID previews the id AddFunction will assign to the next
// registered function, without registering anything.
func (p *Program) NextFunctionID() FunctionID {
	return FunctionID(len(p.functions))
}

// Function looks up a previously registered function by id.
func (p *Program) Function(id FunctionID) *Function {
	if int(id) < 0 || int(id) >= len(p.functions) {
		panic("INTERNAL COMPILER ERROR: unknown FunctionID")
	}
	return p.functions[id]
}

// Functions returns every registered function, in registration order.
func (p *Program) Functions() []*Function {
	return p.functions
}

// SetValueType records the type of value id within function fn. Every SSA
// value is typed exactly once, at the point it is defined (spec §3.1); a
// second call for the same (fn, id) is an internal invariant violation.
func (p *Program) SetValueType(fn FunctionID, id ValueID, t Type) {
	m := p.valueTypes[fn]
	if _, exists := m[id]; exists {
		panic("INTERNAL COMPILER ERROR: value type set twice")
	}
	m[id] = t
}

// ValueType looks up the type of a previously typed value.
func (p *Program) ValueType(fn FunctionID, id ValueID) Type {
	t, ok := p.valueTypes[fn][id]
	if !ok {
		panic("INTERNAL COMPILER ERROR: value has no recorded type")
	}
	return t
}
