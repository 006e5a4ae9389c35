// Package hir defines the typed, SSA-form control-flow-graph data model
// lowering produces (spec.md §3.4): basic blocks, instructions, a
// terminator per block, and the Function/Program containers that own them.
//
// This package is pure data plus the small set of well-formedness checks in
// sanity.go; the algorithm that builds this data incrementally (on-the-fly
// SSA construction, block sealing, variable read/write) lives in package
// build, the way go/ssa splits Function's static shape (func.go) from the
// construction algorithm (builder.go).
package hir

import "github.com/tagc-lang/tagc/types"

// ValueID, BasicBlockID, FunctionID, ConstantID, and HeapAllocationID are
// dense, opaque, copyable, hashable integer handles (spec §3.1), scoped to
// their owning Function (ValueID, BasicBlockID) or Program (the rest).
type (
	ValueID          int32
	BasicBlockID     int32
	FunctionID       int32
	ConstantID       int32
	HeapAllocationID int32
	DeclarationID    int32
)

// BasicBlock is a maximal straight-line sequence of instructions ending in
// at most one terminator (exactly one, once finalized).
type BasicBlock struct {
	ID           BasicBlockID
	Params       []ValueID
	Instrs       []Instruction
	Terminator   Terminator // nil until installed
	Predecessors []BasicBlockID
}

// HasTerminator reports whether b has been finalized with a terminator.
func (b *BasicBlock) HasTerminator() bool { return b.Terminator != nil }

// Function owns one CFG: its blocks, keyed by BasicBlockID in Blocks,
// plus metadata needed by callers outside the CFG itself (parameter
// storage slots, declared signature).
type Function struct {
	ID         FunctionID
	Name       string // for debugging/printing only; never used for lookup
	Params     []Type // parameter types, in declaration order
	ReturnType Type

	Blocks      map[BasicBlockID]*BasicBlock
	EntryBlock  BasicBlockID
	blockOrder  []BasicBlockID // insertion order, for deterministic printing
	nextBlockID BasicBlockID
	nextValueID ValueID
}

// Type is an alias so hir call sites don't need to import types directly
// just to spell out the field type in struct literals throughout this
// package; it is exactly types.Type.
type Type = types.Type

// NewFunction allocates an empty function shell (no blocks yet).
func NewFunction(id FunctionID, name string, params []Type, ret Type) *Function {
	return &Function{
		ID:         id,
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Blocks:     make(map[BasicBlockID]*BasicBlock),
	}
}

// NewBlock allocates a fresh, empty basic block and adds it to f.
func (f *Function) NewBlock() *BasicBlock {
	id := f.nextBlockID
	f.nextBlockID++
	b := &BasicBlock{ID: id}
	f.Blocks[id] = b
	f.blockOrder = append(f.blockOrder, id)
	return b
}

// Block looks up a block by id, panicking if it does not exist — a
// mismatched BasicBlockID is always an internal invariant violation, never
// a user-facing condition.
func (f *Function) Block(id BasicBlockID) *BasicBlock {
	b, ok := f.Blocks[id]
	if !ok {
		panic("INTERNAL COMPILER ERROR: unknown BasicBlockID")
	}
	return b
}

// BlockOrder returns block ids in creation order, for deterministic
// iteration (printing, verification, tests).
func (f *Function) BlockOrder() []BasicBlockID {
	return f.blockOrder
}

// nextValue allocates a fresh ValueID scoped to f.
func (f *Function) nextValue() ValueID {
	id := f.nextValueID
	f.nextValueID++
	return id
}
