package hir

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/internal/interner"
)

// Instruction is one non-terminating operation inside a BasicBlock. Every
// instruction defines exactly one ValueID (its Result), mirroring go/ssa's
// "every Instruction is optionally a Value" except here an instruction is
// always also a value — there is no side-effect-only instruction kind in
// this front end (spec §3.4 lists no void instruction).
type Instruction struct {
	Result ValueID
	Type   Type
	Span   ast.Span
	Op     InstructionOp
}

// InstructionOp is the tagged union of instruction payloads.
type InstructionOp interface{ instructionOp() }

type (
	// StackAlloc reserves a stack slot able to hold a value of ElemType;
	// Result is a pointer to that slot.
	StackAlloc struct{ ElemType Type }

	// HeapAlloc reserves heap storage for a struct/union/list/closure
	// value; Result is the HeapAllocationID-tracking pointer.
	HeapAlloc struct {
		ElemType Type
		Alloc    HeapAllocationID
	}

	// Load reads the current value out of a pointer.
	Load struct{ Ptr ValueID }

	// Store writes Value through Ptr. Store has no useful Result value
	// (its Result is a fresh Void-typed value); it is
	// still modeled as an Instruction, not a Terminator, since control
	// flow does not change.
	Store struct {
		Ptr   ValueID
		Value ValueID
	}

	// GetFieldPtr computes the address of a named field within a
	// UserDefined struct pointed to by Base, per the struct's canonical
	// field order (spec §4.1 rule 7).
	GetFieldPtr struct {
		Base      ValueID
		FieldName string
		FieldIdx  int
	}

	// GetElementPtr computes the address of Index within a list pointed
	// to by Base. It performs no bounds check and none is emitted before
	// it; bounds-checked reads use CheckedIndex instead.
	GetElementPtr struct {
		Base  ValueID
		Index ValueID
	}

	// UnaryOp applies a unary operator to Operand.
	UnaryOpInstr struct {
		Op      ast.UnaryOp
		Operand ValueID
	}

	// BinaryOp applies a binary operator to Left and Right. && and ||
	// never reach this instruction: they are lowered as control flow
	// (spec §4.4.4) before an instruction would be emitted.
	BinaryOpInstr struct {
		Op          ast.BinaryOp
		Left, Right ValueID
	}

	// TypeCast reinterprets Operand as To, after the checker has already
	// confirmed the cast is between compatible representations (spec
	// §4.1 rule 9 covers the allowed source/target pairs).
	TypeCast struct {
		Operand ValueID
		To      Type
	}

	// FunctionCall invokes Callee (either a known FunctionID or a
	// first-class function/closure value) with Args.
	FunctionCall struct {
		Callee   Callee
		Args     []ValueID
		ClosureEnv ValueID // zero ValueID (unused) unless Callee is a closure value
	}

	// LoadConstant materializes a literal (number, bool, string, null,
	// void) as a value.
	LoadConstant struct{ Const ConstantID }

	// IsTypeCheck implements the `is` operator: it tests whether Value's
	// runtime tag is one of Tags, the tag set the annotation on the
	// right-hand side of `is` resolved to.
	IsTypeCheck struct {
		Value ValueID
		Tags  []interner.TagID
	}

	// CheckedIndex implements list indexing as a single bounds-checked
	// operation rather than prescribing the branch a backend would use to
	// implement it (spec names this out of scope here): its Result type
	// is always the #Ok(item) | #OutOfBounds union, OkTag/OutOfBoundsTag
	// naming the two variants so later stages don't need to re-derive
	// them from string literals.
	CheckedIndex struct {
		List           ValueID
		Index          ValueID
		OkTag          interner.TagID
		OutOfBoundsTag interner.TagID
	}

	// ListLength reads a list's current element count.
	ListLength struct{ List ValueID }

	// AppendListItem appends Item to List in place, used to materialize a
	// list literal's elements after its backing storage is allocated.
	AppendListItem struct {
		List ValueID
		Item ValueID
	}

	// Nop is a deliberate no-op placeholder; it carries no semantic
	// weight. No lowering in package build emits it.
	Nop struct{}
)

func (StackAlloc) instructionOp()    {}
func (HeapAlloc) instructionOp()     {}
func (Load) instructionOp()          {}
func (Store) instructionOp()         {}
func (GetFieldPtr) instructionOp()   {}
func (GetElementPtr) instructionOp() {}
func (UnaryOpInstr) instructionOp()  {}
func (BinaryOpInstr) instructionOp() {}
func (TypeCast) instructionOp()      {}
func (FunctionCall) instructionOp()  {}
func (LoadConstant) instructionOp()  {}
func (IsTypeCheck) instructionOp()   {}
func (CheckedIndex) instructionOp()  {}
func (ListLength) instructionOp()     {}
func (AppendListItem) instructionOp() {}
func (Nop) instructionOp()           {}

// Callee is the tagged union of what a FunctionCall may invoke.
type Callee interface{ callee() }

type (
	// DirectCallee invokes a statically known function.
	DirectCallee struct{ Fn FunctionID }
	// ValueCallee invokes a first-class function value (a closure object
	// or bare function pointer) computed at runtime.
	ValueCallee struct{ Value ValueID }
)

func (DirectCallee) callee() {}
func (ValueCallee) callee()  {}

// Terminator is the tagged union of how a BasicBlock ends control flow.
type Terminator interface{ terminator() }

type (
	// Jump transfers control unconditionally to Target, passing Args as
	// that block's incoming parameter values.
	Jump struct {
		Target BasicBlockID
		Args   []ValueID
	}

	// CondJump transfers control to TrueTarget or FalseTarget depending
	// on Cond, each with its own argument list (so narrowing can hand
	// different narrowed values down each edge, spec §4.4.3).
	CondJump struct {
		Cond        ValueID
		TrueTarget  BasicBlockID
		TrueArgs    []ValueID
		FalseTarget BasicBlockID
		FalseArgs   []ValueID
	}

	// Return exits the function, optionally with a value (nil Value
	// means a bare `return;` of Void).
	Return struct{ Value *ValueID }

	// Unreachable marks a block that control can never reach (e.g. a
	// code path statically eliminated by narrowing), matching go/ssa's
	// Panic-on-unreachable philosophy but without panicking: it is a
	// legitimate terminator shape, not an error.
	Unreachable struct{}
)

func (Jump) terminator()     {}
func (CondJump) terminator() {}
func (Return) terminator()      {}
func (Unreachable) terminator() {}
