package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

func newTestBuilder(t *testing.T) (*FunctionBuilder, *hir.Program) {
	t.Helper()
	strs := interner.NewStringInterner()
	tags := interner.NewTagInterner()
	prog := hir.NewProgram(strs, tags)
	i32 := types.NewPrimitive(types.I32)
	fn := hir.NewFunction(prog.NextFunctionID(), "f", nil, i32)
	prog.AddFunction(fn)
	return NewFunctionBuilder(prog, fn, &diag.Bag{}), prog
}

// TestFunctionBuilder_StraightLineReadsLastWrite exercises the simplest
// case: within a single sealed block, a read returns whatever was last
// written, no block parameter involved.
func TestFunctionBuilder_StraightLineReadsLastWrite(t *testing.T) {
	b, prog := newTestBuilder(t)
	entry := b.NewBasicBlock()
	b.Fn.EntryBlock = entry
	b.UseBasicBlock(entry)
	b.SealBlock(entry)

	i32 := types.NewPrimitive(types.I32)
	v := &hir.Var{Name: "x", Constraint: i32, Storage: hir.StackSlot{}}

	first := b.AllocValue(i32)
	b.WriteVariable(v, first)
	assert.Equal(t, first, b.ReadVariable(v))

	second := b.AllocValue(i32)
	b.WriteVariable(v, second)
	assert.Equal(t, second, b.ReadVariable(v), "a later write in the same block shadows the earlier one")

	_ = prog
}

// TestFunctionBuilder_DiamondMergeInsertsBlockParam builds:
//
//	entry: write x = a; condjump -> (then, else)
//	then:  write x = b; jump -> merge
//	else:  write x = c; jump -> merge
//	merge: read x
//
// and checks that reading x in merge, after both predecessors are sealed,
// resolves to a fresh block parameter fed by b and c along the two edges —
// the textbook phi-insertion case the Braun et al. algorithm exists for.
func TestFunctionBuilder_DiamondMergeInsertsBlockParam(t *testing.T) {
	b, prog := newTestBuilder(t)
	i32 := types.NewPrimitive(types.I32)
	v := &hir.Var{Name: "x", Constraint: i32, Storage: hir.StackSlot{}}

	entry := b.NewBasicBlock()
	thenB := b.NewBasicBlock()
	elseB := b.NewBasicBlock()
	merge := b.NewBasicBlock()
	b.Fn.EntryBlock = entry

	b.UseBasicBlock(entry)
	b.SealBlock(entry)
	aVal := b.AllocValue(i32)
	b.WriteVariable(v, aVal)
	cond := b.AllocValue(types.NewPrimitive(types.Bool))
	b.SetTerminator(hir.CondJump{Cond: cond, TrueTarget: thenB, FalseTarget: elseB})

	b.UseBasicBlock(thenB)
	b.SealBlock(thenB)
	bVal := b.AllocValue(i32)
	b.WriteVariable(v, bVal)
	b.SetTerminator(hir.Jump{Target: merge})

	b.UseBasicBlock(elseB)
	b.SealBlock(elseB)
	cVal := b.AllocValue(i32)
	b.WriteVariable(v, cVal)
	b.SetTerminator(hir.Jump{Target: merge})

	b.UseBasicBlock(merge)
	b.SealBlock(merge)
	got := b.ReadVariable(v)
	b.SetTerminator(hir.Return{Value: &got})
	b.Finish()

	mergeBlock := b.Fn.Block(merge)
	require.Contains(t, mergeBlock.Params, got, "reading a variable merged from two predecessors must produce a new block parameter")

	thenTerm := b.Fn.Block(thenB).Terminator.(hir.Jump)
	elseTerm := b.Fn.Block(elseB).Terminator.(hir.Jump)
	require.Len(t, thenTerm.Args, 1)
	require.Len(t, elseTerm.Args, 1)
	assert.Equal(t, bVal, thenTerm.Args[0], "then-branch edge must feed b's value into the merge parameter")
	assert.Equal(t, cVal, elseTerm.Args[0], "else-branch edge must feed c's value into the merge parameter")

	require.NoError(t, hir.Verify(b.Fn))
	_ = prog
}

// TestFunctionBuilder_SinglePredecessorSkipsBlockParam checks the
// degenerate one-predecessor case: a read from a sealed block whose
// single predecessor already wrote the variable should resolve directly
// to that write, without allocating a block parameter
// (readVariableRecursive's len(preds) == 1 fast path).
func TestFunctionBuilder_SinglePredecessorSkipsBlockParam(t *testing.T) {
	b, _ := newTestBuilder(t)
	i32 := types.NewPrimitive(types.I32)
	v := &hir.Var{Name: "x", Constraint: i32, Storage: hir.StackSlot{}}

	entry := b.NewBasicBlock()
	body := b.NewBasicBlock()
	b.Fn.EntryBlock = entry

	b.UseBasicBlock(entry)
	b.SealBlock(entry)
	init := b.AllocValue(i32)
	b.WriteVariable(v, init)
	b.SetTerminator(hir.Jump{Target: body})

	b.UseBasicBlock(body)
	b.SealBlock(body)
	got := b.ReadVariable(v)
	assert.Equal(t, init, got, "a block with exactly one predecessor forwards that predecessor's value directly")
	b.SetTerminator(hir.Return{Value: &got})
	b.Finish()

	require.NoError(t, hir.Verify(b.Fn))
}

// TestFunctionBuilder_ReadOfUninitializedVariableInEntryPoisons checks that
// reading a variable with no write anywhere upstream (entry block, sealed,
// zero predecessors) reports UseOfUninitializedVariable rather than
// panicking.
func TestFunctionBuilder_ReadOfUninitializedVariableInEntryPoisons(t *testing.T) {
	b, _ := newTestBuilder(t)
	entry := b.NewBasicBlock()
	b.Fn.EntryBlock = entry
	b.UseBasicBlock(entry)
	b.SealBlock(entry)

	v := &hir.Var{Name: "x", Constraint: types.NewPrimitive(types.I32), Storage: hir.StackSlot{}}
	got := b.ReadVariable(v)

	require.Len(t, b.Bag.All(), 1)
	assert.Equal(t, 29, b.Bag.All()[0].Kind.Code())
	assert.True(t, b.Prog.ValueType(b.Fn.ID, got).IsUnknown())
}

// TestFunctionBuilder_SetTerminator_PanicsOnDoubleTerminate guards the
// invariant that a block is finalized exactly once.
func TestFunctionBuilder_SetTerminator_PanicsOnDoubleTerminate(t *testing.T) {
	b, _ := newTestBuilder(t)
	entry := b.NewBasicBlock()
	b.Fn.EntryBlock = entry
	b.UseBasicBlock(entry)
	b.SetTerminator(hir.Return{})
	assert.Panics(t, func() { b.SetTerminator(hir.Return{}) })
}
