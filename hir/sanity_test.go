package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

func testProgramForSanity() *Program {
	return NewProgram(interner.NewStringInterner(), interner.NewTagInterner())
}

func TestVerify_WellFormedFunctionPasses(t *testing.T) {
	prog := testProgramForSanity()
	voidT := types.NewPrimitive(types.Void)
	fn := NewFunction(prog.NextFunctionID(), "f", nil, voidT)
	prog.AddFunction(fn)

	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID
	target := fn.NewBlock()
	target.Predecessors = []BasicBlockID{entry.ID}

	entry.Terminator = Jump{Target: target.ID}
	target.Terminator = Return{}

	assert.NoError(t, Verify(fn))
}

func TestVerify_MissingEntryBlockFails(t *testing.T) {
	prog := testProgramForSanity()
	fn := NewFunction(prog.NextFunctionID(), "f", nil, types.NewPrimitive(types.Void))
	prog.AddFunction(fn)
	fn.EntryBlock = 99

	err := Verify(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entry block")
}

func TestVerify_MissingTerminatorFails(t *testing.T) {
	prog := testProgramForSanity()
	fn := NewFunction(prog.NextFunctionID(), "f", nil, types.NewPrimitive(types.Void))
	prog.AddFunction(fn)
	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID

	err := Verify(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no terminator")
}

func TestVerify_JumpToUnknownBlockFails(t *testing.T) {
	prog := testProgramForSanity()
	fn := NewFunction(prog.NextFunctionID(), "f", nil, types.NewPrimitive(types.Void))
	prog.AddFunction(fn)
	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID
	entry.Terminator = Jump{Target: 77}

	err := Verify(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown block")
}

func TestVerify_PredecessorMismatchFails(t *testing.T) {
	prog := testProgramForSanity()
	fn := NewFunction(prog.NextFunctionID(), "f", nil, types.NewPrimitive(types.Void))
	prog.AddFunction(fn)
	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID
	target := fn.NewBlock()
	// Deliberately omit target.Predecessors = []BasicBlockID{entry.ID}.

	entry.Terminator = Jump{Target: target.ID}
	target.Terminator = Return{}

	err := Verify(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predecessor list")
}

func TestVerify_CondJumpBothTargetsChecked(t *testing.T) {
	prog := testProgramForSanity()
	boolT := types.NewPrimitive(types.Bool)
	fn := NewFunction(prog.NextFunctionID(), "f", nil, types.NewPrimitive(types.Void))
	prog.AddFunction(fn)
	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID
	thenB := fn.NewBlock()
	elseB := fn.NewBlock()
	thenB.Predecessors = []BasicBlockID{entry.ID}
	elseB.Predecessors = []BasicBlockID{entry.ID}

	cond := fn.nextValue()
	prog.SetValueType(fn.ID, cond, boolT)
	entry.Terminator = CondJump{Cond: cond, TrueTarget: thenB.ID, FalseTarget: elseB.ID}
	thenB.Terminator = Return{}
	elseB.Terminator = Return{}

	assert.NoError(t, Verify(fn))
}
