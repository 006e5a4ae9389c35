package hir

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

// buildAddOne constructs `func addOne(p0 i32) i32 { return p0 + const(1) }`
// by hand, bypassing package build entirely, so the printer can be exercised
// without depending on the SSA construction algorithm.
func buildAddOne(prog *Program) *Function {
	i32 := types.NewPrimitive(types.I32)
	fn := NewFunction(prog.NextFunctionID(), "addOne", []Type{i32}, i32)
	prog.AddFunction(fn)

	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID
	param := fn.nextValue()
	entry.Params = []ValueID{param}
	prog.SetValueType(fn.ID, param, i32)

	c := prog.InternConstant(ConstInt{Value: 1}, i32)
	constVal := fn.nextValue()
	prog.SetValueType(fn.ID, constVal, i32)
	entry.Instrs = append(entry.Instrs, Instruction{Result: constVal, Type: i32, Op: LoadConstant{Const: c}})

	sum := fn.nextValue()
	prog.SetValueType(fn.ID, sum, i32)
	entry.Instrs = append(entry.Instrs, Instruction{Result: sum, Type: i32, Op: BinaryOpInstr{Op: ast.BinAdd, Left: param, Right: constVal}})

	entry.Terminator = Return{Value: &sum}
	return fn
}

func TestWriteFunction_ProducesExpectedShape(t *testing.T) {
	strs := interner.NewStringInterner()
	tags := interner.NewTagInterner()
	prog := NewProgram(strs, tags)
	fn := buildAddOne(prog)

	var buf bytes.Buffer
	WriteFunction(&buf, prog, fn)
	out := buf.String()

	assert.Contains(t, out, "func addOne(p0 i32) i32 {")
	assert.Contains(t, out, "0:")
	assert.Contains(t, out, "preds:")
	assert.Contains(t, out, "const 1")
	assert.Contains(t, out, "return v")
	assert.Contains(t, out, "}\n")
}

func TestFunction_WriteTo_MatchesWriteFunction(t *testing.T) {
	strs := interner.NewStringInterner()
	tags := interner.NewTagInterner()
	prog := NewProgram(strs, tags)
	fn := buildAddOne(prog)

	var direct bytes.Buffer
	WriteFunction(&direct, prog, fn)

	var viaMethod bytes.Buffer
	n, err := fn.WriteTo(&viaMethod, prog)
	require.NoError(t, err)
	assert.Equal(t, int64(direct.Len()), n)
	assert.Equal(t, direct.String(), viaMethod.String())
}

func TestWriteFunction_BareVoidReturn(t *testing.T) {
	strs := interner.NewStringInterner()
	tags := interner.NewTagInterner()
	prog := NewProgram(strs, tags)

	voidT := types.NewPrimitive(types.Void)
	fn := NewFunction(prog.NextFunctionID(), "noop", nil, voidT)
	prog.AddFunction(fn)
	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID
	entry.Terminator = Return{}

	var buf bytes.Buffer
	WriteFunction(&buf, prog, fn)
	assert.Contains(t, buf.String(), "\treturn\n")
}
