package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/internal/interner"
)

func testVar(name string) *hir.Var {
	return &hir.Var{Name: name, Storage: hir.StackSlot{}}
}

func TestStack_InsertAndLookup_InnermostWins(t *testing.T) {
	strs := interner.NewStringInterner()
	bag := &diag.Bag{}
	id := strs.Intern("x")

	var s Stack
	s.Enter(File)
	s.Insert(strs, bag, ast.IdentifierNode{Name: id}, testVar("outer"))

	s.Enter(CodeBlock)
	s.Insert(strs, bag, ast.IdentifierNode{Name: id}, testVar("inner"))

	decl, ok := s.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "inner", decl.(*hir.Var).Name, "lookup must prefer the innermost binding")

	s.Exit()
	decl, ok = s.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "outer", decl.(*hir.Var).Name, "after exiting the inner scope, the outer binding is visible again")
}

func TestStack_Lookup_MissReturnsFalse(t *testing.T) {
	strs := interner.NewStringInterner()
	var s Stack
	s.Enter(File)
	_, ok := s.Lookup(strs.Intern("nope"))
	assert.False(t, ok)
}

func TestStack_Insert_DuplicateRaisesDiagnosticButStillOverwrites(t *testing.T) {
	strs := interner.NewStringInterner()
	bag := &diag.Bag{}
	id := strs.Intern("x")
	name := ast.IdentifierNode{Name: id}

	var s Stack
	s.Enter(File)
	s.Insert(strs, bag, name, testVar("first"))
	s.Insert(strs, bag, name, testVar("second"))

	require.Len(t, bag.All(), 1)
	decl, ok := s.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "second", decl.(*hir.Var).Name, "insert proceeds with the latest binding despite flagging the duplicate")
}

func TestStack_Replace_OverwritesExistingPlaceholder(t *testing.T) {
	strs := interner.NewStringInterner()
	bag := &diag.Bag{}
	id := strs.Intern("x")
	name := ast.IdentifierNode{Name: id}

	var s Stack
	s.Enter(File)
	s.Insert(strs, bag, name, &hir.UninitializedVar{Name: "x"})
	s.Replace(id, testVar("x"))

	decl, ok := s.Lookup(id)
	require.True(t, ok)
	_, isVar := decl.(*hir.Var)
	assert.True(t, isVar, "Replace must overwrite the placeholder binding in place")
}

func TestStack_Replace_PanicsWithNoExistingBinding(t *testing.T) {
	var s Stack
	s.Enter(File)
	assert.Panics(t, func() { s.Replace(interner.StringID(42), testVar("x")) })
}

func TestStack_Exit_PanicsOnEmptyStack(t *testing.T) {
	var s Stack
	assert.Panics(t, func() { s.Exit() })
}

func TestStack_WithinFunction(t *testing.T) {
	var s Stack
	s.Enter(File)
	assert.False(t, s.WithinFunction())
	s.Enter(Function)
	assert.True(t, s.WithinFunction())
	s.Enter(CodeBlock)
	assert.True(t, s.WithinFunction(), "a nested code block inside a function scope still counts as within a function")
}

func TestStack_WithinLoop_StopsAtFunctionBoundary(t *testing.T) {
	var s Stack
	s.Enter(File)
	s.Enter(While)
	s.Current().Loop = LoopTargets{BreakTarget: 1, ContinueTarget: 2}
	s.Enter(CodeBlock)

	targets, ok := s.WithinLoop()
	require.True(t, ok, "a code block nested directly inside a while loop is still within that loop")
	assert.Equal(t, hir.BasicBlockID(1), targets.BreakTarget)

	s.Enter(Function)
	_, ok = s.WithinLoop()
	assert.False(t, ok, "crossing a function boundary must stop the loop search even though the outer while is still on the stack")
}

func TestStack_IsFileScope(t *testing.T) {
	var s Stack
	s.Enter(File)
	assert.True(t, s.IsFileScope())
	s.Enter(CodeBlock)
	assert.False(t, s.IsFileScope())
}

func TestScope_Names_EnumeratesAllBindings(t *testing.T) {
	strs := interner.NewStringInterner()
	bag := &diag.Bag{}
	var s Stack
	s.Enter(File)
	s.Insert(strs, bag, ast.IdentifierNode{Name: strs.Intern("a")}, testVar("a"))
	s.Insert(strs, bag, ast.IdentifierNode{Name: strs.Intern("b")}, testVar("b"))

	names := s.Current().Names()
	assert.Len(t, names, 2)
}
