package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/interner"
)

// testProgram builds a fresh, empty hir.Program plus interners for a single
// test's use.
func testProgram() (*hir.Program, *interner.StringInterner, *interner.TagInterner) {
	strs := interner.NewStringInterner()
	tags := interner.NewTagInterner()
	return hir.NewProgram(strs, tags), strs, tags
}

func ident(strs *interner.StringInterner, name string) ast.IdentifierNode {
	return ast.IdentifierNode{Name: strs.Intern(name)}
}

func primitiveTA(name string) *ast.TypeAnnotation {
	return &ast.TypeAnnotation{Kind: ast.TAPrimitive{Name: name}}
}

// returnStmt builds `return <value>;`.
func returnStmt(value *ast.Expr) ast.Stmt {
	return ast.Stmt{Kind: ast.StReturn{Value: value}}
}

// numberExpr builds an i32 literal.
func numberExpr(text string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExNumber{Kind: ast.NumI32, Text: text}}
}

// callExpr builds `<callee>()`.
func callExpr(callee ast.IdentifierNode) *ast.Expr {
	return &ast.Expr{Kind: ast.ExFnCall{
		Callee: &ast.Expr{Kind: ast.ExIdentifier{Name: callee}},
	}}
}

// topLevelFn builds `let <name> = fn() -> i32 { <stmts...> };`.
func topLevelFn(name ast.IdentifierNode, stmts ...ast.Stmt) ast.Stmt {
	return ast.Stmt{Kind: ast.StVarDecl{
		Name:        name,
		Initialized: true,
		Value: &ast.Expr{Kind: ast.ExFn{
			ReturnType: primitiveTA("i32"),
			Body:       &ast.Expr{Kind: ast.ExCodeBlock{Stmts: stmts}},
		}},
	}}
}

// TestBuildModule_ForwardFunctionReference exercises the placeholder pass's
// reason for existing: a top-level function may call a sibling function
// declared later in the same file.
func TestBuildModule_ForwardFunctionReference(t *testing.T) {
	prog, strs, _ := testProgram()
	pb := NewProgramBuilder(prog)

	aName := ident(strs, "a")
	bName := ident(strs, "b")

	stmts := []ast.Stmt{
		topLevelFn(aName, returnStmt(callExpr(bName))),
		topLevelFn(bName, returnStmt(numberExpr("42"))),
	}

	mod := pb.BuildModule("main.tagc", stmts)

	require.Empty(t, mod.Bag.All(), "forward-referencing a sibling function must not raise a diagnostic")
	require.Len(t, mod.Functions, 2)

	aDecl, ok := mod.Scopes.Lookup(aName.Name)
	require.True(t, ok)
	bDecl, ok := mod.Scopes.Lookup(bName.Name)
	require.True(t, ok)

	aFd := aDecl.(*hir.FunctionDecl)
	bFd := bDecl.(*hir.FunctionDecl)
	require.NotNil(t, aFd.Fn)
	require.NotNil(t, bFd.Fn)

	// a is lowered before b in the body pass (file order), yet a's call to
	// b must already resolve to b's real FunctionID, not a placeholder —
	// resolveCallee's DirectCallee fast path only works once fd.Fn is
	// non-nil (see newFunctionShell).
	entry := aFd.Fn.Block(aFd.Fn.EntryBlock)
	require.NotEmpty(t, entry.Instrs)
	found := false
	for _, instr := range entry.Instrs {
		if call, ok := instr.Op.(hir.FunctionCall); ok {
			if dc, ok := call.Callee.(hir.DirectCallee); ok && dc.Fn == bFd.Fn.ID {
				found = true
			}
		}
	}
	assert.True(t, found, "a's body should call b by its real FunctionID")
}

// TestBuildModule_Exports verifies every top-level binding (function or
// otherwise) is visible in Exports once both passes complete.
func TestBuildModule_Exports(t *testing.T) {
	prog, strs, _ := testProgram()
	pb := NewProgramBuilder(prog)

	fName := ident(strs, "f")
	xName := ident(strs, "x")

	stmts := []ast.Stmt{
		topLevelFn(fName, returnStmt(numberExpr("1"))),
		{Kind: ast.StVarDecl{Name: xName, Initialized: true, Value: numberExpr("7")}},
	}

	mod := pb.BuildModule("main.tagc", stmts)

	require.Empty(t, mod.Bag.All())
	_, ok := mod.Exports[fName.Name]
	assert.True(t, ok, "top-level function should be exported")
	_, ok = mod.Exports[xName.Name]
	assert.True(t, ok, "top-level let binding should be exported")

	require.NotNil(t, mod.InitFn)
	entry := mod.InitFn.Block(mod.InitFn.EntryBlock)
	assert.True(t, entry.HasTerminator())
}

// TestBuildModule_ImportResolution checks that a module importing another
// already-built module resolves the imported name into its own scope, and
// that importing an unexported or nonexistent name is diagnosed instead of
// panicking.
func TestBuildModule_ImportResolution(t *testing.T) {
	prog, strs, _ := testProgram()
	pb := NewProgramBuilder(prog)

	helperName := ident(strs, "helper")
	libStmts := []ast.Stmt{
		topLevelFn(helperName, returnStmt(numberExpr("1"))),
	}
	pb.BuildModule("lib.tagc", libStmts)

	missingName := ident(strs, "missing")
	mainStmts := []ast.Stmt{
		{Kind: ast.StFrom{
			Path: "lib.tagc",
			Imports: []ast.ImportedName{
				{Name: helperName},
				{Name: missingName},
			},
		}},
	}
	mod := pb.BuildModule("main.tagc", mainStmts)

	_, ok := mod.Scopes.Lookup(helperName.Name)
	assert.True(t, ok, "an exported imported name should resolve into the importer's scope")

	require.Len(t, mod.Bag.All(), 1)
	assert.Equal(t, 27, mod.Bag.All()[0].Kind.Code(), "importing an unexported/unknown name should raise SymbolNotExported")
}

// TestBuildModule_ModuleNotFound checks that importing from a path with no
// corresponding built module is diagnosed rather than panicking — BuildModule
// must be fed modules in dependency-first order by its caller, and this is
// the failure mode when that invariant is violated.
func TestBuildModule_ModuleNotFound(t *testing.T) {
	prog, strs, _ := testProgram()
	pb := NewProgramBuilder(prog)

	mainStmts := []ast.Stmt{
		{Kind: ast.StFrom{
			Path:    "nope.tagc",
			Imports: []ast.ImportedName{{Name: ident(strs, "anything")}},
		}},
	}
	mod := pb.BuildModule("main.tagc", mainStmts)

	require.Len(t, mod.Bag.All(), 1)
	assert.Equal(t, 26, mod.Bag.All()[0].Kind.Code())
}
