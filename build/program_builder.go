package build

import (
	"path"

	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/scope"
	"github.com/tagc-lang/tagc/types"
)

// Module is one source file's lowered top-level declarations: the
// functions it defines, a synthetic initializer function running its
// top-level `let` bindings in file order (this front end's analogue of a
// package's implicit init, since the grammar has no top-level statement
// form other than the ones a code block already uses), and the subset of
// its File-scope bindings visible to importers.
type Module struct {
	Path      string
	Functions []hir.FunctionID
	InitFn    *hir.Function
	Exports   map[interner.StringID]hir.Declaration
	Scopes    *scope.Stack
	Bag       *diag.Bag
}

// ProgramBuilder drives HIR construction across every module of a build,
// serially (spec §5: module discovery and parsing run concurrently, but
// HIR construction proceeds one module at a time once a module's imports
// are already built). It owns the one hir.Program every module's functions
// and constants are interned into.
type ProgramBuilder struct {
	Prog    *hir.Program
	Modules map[string]*Module
}

// NewProgramBuilder starts a build against an empty Program.
func NewProgramBuilder(prog *hir.Program) *ProgramBuilder {
	return &ProgramBuilder{Prog: prog, Modules: map[string]*Module{}}
}

// pendingFn is one top-level `let name = fn(...) {...};` awaiting its body
// pass, recorded during the placeholder pass below.
type pendingFn struct {
	name ast.IdentifierNode
	lit  ast.ExFn
}

// BuildModule lowers one module's top-level statements, identified by its
// canonical path, into a Module. It must be called in an order where every
// module path reaches via a From statement has already been built — the
// module package's discovery pass is responsible for producing that order
// (spec §5, §6.2); a From statement naming a path not yet present in
// pb.Modules is reported as ModuleNotFound rather than deferred.
//
// Lowering runs in two passes mirroring scope.Stack's two-phase design
// (spec §4.2): a placeholder pass registers every top-level function and
// type alias before any body is lowered, so functions may call each other
// regardless of declaration order (including mutual recursion); a body pass
// then lowers each function's CFG and, after them, the module's remaining
// top-level statements, each group in file order.
func (pb *ProgramBuilder) BuildModule(modPath string, stmts []ast.Stmt) *Module {
	bag := &diag.Bag{}
	scopes := &scope.Stack{}
	scopes.Enter(scope.File)

	mod := &Module{
		Path:    modPath,
		Exports: map[interner.StringID]hir.Declaration{},
		Scopes:  scopes,
		Bag:     bag,
	}
	pb.Modules[modPath] = mod

	sigLowerer := NewLowerer(&FunctionBuilder{Bag: bag}, scopes, bag, pb.Prog)

	var fns []pendingFn
	var inits []ast.Stmt

	// Phase 1 only pre-registers what forward references and mutual
	// recursion actually require: top-level function bindings (so one may
	// call another regardless of which comes first in the file) and type
	// aliases (resolved immediately in file order, so an alias can only
	// name aliases declared above it). Every other
	// top-level statement — plain `let` bindings, and the bodies of
	// ordinary statements the grammar permits at module scope the same
	// way it permits them in any code block — is deferred to the body
	// pass and lowered in file order, since nothing before it in the
	// file could need to see it early.
	for _, stmt := range stmts {
		switch k := stmt.Kind.(type) {
		case ast.StFrom:
			pb.resolveImport(mod, stmt.Span, k)

		case ast.StTypeAliasDecl:
			t := sigLowerer.resolveTypeAnnotation(k.Value)
			scopes.Insert(pb.Prog.Strings, bag, k.Name, &hir.TypeAliasDecl{
				Name: pb.Prog.Strings.Lookup(k.Name.Name), Span: k.Name.Span, Type: t,
			})

		case ast.StVarDecl:
			if lit, ok := asTopLevelFn(k); ok {
				paramTypes := make([]types.Type, len(lit.Params))
				for i, p := range lit.Params {
					paramTypes[i] = sigLowerer.resolveTypeAnnotation(p.Constraint)
				}
				retType := sigLowerer.resolveTypeAnnotation(lit.ReturnType)
				name := pb.Prog.Strings.Lookup(k.Name.Name)
				// The shell is registered now, not in the body pass below,
				// so an earlier sibling function's body can already form a
				// LoadConstant reference to this FunctionID even though
				// this function's own body hasn't been lowered yet (spec
				// §2's forward-reference/mutual-recursion requirement;
				// hir.Program.AddFunction's doc comment names this exact
				// use of NextFunctionID).
				shell := newFunctionShell(pb.Prog, name, paramTypes, retType)
				scopes.Insert(pb.Prog.Strings, bag, k.Name, &hir.FunctionDecl{
					Name: name,
					Span: k.Name.Span,
					Type: types.NewFn(paramTypes, retType),
					Fn:   shell,
				})
				fns = append(fns, pendingFn{name: k.Name, lit: lit})
				continue
			}
			inits = append(inits, stmt)

		default:
			inits = append(inits, stmt)
		}
	}

	for _, pf := range fns {
		decl, _ := scopes.Lookup(pf.name.Name)
		fd := decl.(*hir.FunctionDecl)
		paramTypes, retType, _ := fd.Type.AsFn()
		buildFunctionBody(pb.Prog, bag, scopes, fd.Fn, pf.lit.Params, paramTypes, retType, pf.lit.Body)
		mod.Functions = append(mod.Functions, fd.Fn.ID)
	}

	mod.InitFn = pb.buildInitFunction(mod, inits)

	for name, decl := range scopes.Current().Names() {
		mod.Exports[name] = decl
	}

	return mod
}

// asTopLevelFn reports whether a top-level `let` binds a bare function
// literal directly (the mutual-recursion/forward-reference case the
// placeholder pass exists for), as opposed to some other initializer
// expression.
func asTopLevelFn(k ast.StVarDecl) (ast.ExFn, bool) {
	if !k.Initialized || k.Value == nil {
		return ast.ExFn{}, false
	}
	lit, ok := k.Value.Kind.(ast.ExFn)
	return lit, ok
}

// buildInitFunction lowers every top-level statement the placeholder pass
// deferred into a single synthetic function's entry block, in file order,
// so a backend has one thing to call before running anything else in the
// module — this front end's analogue of Go's own implicit package init,
// needed because the grammar gives top-level `let` bindings and bare
// statements no other home to run from (see DESIGN.md).
func (pb *ProgramBuilder) buildInitFunction(mod *Module, inits []ast.Stmt) *hir.Function {
	voidType := types.NewPrimitive(types.Void)
	fn := newFunctionShell(pb.Prog, mod.Path+"::<init>", nil, voidType)
	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID

	builder := NewFunctionBuilder(pb.Prog, fn, mod.Bag)
	builder.UseBasicBlock(entry.ID)
	lw := NewLowerer(builder, mod.Scopes, mod.Bag, pb.Prog)
	lw.ReturnType = voidType

	// Deliberately not a Function-kind scope: a bare top-level `return`
	// has no function to return from (lowerReturn's WithinFunction check
	// will flag it), and every name a deferred `let` introduces here must
	// land directly in the module's File scope so it is visible to
	// statements later in the file and, once the body pass finishes, to
	// the Exports set below.
	for _, stmt := range inits {
		lw.LowerStmt(stmt)
		if builder.CurrentBlock().HasTerminator() {
			break
		}
	}

	if !builder.CurrentBlock().HasTerminator() {
		builder.SetTerminator(hir.Return{})
	}
	builder.Finish()
	return fn
}

// resolveImport binds the names a `from "path" { a, b: c }` statement
// names into mod's File scope, resolved against an already-built Module
// (spec §5: import paths are canonicalized relative to the importing
// module's own path before lookup).
func (pb *ProgramBuilder) resolveImport(mod *Module, span ast.Span, k ast.StFrom) {
	canon := canonicalizeImportPath(mod.Path, k.Path)
	imported, ok := pb.Modules[canon]
	if !ok {
		mod.Bag.Add(diag.ModuleNotFound{Path: k.Path}, span)
		return
	}
	for _, im := range k.Imports {
		decl, ok := imported.Exports[im.Name.Name]
		if !ok {
			mod.Bag.Add(diag.SymbolNotExported{
				Name:   pb.Prog.Strings.Lookup(im.Name.Name),
				Module: imported.Path,
			}, im.Name.Span)
			continue
		}
		localName := im.Name
		if im.Alias != nil {
			localName = *im.Alias
		}
		mod.Scopes.Insert(pb.Prog.Strings, mod.Bag, localName, decl)
	}
}

// canonicalizeImportPath resolves an import path relative to the
// directory of the module that names it, the same join-then-clean rule
// the module package's discovery pass applies before ever reading a file
// off disk, so a module built here and one reached by discovery agree on
// what counts as "the same module" (spec §5).
func canonicalizeImportPath(fromModulePath, importPath string) string {
	return path.Clean(path.Join(path.Dir(fromModulePath), importPath))
}
