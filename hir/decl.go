package hir

import "github.com/tagc-lang/tagc/ast"

// Declaration is what a name in the scope registry is bound to (spec
// §4.2, §3.3). It is a closed tagged union so scope.Stack can store
// heterogeneous bindings (variables, functions, type aliases) in one map
// without an interface{} escape hatch beyond this package boundary.
type Declaration interface {
	declaration()
	// DeclSpan is the span of the identifier's defining occurrence, used
	// for "also declared at ..." diagnostics (scope.Stack.Insert).
	DeclSpan() ast.Span
}

// VarStorage is where a Var declaration's current value lives.
type VarStorage interface{ varStorage() }

type (
	// StackSlot is the storage every Var is created with. The builder
	// keeps such a variable's value as SSA values (build's
	// ReadVariable/WriteVariable): no StackAlloc is emitted for it, no
	// Load/Store reads or writes it, and Ptr is left zero.
	StackSlot struct{ Ptr ValueID }
	// Captured means this variable was hoisted into an enclosing
	// closure's environment struct; FieldIdx locates it there.
	Captured struct{ FieldIdx int }
)

func (StackSlot) varStorage() {}
func (Captured) varStorage()  {}

// Var is a local variable or parameter binding.
type Var struct {
	Name       string
	Span       ast.Span
	Constraint Type // the declared (unnarrowed) type; immutable once set
	Storage    VarStorage
}

func (*Var) declaration()        {}
func (v *Var) DeclSpan() ast.Span { return v.Span }

// UninitializedVar binds the name of a `let x: T;` declaration that has no
// initializer. Reading the name reports VarDeclWithoutInitializer and
// assigning to it reports InvalidLValue; nothing in package build replaces
// it with a *Var later.
type UninitializedVar struct {
	Name string
	Span ast.Span
}

func (*UninitializedVar) declaration()        {}
func (u *UninitializedVar) DeclSpan() ast.Span { return u.Span }

// FunctionDecl binds a name to a fully or partially lowered function. Fn
// is the function's shell, registered during the placeholder pass before
// its body is lowered; the body pass adds blocks to that same Function.
type FunctionDecl struct {
	Name string
	Span ast.Span
	Type Type // the function's Fn type, known from its signature alone
	Fn   *Function
}

func (*FunctionDecl) declaration()        {}
func (f *FunctionDecl) DeclSpan() ast.Span { return f.Span }

// TypeAliasDecl binds a name to a resolved type.
type TypeAliasDecl struct {
	Name string
	Span ast.Span
	Type Type
}

func (*TypeAliasDecl) declaration()        {}
func (t *TypeAliasDecl) DeclSpan() ast.Span { return t.Span }
