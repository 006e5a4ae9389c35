// Package scope implements the per-module scope stack and declaration
// registry of spec.md §4.2: a LIFO stack of lexical scopes, two-phase
// insertion (placeholder then finalize) to permit forward references, and
// the stack queries HIR lowering needs for break/continue/return
// validation.
//
// Ported near 1:1 from original_source's hir_builder/utils/scope.rs, which
// is itself already close to idiomatic Go (a stack of small maps guarded
// by LIFO push/pop discipline).
package scope

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/internal/interner"
)

// Kind discriminates what a Scope was opened for. Function scopes own
// their in-progress FunctionBuilder (as an opaque value, to avoid an
// import cycle with package build) — this is how nested function literals
// find their enclosing context when needed.
type Kind int

const (
	File Kind = iota
	Function
	CodeBlock
	While
	GenericParams
)

// LoopTargets names the blocks a break/continue inside a While scope
// should jump to.
type LoopTargets struct {
	BreakTarget    hir.BasicBlockID
	ContinueTarget hir.BasicBlockID
}

// Scope is one entry of the scope stack.
type Scope struct {
	Kind Kind

	// Loop is populated only for Kind == While.
	Loop LoopTargets

	// FunctionBuilder is populated only for Kind == Function. It is
	// typed as interface{} here specifically to avoid scope depending on
	// build (build already depends on scope); callers type-assert back
	// to *build.FunctionBuilder.
	FunctionBuilder interface{}

	symbols map[interner.StringID]hir.Declaration
}

func newScope(kind Kind) *Scope {
	return &Scope{Kind: kind, symbols: make(map[interner.StringID]hir.Declaration)}
}

// Stack is one module's stack of lexical scopes. The zero value is ready
// to use.
type Stack struct {
	scopes []*Scope
}

// Enter pushes a new scope of the given kind.
func (s *Stack) Enter(kind Kind) *Scope {
	sc := newScope(kind)
	s.scopes = append(s.scopes, sc)
	return sc
}

// Exit pops the innermost scope. It panics if the stack is empty, since
// enter/exit must always balance — an imbalance is an internal invariant
// violation, not a user error.
func (s *Stack) Exit() *Scope {
	if len(s.scopes) == 0 {
		panic("INTERNAL COMPILER ERROR: exit called with no open scope")
	}
	sc := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	return sc
}

// Current returns the innermost open scope.
func (s *Stack) Current() *Scope {
	if len(s.scopes) == 0 {
		panic("INTERNAL COMPILER ERROR: no open scope")
	}
	return s.scopes[len(s.scopes)-1]
}

// Insert binds name to decl in the innermost scope. It reports
// DuplicateIdentifier into bag if name is already bound there, and
// performs the insert anyway so lowering can proceed against whichever
// declaration was Last-Writer (a convenience for recovery, not a
// correctness requirement — the duplicate itself is already flagged).
func (s *Stack) Insert(strs *interner.StringInterner, bag *diag.Bag, name ast.IdentifierNode, decl hir.Declaration) {
	cur := s.Current()
	if existing, ok := cur.symbols[name.Name]; ok {
		bag.Add(diag.DuplicateIdentifier{
			Name:       strs.Lookup(name.Name),
			OriginalAt: existing.DeclSpan().String(),
		}, name.Span)
	}
	cur.symbols[name.Name] = decl
}

// Replace finalizes a placeholder declaration (an UninitializedVar or a
// placeholder Function/TypeAlias) by overwriting its binding in place. It
// panics if no such binding exists in the innermost scope, matching
// spec §4.2's description of replace as "panics on misuse (internal
// invariant violation)".
func (s *Stack) Replace(id interner.StringID, decl hir.Declaration) {
	cur := s.Current()
	if _, ok := cur.symbols[id]; !ok {
		panic("INTERNAL COMPILER ERROR: replace called on a name with no existing placeholder binding")
	}
	cur.symbols[id] = decl
}

// Lookup returns the innermost binding of id: it scans from the innermost
// scope outward and stops at the first hit.
func (s *Stack) Lookup(id interner.StringID) (hir.Declaration, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if d, ok := s.scopes[i].symbols[id]; ok {
			return d, true
		}
	}
	return nil, false
}

// WithinFunction reports whether any enclosing scope is a Function scope.
func (s *Stack) WithinFunction() bool {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if s.scopes[i].Kind == Function {
			return true
		}
	}
	return false
}

// WithinLoop returns the innermost enclosing While scope's targets. It
// stops searching (returns false) as soon as it crosses a scope kind other
// than CodeBlock or While, matching original_source's scope.rs: a loop
// scope is only "in effect" through a chain of plain code blocks, not
// through an intervening function boundary.
func (s *Stack) WithinLoop() (LoopTargets, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		switch s.scopes[i].Kind {
		case CodeBlock:
			continue
		case While:
			return s.scopes[i].Loop, true
		default:
			return LoopTargets{}, false
		}
	}
	return LoopTargets{}, false
}

// IsFileScope reports whether the innermost scope is the module's
// top-level File scope.
func (s *Stack) IsFileScope() bool {
	return s.Current().Kind == File
}

// Names returns every name bound directly in sc, for callers that need to
// enumerate a scope's contents wholesale (a module's top-level File scope,
// to build its export set) rather than look one up by name.
func (sc *Scope) Names() map[interner.StringID]hir.Declaration {
	return sc.symbols
}
