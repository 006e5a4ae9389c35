// Package diag defines the diagnostic taxonomy produced by the semantic
// core. Diagnostics are plain data: a Kind plus the Span it applies to. The
// core never returns errors from its internal APIs (spec.md §7); every
// failure is appended to a Bag and lowering continues with a poison value.
//
// Rendering diagnostics to a human (colorizing, grouping, printing source
// snippets) is explicitly out of scope for the core (spec.md §1, §6.3); that
// lives in cmd/tagc, which is the only place in this module that imports a
// terminal-color library.
package diag

import "github.com/tagc-lang/tagc/ast"

// Kind is a tagged union over every diagnostic class the core can emit.
// Each Kind has a stable Code(), since downstream tooling (editors, CI
// annotations) keys off the numeric code rather than the Go type name.
type Kind interface {
	// Code returns this diagnostic's stable numeric code.
	Code() int
	// Message renders a short, human-readable summary. It never resolves
	// interned names itself (it has no access to the interner); callers
	// that need names resolved do so before formatting.
	Message() string
}

// Diagnostic pairs a Kind with the Span it was raised at.
type Diagnostic struct {
	Kind Kind
	Span ast.Span
}

// Bag accumulates diagnostics for one module. HIR construction never
// aborts on the first error (spec.md §2): every call site that detects a
// problem appends to the Bag and returns a poison value so that lowering of
// the rest of the module proceeds uninterrupted.
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(kind Kind, span ast.Span) {
	b.items = append(b.items, Diagnostic{Kind: kind, Span: span})
}

// All returns every diagnostic recorded so far, in emission order.
func (b *Bag) All() []Diagnostic { return b.items }

// HasErrors reports whether any diagnostic was recorded.
func (b *Bag) HasErrors() bool { return len(b.items) > 0 }

// Len reports how many diagnostics have been recorded.
func (b *Bag) Len() int { return len(b.items) }
