// Package ast defines the external contract between the parser (out of
// scope for this module, see spec.md §1) and the semantic core: the shape of
// statement and expression nodes the core consumes, plus the small pieces of
// source-position metadata threaded through every diagnostic.
//
// Nothing in this package performs semantic analysis. It is pure data, the
// way golang-tools' go/ast is pure data relative to go/types.
package ast

import (
	"fmt"

	"github.com/tagc-lang/tagc/internal/interner"
)

// Position is a single point in a source file.
type Position struct {
	Line       int
	Col        int
	ByteOffset int
}

// Span is a half-open source range. It is metadata only: it never
// participates in equality or hashing of the node it decorates.
type Span struct {
	Start Position
	End   Position
}

// String renders a Span as "line:col" of its start position, the minimal
// form diagnostics need for "also declared at ..." cross-references.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Col)
}

// IdentifierNode is a (StringId, Span) pair. Equality and hashing consider
// only Name; two occurrences of the same identifier text compare equal
// regardless of where they appear.
type IdentifierNode struct {
	Name interner.StringID
	Span Span
}

// Equal reports whether two identifier nodes name the same symbol,
// ignoring Span.
func (id IdentifierNode) Equal(other IdentifierNode) bool {
	return id.Name == other.Name
}

// NumberKind classifies a numeric literal by its suffix family, pinning the
// literal's type before any inference happens.
type NumberKind int

const (
	NumI8 NumberKind = iota
	NumI16
	NumI32
	NumI64
	NumISize
	NumU8
	NumU16
	NumU32
	NumU64
	NumUSize
	NumF32
	NumF64
)

// TypeAnnotation is the surface syntax for a type; check_type_annotation (in
// package build) lowers it to a types.Type.
type TypeAnnotation struct {
	Kind TypeAnnotationKind
	Span Span
}

// TypeAnnotationKind is a tagged union over annotation shapes.
type TypeAnnotationKind interface{ typeAnnotationKind() }

type (
	// TAIdentifier refers to a named declaration (a type alias, a struct,
	// or a union) by name; resolving it triggers a scope lookup.
	TAIdentifier struct{ Name IdentifierNode }
	// TAPointer is `*constraint`.
	TAPointer struct{ Constraint *TypeAnnotation }
	// TAFn is a first-class function type annotation.
	TAFn struct {
		Params []*TypeAnnotation
		Return *TypeAnnotation
	}
	// TAList is `[item]`.
	TAList struct{ Item *TypeAnnotation }
	// TAUnion is `A | B | ...`, written out explicitly in source.
	TAUnion struct{ Members []*TypeAnnotation }
	// TATag is a single `#Name` or `#Name(payload)` annotation.
	TATag struct {
		Name    IdentifierNode
		Payload *TypeAnnotation // nil if the tag carries no payload
	}
	// TAPrimitive names one of the builtin primitive types by keyword.
	TAPrimitive struct{ Name string }
)

func (TAIdentifier) typeAnnotationKind() {}
func (TAPointer) typeAnnotationKind()    {}
func (TAFn) typeAnnotationKind()         {}
func (TAList) typeAnnotationKind()       {}
func (TAUnion) typeAnnotationKind()      {}
func (TATag) typeAnnotationKind()        {}
func (TAPrimitive) typeAnnotationKind()  {}

// Expr is a surface expression node, tagged by Kind.
type Expr struct {
	Kind ExprKind
	Span Span
}

// ExprKind is a tagged union over every expression shape the parser hands
// to the core.
type ExprKind interface{ exprKind() }

type (
	ExIdentifier struct{ Name IdentifierNode }
	ExNumber     struct {
		Kind NumberKind
		Text string
	}
	ExBool   struct{ Value bool }
	ExNull   struct{}
	ExVoid   struct{}
	ExString struct{ Value string }

	ExAccess struct {
		Target *Expr
		Field  IdentifierNode
	}
	ExStaticAccess struct {
		Target IdentifierNode
		Member IdentifierNode
	}
	ExIndex struct {
		Target *Expr
		Index  *Expr
	}
	ExTypeCast struct {
		Target *Expr
		To     *TypeAnnotation
	}
	ExFnCall struct {
		Callee *Expr
		Args   []*Expr
	}
	ExFn struct {
		Params     []Param
		ReturnType *TypeAnnotation // nil means inferred Void
		Body       *Expr           // an ExCodeBlock
	}
	ExIf struct {
		Branches []IfBranch
		Else     *Expr // nil if absent; an ExCodeBlock otherwise
	}
	ExMatch struct {
		Subject *Expr
		Arms    []MatchArm
	}
	ExList struct{ Items []*Expr }
	ExStruct struct {
		Fields []StructFieldInit
	}
	ExTag struct {
		Name  IdentifierNode
		Value *Expr // nil if the tag carries no payload
	}
	ExCodeBlock struct{ Stmts []Stmt }

	ExUnary struct {
		Op      UnaryOp
		Operand *Expr
	}
	ExBinary struct {
		Op          BinaryOp
		Left, Right *Expr
	}
	ExIsType struct {
		Left   *Expr
		Target *TypeAnnotation
	}
)

func (ExIdentifier) exprKind()   {}
func (ExNumber) exprKind()       {}
func (ExBool) exprKind()         {}
func (ExNull) exprKind()         {}
func (ExVoid) exprKind()         {}
func (ExString) exprKind()       {}
func (ExAccess) exprKind()       {}
func (ExStaticAccess) exprKind() {}
func (ExIndex) exprKind()        {}
func (ExTypeCast) exprKind()     {}
func (ExFnCall) exprKind()       {}
func (ExFn) exprKind()           {}
func (ExIf) exprKind()           {}
func (ExMatch) exprKind()        {}
func (ExList) exprKind()         {}
func (ExStruct) exprKind()       {}
func (ExTag) exprKind()          {}
func (ExCodeBlock) exprKind()    {}
func (ExUnary) exprKind()        {}
func (ExBinary) exprKind()       {}
func (ExIsType) exprKind()       {}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryDeref
)

var unaryOpNames = []string{"-", "!", "*"}

func (op UnaryOp) String() string {
	if i := int(op); i >= 0 && i < len(unaryOpNames) {
		return unaryOpNames[i]
	}
	return fmt.Sprintf("UnaryOp(%d)", op)
}

// BinaryOp enumerates the binary arithmetic, comparison, and boolean
// operators. Short-circuit && and || are lowered specially (spec §4.4.4) but
// still arrive as ExBinary nodes.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEqual
	BinNotEqual
	BinLess
	BinLessEqual
	BinGreater
	BinGreaterEqual
	BinAnd
	BinOr
)

var binaryOpNames = []string{
	"+", "-", "*", "/", "%",
	"==", "!=", "<", "<=", ">", ">=",
	"&&", "||",
}

func (op BinaryOp) String() string {
	if i := int(op); i >= 0 && i < len(binaryOpNames) {
		return binaryOpNames[i]
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// Param is a function parameter: a name plus its declared type.
type Param struct {
	Name       IdentifierNode
	Constraint *TypeAnnotation
}

// IfBranch is one `(cond, body)` pair of an if-expression.
type IfBranch struct {
	Cond *Expr
	Body *Expr // an ExCodeBlock
}

// MatchArm is one arm of a match expression: `#Tag(binding) => body`.
type MatchArm struct {
	Tag     IdentifierNode
	Binding *IdentifierNode // nil if the tag carries no payload or it is unbound
	Body    *Expr
}

// StructFieldInit is one `name: value` pair of a struct literal.
type StructFieldInit struct {
	Name  IdentifierNode
	Value *Expr
}

// Stmt is a surface statement node, tagged by Kind.
type Stmt struct {
	Kind StmtKind
	Span Span
}

// StmtKind is a tagged union over every statement shape the parser hands to
// the core.
type StmtKind interface{ stmtKind() }

type (
	StExpression struct{ Expr *Expr }
	StVarDecl    struct {
		Name        IdentifierNode
		Constraint  *TypeAnnotation // nil means infer from Value
		Value       *Expr
		Initialized bool // false models `let x: T;` with no initializer
	}
	StTypeAliasDecl struct {
		Name  IdentifierNode
		Value *TypeAnnotation
	}
	StReturn struct{ Value *Expr } // nil means a bare `return;`
	StBreak  struct{}
	StContinue struct{}
	StAssignment struct {
		Target *Expr
		Value  *Expr
	}
	StFrom struct {
		Path    string
		Imports []ImportedName
	}
	StWhile struct {
		Cond *Expr
		Body *Expr // an ExCodeBlock
	}
)

func (StExpression) stmtKind()    {}
func (StVarDecl) stmtKind()       {}
func (StTypeAliasDecl) stmtKind() {}
func (StReturn) stmtKind()        {}
func (StBreak) stmtKind()         {}
func (StContinue) stmtKind()      {}
func (StAssignment) stmtKind()    {}
func (StFrom) stmtKind()          {}
func (StWhile) stmtKind()         {}

// ImportedName is one `name` or `name: alias` entry of a From statement.
type ImportedName struct {
	Name  IdentifierNode
	Alias *IdentifierNode // nil if unaliased
}
