package diag

import (
	"fmt"

	"github.com/tagc-lang/tagc/internal/interner"
)

// Each Kind that needs a human-readable name or type accepts it as a
// string pre-rendered by the caller, rather than as an interned handle or
// a types.Type, so this package does not import types.

// ArithmeticOperandNotNumeric: a binary arithmetic operator was applied to
// a non-numeric operand.
type ArithmeticOperandNotNumeric struct{ Operand string }

func (ArithmeticOperandNotNumeric) Code() int { return 1 }
func (k ArithmeticOperandNotNumeric) Message() string {
	return fmt.Sprintf("expected a numeric operand, got %s", k.Operand)
}

// MixedSignedAndUnsigned: a binary arithmetic operator mixed a signed and
// an unsigned integer operand.
type MixedSignedAndUnsigned struct{ Left, Right string }

func (MixedSignedAndUnsigned) Code() int { return 2 }
func (k MixedSignedAndUnsigned) Message() string {
	return fmt.Sprintf("cannot mix signed and unsigned operands: %s, %s", k.Left, k.Right)
}

// MixedFloatAndInteger: a binary arithmetic operator mixed a float and an
// integer operand.
type MixedFloatAndInteger struct{ Left, Right string }

func (MixedFloatAndInteger) Code() int { return 3 }
func (k MixedFloatAndInteger) Message() string {
	return fmt.Sprintf("cannot mix float and integer operands: %s, %s", k.Left, k.Right)
}

// CannotCompareType: operands of == or != are not equatable (spec §4.1).
type CannotCompareType struct{ Of, To string }

func (CannotCompareType) Code() int { return 4 }
func (k CannotCompareType) Message() string {
	return fmt.Sprintf("cannot compare %s to %s", k.Of, k.To)
}

// UndeclaredIdentifier: a scope lookup for an identifier found nothing.
type UndeclaredIdentifier struct{ Name string }

func (UndeclaredIdentifier) Code() int           { return 5 }
func (k UndeclaredIdentifier) Message() string   { return fmt.Sprintf("undeclared identifier %q", k.Name) }

// ReturnKeywordOutsideFunction: `return` used outside any function scope.
type ReturnKeywordOutsideFunction struct{}

func (ReturnKeywordOutsideFunction) Code() int         { return 6 }
func (ReturnKeywordOutsideFunction) Message() string   { return "return used outside a function" }

// BreakKeywordOutsideLoop: `break` used outside any While scope.
type BreakKeywordOutsideLoop struct{}

func (BreakKeywordOutsideLoop) Code() int       { return 7 }
func (BreakKeywordOutsideLoop) Message() string { return "break used outside a loop" }

// ContinueKeywordOutsideLoop: `continue` used outside any While scope.
type ContinueKeywordOutsideLoop struct{}

func (ContinueKeywordOutsideLoop) Code() int       { return 8 }
func (ContinueKeywordOutsideLoop) Message() string { return "continue used outside a loop" }

// InvalidLValue: the left-hand side of an assignment is not a place
// (identifier, field access, or index expression).
type InvalidLValue struct{}

func (InvalidLValue) Code() int       { return 9 }
func (InvalidLValue) Message() string { return "invalid assignment target" }

// TypeMismatch: a value's type is not assignable to the type it is
// required to satisfy.
type TypeMismatch struct{ Expected, Received string }

func (TypeMismatch) Code() int { return 10 }
func (k TypeMismatch) Message() string {
	return fmt.Sprintf("expected type %s, got %s", k.Expected, k.Received)
}

// ReturnNotLastStatement: a `return` appeared somewhere other than the end
// of its enclosing block, making the remaining statements unreachable.
type ReturnNotLastStatement struct{}

func (ReturnNotLastStatement) Code() int       { return 11 }
func (ReturnNotLastStatement) Message() string { return "return is not the last statement of its block" }

// ReturnTypeMismatch: a function's returned value is not assignable to its
// declared return type.
type ReturnTypeMismatch struct{ Expected, Received string }

func (ReturnTypeMismatch) Code() int { return 12 }
func (k ReturnTypeMismatch) Message() string {
	return fmt.Sprintf("function declared to return %s, but returns %s", k.Expected, k.Received)
}

// UndeclaredType: a type annotation named an identifier with no matching
// declaration in scope.
type UndeclaredType struct{ Name string }

func (UndeclaredType) Code() int         { return 13 }
func (k UndeclaredType) Message() string { return fmt.Sprintf("undeclared type %q", k.Name) }

// CannotAccess: field access applied to a non-struct type.
type CannotAccess struct{ Target string }

func (CannotAccess) Code() int         { return 14 }
func (k CannotAccess) Message() string { return fmt.Sprintf("cannot access a field of %s", k.Target) }

// CannotCall: a call expression's callee is not a function type.
type CannotCall struct{ Target string }

func (CannotCall) Code() int         { return 15 }
func (k CannotCall) Message() string { return fmt.Sprintf("cannot call a value of type %s", k.Target) }

// CannotUseTypeDeclarationAsValue: an identifier resolving to a type alias
// was used where a value was expected.
type CannotUseTypeDeclarationAsValue struct{ Name string }

func (CannotUseTypeDeclarationAsValue) Code() int { return 16 }
func (k CannotUseTypeDeclarationAsValue) Message() string {
	return fmt.Sprintf("%q names a type, not a value", k.Name)
}

// CannotUseVariableDeclarationAsType: an identifier resolving to a
// variable was used where a type annotation was expected.
type CannotUseVariableDeclarationAsType struct{ Name string }

func (CannotUseVariableDeclarationAsType) Code() int { return 17 }
func (k CannotUseVariableDeclarationAsType) Message() string {
	return fmt.Sprintf("%q names a variable, not a type", k.Name)
}

// VarDeclWithoutInitializer: `let x: T;` with no `= value` and no
// subsequent finalization, used as a value before being assigned.
type VarDeclWithoutInitializer struct{}

func (VarDeclWithoutInitializer) Code() int       { return 18 }
func (VarDeclWithoutInitializer) Message() string { return "variable declared without an initializer" }

// AccessToUndefinedField: a struct field access named a field the struct
// type does not have.
type AccessToUndefinedField struct{ Field, Struct string }

func (AccessToUndefinedField) Code() int { return 19 }
func (k AccessToUndefinedField) Message() string {
	return fmt.Sprintf("%s has no field %q", k.Struct, k.Field)
}

// DuplicateIdentifier: insert() found id.name already bound in the
// innermost scope.
type DuplicateIdentifier struct {
	Name        string
	OriginalAt  string // a rendered span, for "also declared at ..." context
}

func (DuplicateIdentifier) Code() int { return 20 }
func (k DuplicateIdentifier) Message() string {
	return fmt.Sprintf("%q is already declared (originally at %s)", k.Name, k.OriginalAt)
}

// FnArgumentCountMismatch: a call's argument count does not match the
// callee's parameter count.
type FnArgumentCountMismatch struct{ Expected, Received int }

func (FnArgumentCountMismatch) Code() int { return 21 }
func (k FnArgumentCountMismatch) Message() string {
	return fmt.Sprintf("expected %d arguments, got %d", k.Expected, k.Received)
}

// DuplicateStructFieldInitializer: a struct literal initialized the same
// field twice.
type DuplicateStructFieldInitializer struct{ Field string }

func (DuplicateStructFieldInitializer) Code() int { return 22 }
func (k DuplicateStructFieldInitializer) Message() string {
	return fmt.Sprintf("duplicate initializer for field %q", k.Field)
}

// UnknownStructFieldInitializer: a struct literal initialized a field the
// target struct type does not declare.
type UnknownStructFieldInitializer struct{ Field string }

func (UnknownStructFieldInitializer) Code() int { return 23 }
func (k UnknownStructFieldInitializer) Message() string {
	return fmt.Sprintf("unknown struct field %q", k.Field)
}

// MissingStructFieldInitializer: a struct literal omitted a required
// field.
type MissingStructFieldInitializer struct{ Fields []string }

func (MissingStructFieldInitializer) Code() int { return 24 }
func (k MissingStructFieldInitializer) Message() string {
	return fmt.Sprintf("missing initializer(s) for field(s) %v", k.Fields)
}

// CannotApplyStructInitializer: a `Name { ... }` literal's name did not
// resolve to a struct type.
type CannotApplyStructInitializer struct{}

func (CannotApplyStructInitializer) Code() int { return 25 }
func (CannotApplyStructInitializer) Message() string {
	return "struct initializer syntax does not apply to this type"
}

// ModuleNotFound: a `from "path" { ... }` import's path did not resolve to
// a discoverable module (spec §6.2).
type ModuleNotFound struct{ Path string }

func (ModuleNotFound) Code() int         { return 26 }
func (k ModuleNotFound) Message() string { return fmt.Sprintf("module not found: %q", k.Path) }

// SymbolNotExported: an imported name exists in the target module but was
// not exported.
type SymbolNotExported struct{ Name, Module string }

func (SymbolNotExported) Code() int { return 27 }
func (k SymbolNotExported) Message() string {
	return fmt.Sprintf("%q is not exported by module %q", k.Name, k.Module)
}

// ClosuresNotSupportedYet: a function literal captured a variable from an
// enclosing scope; capture analysis is not implemented (spec §9).
type ClosuresNotSupportedYet struct{}

func (ClosuresNotSupportedYet) Code() int       { return 28 }
func (ClosuresNotSupportedYet) Message() string { return "closures are not supported yet" }

// UseOfUninitializedVariable: the SSA builder read a variable from a block
// with no predecessors (spec §4.3).
type UseOfUninitializedVariable struct{ Name string }

func (UseOfUninitializedVariable) Code() int { return 29 }
func (k UseOfUninitializedVariable) Message() string {
	return fmt.Sprintf("use of possibly uninitialized variable %q", k.Name)
}

// IncompatibleBranchTypes: merging values at a control-flow join failed to
// unify their types (spec §4.3.1).
type IncompatibleBranchTypes struct{ A, B string }

func (IncompatibleBranchTypes) Code() int { return 30 }
func (k IncompatibleBranchTypes) Message() string {
	return fmt.Sprintf("incompatible types at branch merge: %s vs %s", k.A, k.B)
}

// CannotCastType: an explicit cast is neither a numeric cast nor a
// tag-to-union widening (spec §7).
type CannotCastType struct{ From, To string }

func (CannotCastType) Code() int { return 31 }
func (k CannotCastType) Message() string {
	return fmt.Sprintf("cannot cast %s to %s", k.From, k.To)
}

// IfExpressionMissingElse: an if used in expression context has no else
// branch (spec §4.4.2).
type IfExpressionMissingElse struct{}

func (IfExpressionMissingElse) Code() int { return 32 }
func (IfExpressionMissingElse) Message() string {
	return "if used as an expression must have an else branch"
}

// DuplicateUnionVariant: a union type annotation names the same tag twice.
type DuplicateUnionVariant struct{ Tag string }

func (DuplicateUnionVariant) Code() int { return 33 }
func (k DuplicateUnionVariant) Message() string {
	return fmt.Sprintf("duplicate union variant #%s", k.Tag)
}

// IndexOnNonList: `a[i]` where a's type is not List.
type IndexOnNonList struct{ Target string }

func (IndexOnNonList) Code() int { return 34 }
func (k IndexOnNonList) Message() string {
	return fmt.Sprintf("cannot index into a value of type %s", k.Target)
}

// CannotDeref: a unary `*` was applied to a non-pointer operand.
type CannotDeref struct{ Target string }

func (CannotDeref) Code() int { return 35 }
func (k CannotDeref) Message() string {
	return fmt.Sprintf("cannot dereference a value of type %s", k.Target)
}

// MissingReturnOnSomePath: a function declared to return a non-Void type
// has a control-flow path that falls off the end of its body without a
// Return or Unreachable terminator (supplemented from original_source's
// check_returns, see SPEC_FULL.md §3).
type MissingReturnOnSomePath struct{}

func (MissingReturnOnSomePath) Code() int { return 36 }
func (MissingReturnOnSomePath) Message() string {
	return "not all control-flow paths return a value"
}

// MatchArmUnknownTag: a match expression's arm named a tag absent from the
// subject's union type.
type MatchArmUnknownTag struct{ Tag, Subject string }

func (MatchArmUnknownTag) Code() int { return 37 }
func (k MatchArmUnknownTag) Message() string {
	return fmt.Sprintf("%s has no variant #%s", k.Subject, k.Tag)
}

// ExpectedTypeAnnotation: a `let` without an initializer also lacked a
// type annotation, so no constraint could be inferred.
type ExpectedTypeAnnotation struct{}

func (ExpectedTypeAnnotation) Code() int { return 38 }
func (ExpectedTypeAnnotation) Message() string {
	return "expected a type annotation"
}

// CannotInferType: a literal or expression's type could not be determined
// from context (e.g. an empty list literal with no element-type
// annotation in scope).
type CannotInferType struct{}

func (CannotInferType) Code() int       { return 39 }
func (CannotInferType) Message() string { return "cannot infer a type for this expression" }

// StaticAccessNotSupported: a `Module::name` static-access expression
// referenced a module that was not imported, or a name it does not export.
type StaticAccessNotSupported struct{ Module, Name string }

func (StaticAccessNotSupported) Code() int { return 40 }
func (k StaticAccessNotSupported) Message() string {
	return fmt.Sprintf("%s::%s does not resolve to an exported declaration", k.Module, k.Name)
}

// NameString is a small helper the build package uses to avoid every call
// site re-deriving "resolve StringID to text" boilerplate when filling in
// a diagnostic's Name/Field/etc. string.
func NameString(in *interner.StringInterner, id interner.StringID) string {
	return in.Lookup(id)
}
