package build

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/scope"
	"github.com/tagc-lang/tagc/types"
)

// Lowerer drives HIR lowering for one function body: it walks ast.Expr /
// ast.Stmt nodes, emits instructions against the current FunctionBuilder,
// and maintains the scope stack the declarations it introduces register
// into (spec §4.4).
type Lowerer struct {
	Builder *FunctionBuilder
	Scopes  *scope.Stack
	Bag     *diag.Bag
	Strs    *interner.StringInterner
	Tags    *interner.TagInterner
	Prog    *hir.Program

	// ReturnType is the declared return type of the function currently
	// being lowered, checked against every `return` statement within it.
	ReturnType types.Type

	// exprTypes caches the type every already-lowered expression node
	// resolved to, so callers that need an operand's type after it has
	// been lowered (narrowing predicate analysis, in particular) can
	// look it up instead of re-lowering it and duplicating its
	// side-effecting instructions.
	exprTypes map[*ast.Expr]types.Type
	taTypes   map[*ast.TypeAnnotation]types.Type

	// varNarrowing holds the lexically in-effect narrowed type for any
	// variable currently narrowed by an enclosing `if`/`while` condition
	// (see condition.go's PushNarrowing and the restore function it returns).
	varNarrowing map[*hir.Var]types.Type

	// declaredHere marks every *hir.Var this Lowerer itself introduced
	// (parameters, `let` bindings, match-arm bindings). A nested function
	// literal gets its own Lowerer with its own empty declaredHere, so any
	// *hir.Var reached through scope lookup that is NOT in it names a
	// variable from an enclosing function — a capture, which this front
	// end does not support yet (spec §9).
	declaredHere map[*hir.Var]bool
}

// declareVar marks v as introduced by this Lowerer's own function body.
func (lw *Lowerer) declareVar(v *hir.Var) {
	lw.declaredHere[v] = true
}

// NewLowerer creates a lowerer sharing prog's interners and value-type
// table, operating against builder's in-progress function and scopes'
// scope stack (already positioned at the function's top-level scope).
func NewLowerer(builder *FunctionBuilder, scopes *scope.Stack, bag *diag.Bag, prog *hir.Program) *Lowerer {
	return &Lowerer{
		Builder:   builder,
		Scopes:    scopes,
		Bag:       bag,
		Strs:      prog.Strings,
		Tags:      prog.Tags,
		Prog:      prog,
		exprTypes:    map[*ast.Expr]types.Type{},
		taTypes:      map[*ast.TypeAnnotation]types.Type{},
		declaredHere: map[*hir.Var]bool{},
	}
}

// TypeOf returns the type a previously lowered expression resolved to. It
// panics if e has not been lowered yet — every call site only asks for the
// type of a subexpression it has already recursed into.
func (lw *Lowerer) TypeOf(e *ast.Expr) types.Type {
	t, ok := lw.exprTypes[e]
	if !ok {
		panic("INTERNAL COMPILER ERROR: TypeOf called on an expression that has not been lowered")
	}
	return t
}

// record remembers e's resolved type and returns it, so every lowerExpr
// case can end with `return v, lw.record(e, t)`.
func (lw *Lowerer) record(e *ast.Expr, t types.Type) types.Type {
	lw.exprTypes[e] = t
	return t
}

// resolveTypeAnnotation lowers a surface type annotation to a types.Type,
// resolving TAIdentifier against the scope stack (spec §4.4, "type
// annotations resolve through the same declaration registry as values").
func (lw *Lowerer) resolveTypeAnnotation(ta *ast.TypeAnnotation) types.Type {
	if ta == nil {
		return types.NewPrimitive(types.Void)
	}
	if t, ok := lw.taTypes[ta]; ok {
		return t
	}
	t := lw.resolveTypeAnnotationUncached(ta)
	lw.taTypes[ta] = t
	return t
}

func (lw *Lowerer) resolveTypeAnnotationUncached(ta *ast.TypeAnnotation) types.Type {
	switch k := ta.Kind.(type) {
	case ast.TAPrimitive:
		return primitiveFromName(k.Name)
	case ast.TAIdentifier:
		decl, ok := lw.Scopes.Lookup(k.Name.Name)
		if !ok {
			return lw.Builder.ReportErrorAndGetPoisonType(ta.Span, diag.UndeclaredType{Name: lw.Strs.Lookup(k.Name.Name)})
		}
		alias, ok := decl.(*hir.TypeAliasDecl)
		if !ok {
			return lw.Builder.ReportErrorAndGetPoisonType(ta.Span, diag.CannotUseVariableDeclarationAsType{Name: lw.Strs.Lookup(k.Name.Name)})
		}
		return alias.Type
	case ast.TAPointer:
		constraint := lw.resolveTypeAnnotation(k.Constraint)
		return types.NewPointer(types.PointerMut, constraint, constraint)
	case ast.TAFn:
		params := make([]types.Type, len(k.Params))
		for i, p := range k.Params {
			params[i] = lw.resolveTypeAnnotation(p)
		}
		ret := lw.resolveTypeAnnotation(k.Return)
		return types.NewFn(params, ret)
	case ast.TAList:
		return types.NewList(lw.resolveTypeAnnotation(k.Item))
	case ast.TATag:
		name := lw.Tags.Intern(lw.Strs.Lookup(k.Name.Name))
		var payload *types.Type
		if k.Payload != nil {
			p := lw.resolveTypeAnnotation(k.Payload)
			payload = &p
		}
		return types.NewTag(name, payload)
	case ast.TAUnion:
		seen := map[interner.TagID]bool{}
		members := make([]types.Type, 0, len(k.Members))
		for _, m := range k.Members {
			mt := lw.resolveTypeAnnotation(m)
			if tag, ok := mt.AsTag(); ok {
				if seen[tag.ID] {
					lw.Bag.Add(diag.DuplicateUnionVariant{Tag: lw.Tags.Lookup(tag.ID)}, m.Span)
					continue
				}
				seen[tag.ID] = true
			}
			members = append(members, mt)
		}
		return types.UnionOf(members...)
	}
	return types.UnknownType
}

func primitiveFromName(name string) types.Type {
	if name == "string" {
		return types.StringType
	}
	names := map[string]types.Primitive{
		"void": types.Void, "bool": types.Bool,
		"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64, "isize": types.ISize,
		"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64, "usize": types.USize,
		"f32": types.F32, "f64": types.F64,
	}
	if p, ok := names[name]; ok {
		return types.NewPrimitive(p)
	}
	return types.UnknownType
}

// ReportErrorAndGetPoisonType is the type-annotation-resolution analogue of
// ReportErrorAndGetPoison: it records the diagnostic but, since type
// annotations never themselves produce an SSA value, returns Unknown
// directly instead of minting a poison value.
func (b *FunctionBuilder) ReportErrorAndGetPoisonType(span ast.Span, kind diag.Kind) types.Type {
	b.Bag.Add(kind, span)
	return types.UnknownType
}
