package build

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/types"
)

// Predicate is what an atomic condition (`x is #Tag`, `x == other`,
// `x != other`) tells us about a variable's type along each branch of the
// condition, the narrowing unit spec §4.4.3 propagates through CondJump's
// two successor edges.
type Predicate struct {
	Var       *hir.Var
	TrueType  types.Type
	FalseType types.Type
}

// unionSubtract removes target's variant(s) from a union's variant set,
// ported from original_source's union_subtract: subtracting a plain tag
// removes that one variant; subtracting a union removes every variant it
// names.
func unionSubtract(variants []types.TagType, target types.Type) types.Type {
	toRemove := map[int32]bool{}
	if tag, ok := target.AsTag(); ok {
		toRemove[int32(tag.ID)] = true
	} else if union, ok := target.AsUnion(); ok {
		for _, v := range union {
			toRemove[int32(v.ID)] = true
		}
	}
	var kept []types.TagType
	for _, v := range variants {
		if !toRemove[int32(v.ID)] {
			kept = append(kept, v)
		}
	}
	return types.UnionOf(tagTypesToTypes(kept)...)
}

func tagTypesToTypes(tags []types.TagType) []types.Type {
	out := make([]types.Type, len(tags))
	for i, t := range tags {
		out[i] = types.NewTag(t.ID, t.Payload)
	}
	return out
}

// identifierVar resolves an ast.Expr to the *hir.Var it names, if it is a
// bare identifier bound to a variable (as opposed to a function or type
// alias, or any non-identifier expression).
func (lw *Lowerer) identifierVar(e *ast.Expr) (*hir.Var, bool) {
	id, ok := e.Kind.(ast.ExIdentifier)
	if !ok {
		return nil, false
	}
	decl, ok := lw.Scopes.Lookup(id.Name.Name)
	if !ok {
		return nil, false
	}
	v, ok := decl.(*hir.Var)
	return v, ok
}

// AnalyzeAtomicCondition extracts a narrowing Predicate from a single,
// non-compound condition expression, mirroring
// analyze_atomic_condition in original_source's check_condition_expr.rs.
// It returns ok == false for any condition shape that carries no narrowing
// information (most conditions).
func (lw *Lowerer) AnalyzeAtomicCondition(cond *ast.Expr, condType types.Type) (Predicate, bool) {
	switch k := cond.Kind.(type) {
	case ast.ExIsType:
		v, ok := lw.identifierVar(k.Left)
		if !ok {
			return Predicate{}, false
		}
		leftType := lw.TypeOf(k.Left)
		variants, ok := leftType.AsUnion()
		if !ok {
			if tag, ok := leftType.AsTag(); ok {
				variants = []types.TagType{tag}
			} else {
				return Predicate{}, false
			}
		}
		target := lw.resolveTypeAnnotation(k.Target)
		return Predicate{
			Var:       v,
			TrueType:  target,
			FalseType: unionSubtract(variants, target),
		}, true

	case ast.ExBinary:
		if k.Op != ast.BinEqual && k.Op != ast.BinNotEqual {
			return Predicate{}, false
		}
		identExpr, otherExpr, ok := identifierAndOther(k.Left, k.Right)
		if !ok {
			return Predicate{}, false
		}
		v, ok := lw.identifierVar(identExpr)
		if !ok {
			return Predicate{}, false
		}
		identTy := lw.TypeOf(identExpr)
		variants, ok := identTy.AsUnion()
		if !ok {
			return Predicate{}, false
		}
		otherTy := lw.TypeOf(otherExpr)
		specific := otherTy
		subtracted := unionSubtract(variants, otherTy)
		if k.Op == ast.BinNotEqual {
			return Predicate{Var: v, TrueType: subtracted, FalseType: specific}, true
		}
		return Predicate{Var: v, TrueType: specific, FalseType: subtracted}, true
	}
	return Predicate{}, false
}

func identifierAndOther(left, right *ast.Expr) (ident, other *ast.Expr, ok bool) {
	if _, isIdent := left.Kind.(ast.ExIdentifier); isIdent {
		return left, right, true
	}
	if _, isIdent := right.Kind.(ast.ExIdentifier); isIdent {
		return right, left, true
	}
	return nil, nil, false
}
