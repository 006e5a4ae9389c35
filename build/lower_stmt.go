package build

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/scope"
	"github.com/tagc-lang/tagc/types"
)

// LowerCodeBlockExpr lowers a `{ ... }` block used in expression position
// (an if/else body, a function body): its value is its last statement's
// expression value if that statement is a bare StExpression, or Void
// otherwise.
func (lw *Lowerer) LowerCodeBlockExpr(e *ast.Expr, k ast.ExCodeBlock) (hir.ValueID, types.Type) {
	lw.Scopes.Enter(scope.CodeBlock)
	defer lw.Scopes.Exit()

	var lastValue hir.ValueID
	lastType := types.NewPrimitive(types.Void)
	for i, s := range k.Stmts {
		if i == len(k.Stmts)-1 {
			if expr, ok := s.Kind.(ast.StExpression); ok {
				lastValue, lastType = lw.LowerExpr(expr.Expr)
				break
			}
		}
		lw.LowerStmt(s)
		if lw.Builder.CurrentBlock().HasTerminator() {
			break
		}
	}
	return lastValue, lw.record(e, lastType)
}

// LowerCodeBlock lowers a `{ ... }` block used purely for its statements
// (a while loop body); its trailing value, if any, is discarded.
func (lw *Lowerer) LowerCodeBlock(k ast.ExCodeBlock) {
	lw.Scopes.Enter(scope.CodeBlock)
	defer lw.Scopes.Exit()
	for _, s := range k.Stmts {
		lw.LowerStmt(s)
		if lw.Builder.CurrentBlock().HasTerminator() {
			break
		}
	}
}

// LowerStmt lowers one statement, emitting instructions and/or control
// flow into the current block (spec §4.4).
func (lw *Lowerer) LowerStmt(s ast.Stmt) {
	switch k := s.Kind.(type) {
	case ast.StExpression:
		if ifk, ok := k.Expr.Kind.(ast.ExIf); ok {
			lw.LowerIf(k.Expr, ifk, false)
			return
		}
		lw.LowerExpr(k.Expr)
	case ast.StVarDecl:
		lw.lowerVarDecl(s, k)
	case ast.StTypeAliasDecl:
		lw.lowerTypeAliasDecl(s, k)
	case ast.StReturn:
		lw.lowerReturn(s, k)
	case ast.StBreak:
		lw.lowerBreak(s)
	case ast.StContinue:
		lw.lowerContinue(s)
	case ast.StAssignment:
		lw.lowerAssignment(s, k)
	case ast.StWhile:
		lw.LowerWhile(k)
	case ast.StFrom:
		// Module-level imports are resolved by ProgramBuilder before any
		// function body is lowered (spec §5, §6.2); a From statement
		// reaching function-body lowering has no further effect here.
	}
}

func (lw *Lowerer) lowerVarDecl(s ast.Stmt, k ast.StVarDecl) {
	if !k.Initialized {
		if k.Constraint == nil {
			lw.Bag.Add(diag.ExpectedTypeAnnotation{}, s.Span)
		}
		lw.Scopes.Insert(lw.Strs, lw.Bag, k.Name, &hir.UninitializedVar{
			Name: lw.Strs.Lookup(k.Name.Name), Span: k.Name.Span,
		})
		return
	}

	value, valueType := lw.LowerExpr(k.Value)
	constraint := valueType
	if k.Constraint != nil {
		constraint = lw.resolveTypeAnnotation(k.Constraint)
		if !types.Assignable(valueType, constraint) {
			lw.Bag.Add(diag.TypeMismatch{
				Expected: types.String(constraint, lw.Strs, lw.Tags),
				Received: types.String(valueType, lw.Strs, lw.Tags),
			}, k.Value.Span)
		}
	}

	v := &hir.Var{
		Name:       lw.Strs.Lookup(k.Name.Name),
		Span:       k.Name.Span,
		Constraint: constraint,
		Storage:    hir.StackSlot{},
	}
	lw.declareVar(v)
	lw.Builder.WriteVariable(v, value)
	lw.Scopes.Insert(lw.Strs, lw.Bag, k.Name, v)
}

func (lw *Lowerer) lowerTypeAliasDecl(s ast.Stmt, k ast.StTypeAliasDecl) {
	t := lw.resolveTypeAnnotation(k.Value)
	lw.Scopes.Insert(lw.Strs, lw.Bag, k.Name, &hir.TypeAliasDecl{
		Name: lw.Strs.Lookup(k.Name.Name), Span: k.Name.Span, Type: t,
	})
}

func (lw *Lowerer) lowerReturn(s ast.Stmt, k ast.StReturn) {
	if !lw.Scopes.WithinFunction() {
		lw.Bag.Add(diag.ReturnKeywordOutsideFunction{}, s.Span)
	}
	if k.Value == nil {
		if !types.Identical(lw.ReturnType, types.NewPrimitive(types.Void)) {
			lw.Bag.Add(diag.ReturnTypeMismatch{
				Expected: types.String(lw.ReturnType, lw.Strs, lw.Tags),
				Received: "void",
			}, s.Span)
		}
		lw.Builder.SetTerminator(hir.Return{})
		return
	}
	value, valueType := lw.LowerExpr(k.Value)
	if !types.Assignable(valueType, lw.ReturnType) {
		lw.Bag.Add(diag.ReturnTypeMismatch{
			Expected: types.String(lw.ReturnType, lw.Strs, lw.Tags),
			Received: types.String(valueType, lw.Strs, lw.Tags),
		}, k.Value.Span)
	}
	lw.Builder.SetTerminator(hir.Return{Value: &value})
}

func (lw *Lowerer) lowerBreak(s ast.Stmt) {
	targets, ok := lw.Scopes.WithinLoop()
	if !ok {
		lw.Bag.Add(diag.BreakKeywordOutsideLoop{}, s.Span)
		lw.Builder.SetTerminator(hir.Unreachable{})
		return
	}
	lw.Builder.SetTerminator(hir.Jump{Target: targets.BreakTarget})
}

func (lw *Lowerer) lowerContinue(s ast.Stmt) {
	targets, ok := lw.Scopes.WithinLoop()
	if !ok {
		lw.Bag.Add(diag.ContinueKeywordOutsideLoop{}, s.Span)
		lw.Builder.SetTerminator(hir.Unreachable{})
		return
	}
	lw.Builder.SetTerminator(hir.Jump{Target: targets.ContinueTarget})
}

func (lw *Lowerer) lowerAssignment(s ast.Stmt, k ast.StAssignment) {
	value, valueType := lw.LowerExpr(k.Value)

	switch target := k.Target.Kind.(type) {
	case ast.ExIdentifier:
		v, ok := lw.identifierVar(k.Target)
		if !ok {
			lw.Bag.Add(diag.InvalidLValue{}, s.Span)
			return
		}
		if !types.Assignable(valueType, v.Constraint) {
			lw.Bag.Add(diag.TypeMismatch{
				Expected: types.String(v.Constraint, lw.Strs, lw.Tags),
				Received: types.String(valueType, lw.Strs, lw.Tags),
			}, k.Value.Span)
		}
		lw.Builder.WriteVariable(v, value)
		// A direct reassignment clears any narrowing in effect: the new
		// value need not satisfy the narrowed type, only the declared
		// constraint (just checked above).
		delete(lw.varNarrowing, v)

	case ast.ExAccess:
		base, baseType := lw.LowerExpr(target.Target)
		fields, ok := baseType.AsUserDefined()
		if !ok {
			lw.Bag.Add(diag.CannotAccess{Target: types.String(baseType, lw.Strs, lw.Tags)}, target.Target.Span)
			return
		}
		idx, fieldType, ok := fieldIndex(fields, target.Field.Name)
		if !ok {
			lw.Bag.Add(diag.AccessToUndefinedField{Field: lw.Strs.Lookup(target.Field.Name), Struct: types.String(baseType, lw.Strs, lw.Tags)}, target.Field.Span)
			return
		}
		if !types.Assignable(valueType, fieldType) {
			lw.Bag.Add(diag.TypeMismatch{Expected: types.String(fieldType, lw.Strs, lw.Tags), Received: types.String(valueType, lw.Strs, lw.Tags)}, k.Value.Span)
		}
		ptr := lw.Builder.Emit(target.Target.Span, types.NewPointer(types.PointerMut, fieldType, fieldType), hir.GetFieldPtr{Base: base, FieldName: lw.Strs.Lookup(target.Field.Name), FieldIdx: idx})
		lw.Builder.Emit(s.Span, types.NewPrimitive(types.Void), hir.Store{Ptr: ptr, Value: value})

	case ast.ExIndex:
		base, baseType := lw.LowerExpr(target.Target)
		item, ok := baseType.AsList()
		if !ok {
			lw.Bag.Add(diag.IndexOnNonList{Target: types.String(baseType, lw.Strs, lw.Tags)}, target.Target.Span)
			return
		}
		index, _ := lw.LowerExpr(target.Index)
		if !types.Assignable(valueType, item) {
			lw.Bag.Add(diag.TypeMismatch{Expected: types.String(item, lw.Strs, lw.Tags), Received: types.String(valueType, lw.Strs, lw.Tags)}, k.Value.Span)
		}
		ptr := lw.Builder.Emit(target.Span, types.NewPointer(types.PointerMut, item, item), hir.GetElementPtr{Base: base, Index: index})
		lw.Builder.Emit(s.Span, types.NewPrimitive(types.Void), hir.Store{Ptr: ptr, Value: value})

	default:
		lw.Bag.Add(diag.InvalidLValue{}, s.Span)
	}
}

// fieldIndex finds name's position in a struct's canonical field order
// (the order the packer fixed at construction time, spec §4.1 rule 7).
func fieldIndex(fields []types.Field, name interner.StringID) (int, types.Type, bool) {
	for i, f := range fields {
		if f.Name == name {
			return i, f.Type, true
		}
	}
	return 0, types.Type{}, false
}
