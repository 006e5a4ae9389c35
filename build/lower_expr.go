package build

import (
	"strconv"

	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

// LowerExpr lowers a single expression to an SSA value, emitting whatever
// instructions (and, for control-flow-bearing expressions, basic blocks)
// are needed along the way, and returns both the value and its resolved
// type (spec §4.4).
func (lw *Lowerer) LowerExpr(e *ast.Expr) (hir.ValueID, types.Type) {
	switch k := e.Kind.(type) {
	case ast.ExNumber:
		return lw.lowerNumber(e, k)
	case ast.ExBool:
		c := lw.Prog.InternConstant(hir.ConstBool{Value: k.Value}, types.NewPrimitive(types.Bool))
		v := lw.Builder.Emit(e.Span, types.NewPrimitive(types.Bool), hir.LoadConstant{Const: c})
		return v, lw.record(e, types.NewPrimitive(types.Bool))
	case ast.ExNull:
		t := types.NewPointer(types.PointerRef, types.UnknownType, types.UnknownType)
		c := lw.Prog.InternConstant(hir.ConstNull{}, t)
		v := lw.Builder.Emit(e.Span, t, hir.LoadConstant{Const: c})
		return v, lw.record(e, t)
	case ast.ExVoid:
		t := types.NewPrimitive(types.Void)
		c := lw.Prog.InternConstant(hir.ConstVoid{}, t)
		v := lw.Builder.Emit(e.Span, t, hir.LoadConstant{Const: c})
		return v, lw.record(e, t)
	case ast.ExString:
		id := lw.Strs.Intern(k.Value)
		c := lw.Prog.InternConstant(hir.ConstString{Value: id}, types.StringType)
		v := lw.Builder.Emit(e.Span, types.StringType, hir.LoadConstant{Const: c})
		return v, lw.record(e, types.StringType)
	case ast.ExIdentifier:
		return lw.lowerIdentifier(e, k)
	case ast.ExUnary:
		return lw.lowerUnary(e, k)
	case ast.ExBinary:
		return lw.lowerBinary(e, k)
	case ast.ExIsType:
		return lw.lowerIsType(e, k)
	case ast.ExAccess:
		return lw.lowerAccess(e, k)
	case ast.ExIndex:
		return lw.lowerIndex(e, k)
	case ast.ExTypeCast:
		return lw.lowerTypeCast(e, k)
	case ast.ExFnCall:
		return lw.lowerFnCall(e, k)
	case ast.ExTag:
		return lw.lowerTag(e, k)
	case ast.ExStruct:
		return lw.lowerStruct(e, k)
	case ast.ExList:
		return lw.lowerList(e, k)
	case ast.ExCodeBlock:
		return lw.LowerCodeBlockExpr(e, k)
	case ast.ExIf:
		return lw.LowerIf(e, k, true)
	case ast.ExFn:
		return lw.lowerFnLiteral(e, k)
	case ast.ExMatch:
		return lw.lowerMatch(e, k)
	case ast.ExStaticAccess:
		v := lw.poison(e, diag.StaticAccessNotSupported{Module: lw.Strs.Lookup(k.Target.Name), Name: lw.Strs.Lookup(k.Member.Name)})
		return v, lw.record(e, types.UnknownType)
	}
	panic("INTERNAL COMPILER ERROR: unhandled expr kind")
}

func (lw *Lowerer) poison(e *ast.Expr, kind diag.Kind) hir.ValueID {
	return lw.Builder.ReportErrorAndGetPoison(e.Span, kind)
}

func (lw *Lowerer) lowerNumber(e *ast.Expr, k ast.ExNumber) (hir.ValueID, types.Type) {
	t := numberKindType(k.Kind)
	var kind hir.ConstantKind
	if p, _ := t.AsPrimitive(); types.IsFloat(p) {
		f, _ := strconv.ParseFloat(k.Text, 64)
		kind = hir.ConstFloat{Value: f}
	} else if p, _ := t.AsPrimitive(); types.IsSigned(p) {
		i, _ := strconv.ParseInt(k.Text, 10, 64)
		kind = hir.ConstInt{Value: i}
	} else {
		u, _ := strconv.ParseUint(k.Text, 10, 64)
		kind = hir.ConstUint{Value: u}
	}
	c := lw.Prog.InternConstant(kind, t)
	v := lw.Builder.Emit(e.Span, t, hir.LoadConstant{Const: c})
	return v, lw.record(e, t)
}

func numberKindType(k ast.NumberKind) types.Type {
	m := map[ast.NumberKind]types.Primitive{
		ast.NumI8: types.I8, ast.NumI16: types.I16, ast.NumI32: types.I32, ast.NumI64: types.I64, ast.NumISize: types.ISize,
		ast.NumU8: types.U8, ast.NumU16: types.U16, ast.NumU32: types.U32, ast.NumU64: types.U64, ast.NumUSize: types.USize,
		ast.NumF32: types.F32, ast.NumF64: types.F64,
	}
	return types.NewPrimitive(m[k])
}

func (lw *Lowerer) lowerIdentifier(e *ast.Expr, k ast.ExIdentifier) (hir.ValueID, types.Type) {
	decl, ok := lw.Scopes.Lookup(k.Name.Name)
	if !ok {
		v := lw.poison(e, diag.UndeclaredIdentifier{Name: lw.Strs.Lookup(k.Name.Name)})
		return v, lw.record(e, types.UnknownType)
	}
	switch d := decl.(type) {
	case *hir.Var:
		if !lw.declaredHere[d] {
			v := lw.poison(e, diag.ClosuresNotSupportedYet{})
			return v, lw.record(e, types.UnknownType)
		}
		v := lw.Builder.ReadVariable(d)
		return v, lw.record(e, lw.EffectiveType(d))
	case *hir.UninitializedVar:
		v := lw.poison(e, diag.VarDeclWithoutInitializer{})
		return v, lw.record(e, types.UnknownType)
	case *hir.FunctionDecl:
		if d.Fn == nil {
			panic("INTERNAL COMPILER ERROR: FunctionDecl reachable from scope with no Fn shell registered")
		}
		c := lw.Prog.InternConstant(hir.ConstUint{Value: uint64(d.Fn.ID)}, d.Type)
		v := lw.Builder.Emit(e.Span, d.Type, hir.LoadConstant{Const: c})
		return v, lw.record(e, d.Type)
	case *hir.TypeAliasDecl:
		v := lw.poison(e, diag.CannotUseTypeDeclarationAsValue{Name: d.Name})
		return v, lw.record(e, types.UnknownType)
	}
	panic("INTERNAL COMPILER ERROR: unknown declaration kind")
}

func (lw *Lowerer) lowerUnary(e *ast.Expr, k ast.ExUnary) (hir.ValueID, types.Type) {
	operand, opType := lw.LowerExpr(k.Operand)
	switch k.Op {
	case ast.UnaryNeg:
		if p, ok := opType.AsPrimitive(); !ok || !types.IsNumeric(p) {
			v := lw.poison(e, diag.ArithmeticOperandNotNumeric{Operand: types.String(opType, lw.Strs, lw.Tags)})
			return v, lw.record(e, types.UnknownType)
		}
		v := lw.Builder.Emit(e.Span, opType, hir.UnaryOpInstr{Op: k.Op, Operand: operand})
		return v, lw.record(e, opType)
	case ast.UnaryNot:
		v := lw.Builder.Emit(e.Span, types.NewPrimitive(types.Bool), hir.UnaryOpInstr{Op: k.Op, Operand: operand})
		return v, lw.record(e, types.NewPrimitive(types.Bool))
	case ast.UnaryDeref:
		_, constraint, narrowed, ok := opType.AsPointer()
		if !ok {
			v := lw.poison(e, diag.CannotDeref{Target: types.String(opType, lw.Strs, lw.Tags)})
			return v, lw.record(e, types.UnknownType)
		}
		_ = constraint
		v := lw.Builder.Emit(e.Span, narrowed, hir.Load{Ptr: operand})
		return v, lw.record(e, narrowed)
	}
	panic("INTERNAL COMPILER ERROR: unknown unary op")
}

func (lw *Lowerer) lowerBinary(e *ast.Expr, k ast.ExBinary) (hir.ValueID, types.Type) {
	if k.Op == ast.BinAnd || k.Op == ast.BinOr {
		return lw.lowerShortCircuit(e, k)
	}
	left, leftType := lw.LowerExpr(k.Left)
	right, rightType := lw.LowerExpr(k.Right)

	switch k.Op {
	case ast.BinEqual, ast.BinNotEqual:
		if !types.Equatable(leftType, rightType) {
			v := lw.poison(e, diag.CannotCompareType{Of: types.String(leftType, lw.Strs, lw.Tags), To: types.String(rightType, lw.Strs, lw.Tags)})
			return v, lw.record(e, types.UnknownType)
		}
		v := lw.Builder.Emit(e.Span, types.NewPrimitive(types.Bool), hir.BinaryOpInstr{Op: k.Op, Left: left, Right: right})
		return v, lw.record(e, types.NewPrimitive(types.Bool))
	case ast.BinLess, ast.BinLessEqual, ast.BinGreater, ast.BinGreaterEqual:
		if !lw.bothNumeric(e, leftType, rightType) {
			return lw.poison(e, diag.ArithmeticOperandNotNumeric{Operand: types.String(leftType, lw.Strs, lw.Tags)}), lw.record(e, types.UnknownType)
		}
		v := lw.Builder.Emit(e.Span, types.NewPrimitive(types.Bool), hir.BinaryOpInstr{Op: k.Op, Left: left, Right: right})
		return v, lw.record(e, types.NewPrimitive(types.Bool))
	default: // arithmetic
		resultType, ok := lw.arithmeticResultType(e, leftType, rightType)
		if !ok {
			return lw.poison(e, diag.ArithmeticOperandNotNumeric{Operand: types.String(leftType, lw.Strs, lw.Tags)}), lw.record(e, types.UnknownType)
		}
		v := lw.Builder.Emit(e.Span, resultType, hir.BinaryOpInstr{Op: k.Op, Left: left, Right: right})
		return v, lw.record(e, resultType)
	}
}

func (lw *Lowerer) bothNumeric(e *ast.Expr, left, right types.Type) bool {
	lp, lok := left.AsPrimitive()
	rp, rok := right.AsPrimitive()
	return lok && rok && types.IsNumeric(lp) && types.IsNumeric(rp)
}

// arithmeticResultType checks operand numericness and signedness
// compatibility and widens to the higher-ranked operand type (spec §4.1
// rules on numeric binary operators; ported from
// get_numeric_type_rank.rs's use at binary-operator check sites).
func (lw *Lowerer) arithmeticResultType(e *ast.Expr, left, right types.Type) (types.Type, bool) {
	lp, lok := left.AsPrimitive()
	rp, rok := right.AsPrimitive()
	if !lok || !rok || !types.IsNumeric(lp) || !types.IsNumeric(rp) {
		return types.UnknownType, false
	}
	if types.IsFloat(lp) != types.IsFloat(rp) {
		lw.Bag.Add(diag.MixedFloatAndInteger{Left: types.String(left, lw.Strs, lw.Tags), Right: types.String(right, lw.Strs, lw.Tags)}, e.Span)
		return types.UnknownType, false
	}
	if !types.IsFloat(lp) && types.IsSigned(lp) != types.IsSigned(rp) {
		lw.Bag.Add(diag.MixedSignedAndUnsigned{Left: types.String(left, lw.Strs, lw.Tags), Right: types.String(right, lw.Strs, lw.Tags)}, e.Span)
		return types.UnknownType, false
	}
	if types.NumericRank(lp) >= types.NumericRank(rp) {
		return left, true
	}
	return right, true
}

// lowerShortCircuit lowers && / || by building the mini-CFG spec §4.4.4
// describes: a fresh block evaluates the right operand only when the left
// operand's value doesn't already decide the result.
func (lw *Lowerer) lowerShortCircuit(e *ast.Expr, k ast.ExBinary) (hir.ValueID, types.Type) {
	b := lw.Builder
	left, _ := lw.LowerExpr(k.Left)

	rightBlock := b.NewBasicBlock()
	mergeBlock := b.NewBasicBlock()
	boolType := types.NewPrimitive(types.Bool)

	if k.Op == ast.BinAnd {
		b.SetTerminator(hir.CondJump{Cond: left, TrueTarget: rightBlock, FalseTarget: mergeBlock, FalseArgs: []hir.ValueID{left}})
	} else {
		b.SetTerminator(hir.CondJump{Cond: left, TrueTarget: mergeBlock, TrueArgs: []hir.ValueID{left}, FalseTarget: rightBlock})
	}
	b.SealBlock(rightBlock)
	b.UseBasicBlock(rightBlock)
	right, _ := lw.LowerExpr(k.Right)
	b.SetTerminator(hir.Jump{Target: mergeBlock, Args: []hir.ValueID{right}})

	b.SealBlock(mergeBlock)
	b.UseBasicBlock(mergeBlock)
	result := b.AppendBlockParam(mergeBlock, boolType)
	return result, lw.record(e, boolType)
}

func (lw *Lowerer) lowerIsType(e *ast.Expr, k ast.ExIsType) (hir.ValueID, types.Type) {
	leftValue, leftType := lw.LowerExpr(k.Left)
	target := lw.resolveTypeAnnotation(k.Target)

	var tagIDs []interner.TagID
	if tag, ok := target.AsTag(); ok {
		tagIDs = []interner.TagID{tag.ID}
	} else if variants, ok := target.AsUnion(); ok {
		for _, v := range variants {
			tagIDs = append(tagIDs, v.ID)
		}
	} else {
		v := lw.poison(e, diag.CannotCompareType{Of: types.String(leftType, lw.Strs, lw.Tags), To: types.String(target, lw.Strs, lw.Tags)})
		return v, lw.record(e, types.UnknownType)
	}

	boolType := types.NewPrimitive(types.Bool)
	v := lw.Builder.Emit(e.Span, boolType, hir.IsTypeCheck{Value: leftValue, Tags: tagIDs})
	return v, lw.record(e, boolType)
}
