package build

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/scope"
	"github.com/tagc-lang/tagc/types"
)

func (lw *Lowerer) lowerAccess(e *ast.Expr, k ast.ExAccess) (hir.ValueID, types.Type) {
	base, baseType := lw.LowerExpr(k.Target)
	fields, ok := baseType.AsUserDefined()
	if !ok {
		if baseType.IsUnknown() {
			return lw.Builder.AllocValue(types.UnknownType), lw.record(e, types.UnknownType)
		}
		v := lw.poison(e, diag.CannotAccess{Target: types.String(baseType, lw.Strs, lw.Tags)})
		return v, lw.record(e, types.UnknownType)
	}
	idx, fieldType, ok := fieldIndex(fields, k.Field.Name)
	if !ok {
		v := lw.poison(e, diag.AccessToUndefinedField{
			Field:  lw.Strs.Lookup(k.Field.Name),
			Struct: types.String(baseType, lw.Strs, lw.Tags),
		})
		return v, lw.record(e, types.UnknownType)
	}
	ptrType := types.NewPointer(types.PointerRef, fieldType, fieldType)
	ptr := lw.Builder.Emit(e.Span, ptrType, hir.GetFieldPtr{Base: base, FieldName: lw.Strs.Lookup(k.Field.Name), FieldIdx: idx})
	v := lw.Builder.Emit(e.Span, fieldType, hir.Load{Ptr: ptr})
	return v, lw.record(e, fieldType)
}

func (lw *Lowerer) lowerIndex(e *ast.Expr, k ast.ExIndex) (hir.ValueID, types.Type) {
	base, baseType := lw.LowerExpr(k.Target)
	item, ok := baseType.AsList()
	if !ok {
		if baseType.IsUnknown() {
			return lw.Builder.AllocValue(types.UnknownType), lw.record(e, types.UnknownType)
		}
		v := lw.poison(e, diag.IndexOnNonList{Target: types.String(baseType, lw.Strs, lw.Tags)})
		return v, lw.record(e, types.UnknownType)
	}
	index, indexType := lw.LowerExpr(k.Index)
	if p, ok := indexType.AsPrimitive(); !ok || !types.IsInteger(p) {
		lw.Bag.Add(diag.TypeMismatch{Expected: "an integer", Received: types.String(indexType, lw.Strs, lw.Tags)}, k.Index.Span)
	}

	okTag := lw.Tags.Intern("Ok")
	oobTag := lw.Tags.Intern("OutOfBounds")
	resultType := types.UnionOf(types.NewTag(okTag, &item), types.NewTag(oobTag, nil))
	v := lw.Builder.Emit(e.Span, resultType, hir.CheckedIndex{List: base, Index: index, OkTag: okTag, OutOfBoundsTag: oobTag})
	return v, lw.record(e, resultType)
}

func (lw *Lowerer) lowerTypeCast(e *ast.Expr, k ast.ExTypeCast) (hir.ValueID, types.Type) {
	value, fromType := lw.LowerExpr(k.Target)
	toType := lw.resolveTypeAnnotation(k.To)

	fromPrim, fromIsPrim := fromType.AsPrimitive()
	toPrim, toIsPrim := toType.AsPrimitive()
	validNumericCast := fromIsPrim && toIsPrim && types.IsNumeric(fromPrim) && types.IsNumeric(toPrim)

	validTagWiden := false
	if tag, ok := fromType.AsTag(); ok {
		if variants, ok := toType.AsUnion(); ok {
			validTagWiden = tagInVariants(tag, variants)
		}
	}

	if !validNumericCast && !validTagWiden && !fromType.IsUnknown() {
		v := lw.poison(e, diag.CannotCastType{
			From: types.String(fromType, lw.Strs, lw.Tags),
			To:   types.String(toType, lw.Strs, lw.Tags),
		})
		return v, lw.record(e, types.UnknownType)
	}

	v := lw.Builder.Emit(e.Span, toType, hir.TypeCast{Operand: value, To: toType})
	return v, lw.record(e, toType)
}

// tagInVariants reports whether tag appears among variants, by TagID —
// shared with types.Equatable's own helper of the same shape but kept
// local here since build must not import types' unexported helpers.
func tagInVariants(tag types.TagType, variants []types.TagType) bool {
	for _, v := range variants {
		if v.ID == tag.ID {
			return true
		}
	}
	return false
}

func (lw *Lowerer) lowerFnCall(e *ast.Expr, k ast.ExFnCall) (hir.ValueID, types.Type) {
	callee, calleeType, ok := lw.resolveCallee(k.Callee)
	if !ok {
		if calleeType.IsUnknown() {
			return lw.Builder.AllocValue(types.UnknownType), lw.record(e, types.UnknownType)
		}
		v := lw.poison(e, diag.CannotCall{Target: types.String(calleeType, lw.Strs, lw.Tags)})
		return v, lw.record(e, types.UnknownType)
	}
	params, ret, _ := calleeType.AsFn()
	if len(k.Args) != len(params) {
		v := lw.poison(e, diag.FnArgumentCountMismatch{Expected: len(params), Received: len(k.Args)})
		return v, lw.record(e, types.UnknownType)
	}
	args := make([]hir.ValueID, len(k.Args))
	for i, a := range k.Args {
		val, argType := lw.LowerExpr(a)
		if !types.Assignable(argType, params[i]) {
			lw.Bag.Add(diag.TypeMismatch{Expected: types.String(params[i], lw.Strs, lw.Tags), Received: types.String(argType, lw.Strs, lw.Tags)}, a.Span)
		}
		args[i] = val
	}

	v := lw.Builder.Emit(e.Span, ret, hir.FunctionCall{Callee: callee, Args: args})
	return v, lw.record(e, ret)
}

// resolveCallee lowers a call's callee expression to a Callee. A bare
// identifier naming a top-level function (lowered or not: its shell exists
// from the placeholder pass on) resolves to a
// DirectCallee without emitting the LoadConstant a first-class reference
// to it would otherwise need; every other shape (a local variable holding
// a function value, a parenthesized expression, a field access, ...)
// falls back to lowering it as an ordinary value and calling through it.
func (lw *Lowerer) resolveCallee(e *ast.Expr) (hir.Callee, types.Type, bool) {
	if id, ok := e.Kind.(ast.ExIdentifier); ok {
		if decl, ok := lw.Scopes.Lookup(id.Name.Name); ok {
			if fd, ok := decl.(*hir.FunctionDecl); ok && fd.Fn != nil {
				lw.record(e, fd.Type)
				return hir.DirectCallee{Fn: fd.Fn.ID}, fd.Type, true
			}
		}
	}
	value, valueType := lw.LowerExpr(e)
	if _, _, ok := valueType.AsFn(); !ok {
		return nil, valueType, false
	}
	return hir.ValueCallee{Value: value}, valueType, true
}

func (lw *Lowerer) lowerTag(e *ast.Expr, k ast.ExTag) (hir.ValueID, types.Type) {
	id := lw.Tags.Intern(lw.Strs.Lookup(k.Name.Name))
	if k.Value == nil {
		t := types.NewTag(id, nil)
		c := lw.Prog.InternConstant(hir.ConstVoid{}, t)
		v := lw.Builder.Emit(e.Span, t, hir.LoadConstant{Const: c})
		return v, lw.record(e, t)
	}
	payloadValue, payloadType := lw.LowerExpr(k.Value)
	t := types.NewTag(id, &payloadType)
	v := lw.Builder.Emit(e.Span, t, hir.TypeCast{Operand: payloadValue, To: t})
	return v, lw.record(e, t)
}

func (lw *Lowerer) lowerStruct(e *ast.Expr, k ast.ExStruct) (hir.ValueID, types.Type) {
	seen := map[interner.StringID]bool{}
	var fields []types.Field
	var values []hir.ValueID
	for _, fi := range k.Fields {
		if seen[fi.Name.Name] {
			lw.Bag.Add(diag.DuplicateStructFieldInitializer{Field: lw.Strs.Lookup(fi.Name.Name)}, fi.Name.Span)
			continue
		}
		seen[fi.Name.Name] = true
		val, valType := lw.LowerExpr(fi.Value)
		fields = append(fields, types.Field{Name: fi.Name.Name, Type: valType, Align: fieldAlignment(valType)})
		values = append(values, val)
	}
	packed := packFields(fields, lw.Strs)

	structType := types.NewUserDefined(packed)
	alloc := lw.Builder.Emit(e.Span, structType, hir.HeapAlloc{ElemType: structType, Alloc: lw.Prog.NewHeapAllocation(structType)})

	for i, f := range packed {
		origIdx := indexOfFieldValue(fields, f)
		ptrType := types.NewPointer(types.PointerMut, f.Type, f.Type)
		ptr := lw.Builder.Emit(e.Span, ptrType, hir.GetFieldPtr{Base: alloc, FieldName: lw.Strs.Lookup(f.Name), FieldIdx: i})
		lw.Builder.Emit(e.Span, types.NewPrimitive(types.Void), hir.Store{Ptr: ptr, Value: values[origIdx]})
	}
	return alloc, lw.record(e, structType)
}

// indexOfFieldValue finds f's position among the pre-pack fields slice, to
// recover which lowered value corresponds to a post-pack field — fields
// are unique by name within one literal (duplicates are already
// diagnosed and skipped above), so name equality is a sufficient key.
func indexOfFieldValue(fields []types.Field, f types.Field) int {
	for i, o := range fields {
		if o.Name == f.Name {
			return i
		}
	}
	panic("INTERNAL COMPILER ERROR: packed field missing from pre-pack list")
}

func (lw *Lowerer) lowerList(e *ast.Expr, k ast.ExList) (hir.ValueID, types.Type) {
	var itemType types.Type
	hasItems := len(k.Items) > 0
	values := make([]hir.ValueID, len(k.Items))
	types_ := make([]types.Type, len(k.Items))
	for i, item := range k.Items {
		v, t := lw.LowerExpr(item)
		values[i] = v
		types_[i] = t
	}
	if hasItems {
		unified, ok := UnifyTypes(types_)
		if !ok {
			lw.Bag.Add(diag.IncompatibleBranchTypes{A: types.String(types_[0], lw.Strs, lw.Tags), B: types.String(types_[len(types_)-1], lw.Strs, lw.Tags)}, e.Span)
			unified = types.UnknownType
		}
		itemType = unified
	} else {
		lw.Bag.Add(diag.CannotInferType{}, e.Span)
		itemType = types.UnknownType
	}

	listType := types.NewList(itemType)
	alloc := lw.Builder.Emit(e.Span, listType, hir.HeapAlloc{ElemType: listType, Alloc: lw.Prog.NewHeapAllocation(listType)})
	for _, v := range values {
		lw.Builder.Emit(e.Span, types.NewPrimitive(types.Void), hir.AppendListItem{List: alloc, Item: v})
	}
	return alloc, lw.record(e, listType)
}

func (lw *Lowerer) lowerFnLiteral(e *ast.Expr, k ast.ExFn) (hir.ValueID, types.Type) {
	paramTypes := make([]types.Type, len(k.Params))
	for i, p := range k.Params {
		paramTypes[i] = lw.resolveTypeAnnotation(p.Constraint)
	}
	retType := lw.resolveTypeAnnotation(k.ReturnType)
	fnType := types.NewFn(paramTypes, retType)

	shell := newFunctionShell(lw.Prog, "<anonymous>", paramTypes, retType)
	fn := buildFunctionBody(lw.Prog, lw.Bag, lw.Scopes, shell, k.Params, paramTypes, retType, k.Body)

	c := lw.Prog.InternConstant(hir.ConstUint{Value: uint64(fn.ID)}, fnType)
	v := lw.Builder.Emit(e.Span, fnType, hir.LoadConstant{Const: c})
	return v, lw.record(e, fnType)
}

func (lw *Lowerer) lowerMatch(e *ast.Expr, k ast.ExMatch) (hir.ValueID, types.Type) {
	subjectValue, subjectType := lw.LowerExpr(k.Subject)
	variants, ok := subjectType.AsUnion()
	if !ok {
		if tag, isTag := subjectType.AsTag(); isTag {
			variants = []types.TagType{tag}
		} else if !subjectType.IsUnknown() {
			v := lw.poison(e, diag.CannotCompareType{Of: types.String(subjectType, lw.Strs, lw.Tags), To: "a tag union"})
			return v, lw.record(e, types.UnknownType)
		}
	}

	b := lw.Builder
	mergeBlock := b.NewBasicBlock()
	var results []branchResult

	for _, arm := range k.Arms {
		tagID := lw.Tags.Intern(lw.Strs.Lookup(arm.Tag.Name))
		if !tagIDInVariants(tagID, variants) {
			lw.Bag.Add(diag.MatchArmUnknownTag{Tag: lw.Strs.Lookup(arm.Tag.Name), Subject: types.String(subjectType, lw.Strs, lw.Tags)}, arm.Tag.Span)
			continue
		}

		armBlock := b.NewBasicBlock()
		b.SetTerminator(hir.Jump{Target: armBlock})
		b.SealBlock(armBlock)
		b.UseBasicBlock(armBlock)

		if arm.Binding != nil {
			payloadType := payloadTypeFor(tagID, variants)
			payload := b.Emit(arm.Tag.Span, payloadType, hir.TypeCast{Operand: subjectValue, To: payloadType})
			v := &hir.Var{Name: lw.Strs.Lookup(arm.Binding.Name), Span: arm.Binding.Span, Constraint: payloadType, Storage: hir.StackSlot{}}
			lw.declareVar(v)
			lw.Scopes.Enter(scope.CodeBlock)
			b.WriteVariable(v, payload)
			lw.Scopes.Insert(lw.Strs, lw.Bag, *arm.Binding, v)
			armValue, armType := lw.LowerExpr(arm.Body)
			lw.Scopes.Exit()
			if !b.CurrentBlock().HasTerminator() {
				results = append(results, branchResult{block: b.CurrentBlockID(), value: armValue, typ: armType})
			}
		} else {
			armValue, armType := lw.LowerExpr(arm.Body)
			if !b.CurrentBlock().HasTerminator() {
				results = append(results, branchResult{block: b.CurrentBlockID(), value: armValue, typ: armType})
			}
		}
	}

	incoming := make([]types.Type, len(results))
	for i, r := range results {
		incoming[i] = r.typ
	}
	resultType, ok := UnifyTypes(incoming)
	if !ok {
		resultType = types.UnknownType
	}
	resultParam := b.AppendBlockParam(mergeBlock, resultType)
	for _, r := range results {
		b.UseBasicBlock(r.block)
		b.SetTerminator(hir.Jump{Target: mergeBlock, Args: []hir.ValueID{r.value}})
	}
	b.SealBlock(mergeBlock)
	b.UseBasicBlock(mergeBlock)
	return resultParam, lw.record(e, resultType)
}

func tagIDInVariants(id interner.TagID, variants []types.TagType) bool {
	for _, v := range variants {
		if v.ID == id {
			return true
		}
	}
	return false
}

func payloadTypeFor(id interner.TagID, variants []types.TagType) types.Type {
	for _, v := range variants {
		if v.ID == id {
			if v.Payload != nil {
				return *v.Payload
			}
			return types.NewPrimitive(types.Void)
		}
	}
	return types.UnknownType
}
