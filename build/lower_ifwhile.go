package build

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/scope"
	"github.com/tagc-lang/tagc/types"
)

type branchResult struct {
	block hir.BasicBlockID
	value hir.ValueID
	typ   types.Type
}

// LowerIf lowers an if/elif/.../else chain, ported from
// original_source's hir/expressions/if.rs: each branch condition is
// evaluated in its own block, true bodies jump to a shared merge block,
// and (in expression position) the merge block gets a parameter unifying
// every reachable branch's result type.
func (lw *Lowerer) LowerIf(e *ast.Expr, k ast.ExIf, asExpr bool) (hir.ValueID, types.Type) {
	b := lw.Builder

	if asExpr && k.Else == nil {
		v := lw.poison(e, diag.IfExpressionMissingElse{})
		return v, lw.record(e, types.UnknownType)
	}

	mergeBlock := b.NewBasicBlock()
	var results []branchResult
	lastConditionBlock := b.CurrentBlockID()

	for _, branch := range k.Branches {
		bodyBlock := b.NewBasicBlock()
		nextConditionBlock := b.NewBasicBlock()

		b.UseBasicBlock(lastConditionBlock)
		pred := lw.LowerCondition(branch.Cond, bodyBlock, nextConditionBlock)
		b.SealBlock(bodyBlock)

		b.UseBasicBlock(bodyBlock)
		var pop func()
		if pred != nil {
			pop = lw.PushNarrowing(pred.Var, pred.TrueType)
		}
		bodyValue, bodyType := lw.LowerExpr(branch.Body)
		if pop != nil {
			pop()
		}
		if !b.CurrentBlock().HasTerminator() {
			results = append(results, branchResult{block: b.CurrentBlockID(), value: bodyValue, typ: bodyType})
		}

		b.SealBlock(nextConditionBlock)
		lastConditionBlock = nextConditionBlock
	}

	b.UseBasicBlock(lastConditionBlock)
	if k.Else != nil {
		// No narrowing is in effect here: LowerIf applies a condition's
		// TrueType to that branch's body only, and the FalseType of the
		// conditions is not applied to later conditions or to the else.
		elseValue, elseType := lw.LowerExpr(k.Else)
		if !b.CurrentBlock().HasTerminator() {
			results = append(results, branchResult{block: b.CurrentBlockID(), value: elseValue, typ: elseType})
		}
	} else {
		b.SetTerminator(hir.Jump{Target: mergeBlock})
	}

	var resultParam hir.ValueID
	hasResult := asExpr
	if hasResult {
		incoming := make([]types.Type, len(results))
		for i, r := range results {
			incoming[i] = r.typ
		}
		resultType, ok := UnifyTypes(incoming)
		if !ok && len(results) > 0 {
			lw.Bag.Add(diag.IncompatibleBranchTypes{A: types.String(results[0].typ, lw.Strs, lw.Tags), B: types.String(incoming[len(incoming)-1], lw.Strs, lw.Tags)}, e.Span)
			resultType = types.UnknownType
		}
		resultParam = b.AppendBlockParam(mergeBlock, resultType)
	}

	for _, r := range results {
		b.UseBasicBlock(r.block)
		if hasResult {
			b.SetTerminator(hir.Jump{Target: mergeBlock, Args: []hir.ValueID{r.value}})
		} else {
			b.SetTerminator(hir.Jump{Target: mergeBlock})
		}
	}

	b.SealBlock(mergeBlock)
	b.UseBasicBlock(mergeBlock)

	if hasResult {
		resultType := b.Prog.ValueType(b.Fn.ID, resultParam)
		return resultParam, lw.record(e, resultType)
	}
	voidType := types.NewPrimitive(types.Void)
	return 0, lw.record(e, voidType)
}

// LowerWhile lowers a while loop: a header block re-evaluates the
// condition every iteration (so it can re-narrow on each pass), a body
// block loops back to the header, and break/continue inside the body
// target the after-loop block / the header respectively (spec §4.4,
// scope.LoopTargets).
func (lw *Lowerer) LowerWhile(k ast.StWhile) {
	b := lw.Builder
	header := b.NewBasicBlock()
	body := b.NewBasicBlock()
	after := b.NewBasicBlock()

	b.SetTerminator(hir.Jump{Target: header})
	b.UseBasicBlock(header)
	pred := lw.LowerCondition(k.Cond, body, after)
	b.SealBlock(body)

	lw.Scopes.Enter(scope.While)
	lw.Scopes.Current().Loop = scope.LoopTargets{BreakTarget: after, ContinueTarget: header}

	b.UseBasicBlock(body)
	var pop func()
	if pred != nil {
		pop = lw.PushNarrowing(pred.Var, pred.TrueType)
	}
	lw.LowerCodeBlock(k.Body.Kind.(ast.ExCodeBlock))
	if pop != nil {
		pop()
	}
	if !b.CurrentBlock().HasTerminator() {
		b.SetTerminator(hir.Jump{Target: header})
	}
	lw.Scopes.Exit()

	b.SealBlock(header)
	b.SealBlock(after)
	b.UseBasicBlock(after)
}
