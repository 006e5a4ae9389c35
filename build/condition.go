package build

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/types"
)

// LowerCondition lowers a condition expression as control flow rather than
// as a plain boolean value: it installs whatever CondJump terminator(s) are
// needed so that control reaches trueTarget exactly when the condition
// holds and falseTarget otherwise, recursing through `!`, `&&`, and `||` to
// build the short-circuit mini-CFG spec §4.4.4 describes, and returns the
// narrowing Predicate the leaf condition carries, if any.
//
// The caller is responsible for calling PushNarrowing, and the restore
// function it returns, around the statements lowered inside
// trueTarget/falseTarget.
func (lw *Lowerer) LowerCondition(cond *ast.Expr, trueTarget, falseTarget hir.BasicBlockID) *Predicate {
	b := lw.Builder
	switch k := cond.Kind.(type) {
	case ast.ExUnary:
		if k.Op == ast.UnaryNot {
			pred := lw.LowerCondition(k.Operand, falseTarget, trueTarget)
			if pred != nil {
				pred.TrueType, pred.FalseType = pred.FalseType, pred.TrueType
			}
			return pred
		}
	case ast.ExBinary:
		switch k.Op {
		case ast.BinAnd:
			intermediate := b.NewBasicBlock()
			lw.LowerCondition(k.Left, intermediate, falseTarget)
			b.SealBlock(intermediate)
			b.UseBasicBlock(intermediate)
			return lw.LowerCondition(k.Right, trueTarget, falseTarget)
		case ast.BinOr:
			intermediate := b.NewBasicBlock()
			lw.LowerCondition(k.Left, trueTarget, intermediate)
			b.SealBlock(intermediate)
			b.UseBasicBlock(intermediate)
			return lw.LowerCondition(k.Right, trueTarget, falseTarget)
		}
	case ast.ExBool:
		if k.Value {
			b.SetTerminator(hir.Jump{Target: trueTarget})
		} else {
			b.SetTerminator(hir.Jump{Target: falseTarget})
		}
		return nil
	}

	value, condType := lw.LowerExpr(cond)
	if p, _ := condType.AsPrimitive(); p != types.Bool {
		if !condType.IsUnknown() {
			lw.Bag.Add(diag.TypeMismatch{Expected: "bool", Received: types.String(condType, lw.Strs, lw.Tags)}, cond.Span)
		}
	}
	b.SetTerminator(hir.CondJump{Cond: value, TrueTarget: trueTarget, FalseTarget: falseTarget})

	pred, ok := lw.AnalyzeAtomicCondition(cond, condType)
	if !ok {
		return nil
	}
	return &pred
}

// PushNarrowing temporarily narrows v's effective type to t, returning the
// function to call (typically via defer) to restore whatever was in
// effect before. Narrowing is scoped lexically to the branch body it
// covers rather than threaded through SSA block-parameter types.
func (lw *Lowerer) PushNarrowing(v *hir.Var, t types.Type) func() {
	if lw.varNarrowing == nil {
		lw.varNarrowing = map[*hir.Var]types.Type{}
	}
	prev, had := lw.varNarrowing[v]
	lw.varNarrowing[v] = t
	return func() {
		if had {
			lw.varNarrowing[v] = prev
		} else {
			delete(lw.varNarrowing, v)
		}
	}
}

// EffectiveType returns v's narrowed type if one is in effect, else its
// declared constraint.
func (lw *Lowerer) EffectiveType(v *hir.Var) types.Type {
	if t, ok := lw.varNarrowing[v]; ok {
		return t
	}
	return v.Constraint
}
