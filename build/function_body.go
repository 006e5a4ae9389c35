package build

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
	"github.com/tagc-lang/tagc/scope"
	"github.com/tagc-lang/tagc/types"
)

// newFunctionShell registers an empty Function (signature only, no blocks)
// with prog and returns it. Splitting this out of buildFunctionBody lets
// ProgramBuilder's placeholder pass hand out a real FunctionID — and a real
// *hir.Function a FunctionDecl can point to — before a forward-referenced
// function's body has been lowered (hir.Program.AddFunction's doc comment
// names exactly this use case).
func newFunctionShell(prog *hir.Program, name string, paramTypes []types.Type, retType types.Type) *hir.Function {
	fnID := prog.NextFunctionID()
	fn := hir.NewFunction(fnID, name, paramTypes, retType)
	prog.AddFunction(fn)
	return fn
}

// buildFunctionBody lowers body into fn's entry block against a fresh
// FunctionBuilder/Lowerer pair opened in its own Function scope. fn must
// already be registered with prog (via newFunctionShell) but must not yet
// have any blocks. Shared by lowerFnLiteral (nested function expressions)
// and ProgramBuilder's body pass (named top-level functions) so the
// entry-block/parameter-binding/missing-return logic isn't duplicated
// between them.
func buildFunctionBody(prog *hir.Program, bag *diag.Bag, scopes *scope.Stack, fn *hir.Function, params []ast.Param, paramTypes []types.Type, retType types.Type, body *ast.Expr) *hir.Function {
	entry := fn.NewBlock()
	fn.EntryBlock = entry.ID

	builder := NewFunctionBuilder(prog, fn, bag)
	builder.UseBasicBlock(entry.ID)

	nested := NewLowerer(builder, scopes, bag, prog)
	nested.ReturnType = retType

	scopes.Enter(scope.Function)
	scopes.Current().FunctionBuilder = builder
	for i, p := range params {
		v := &hir.Var{Name: prog.Strings.Lookup(p.Name.Name), Span: p.Name.Span, Constraint: paramTypes[i], Storage: hir.StackSlot{}}
		nested.declareVar(v)
		builder.WriteVariable(v, builder.AppendBlockParam(entry.ID, paramTypes[i]))
		scopes.Insert(prog.Strings, bag, p.Name, v)
	}

	bodyBlock := body.Kind.(ast.ExCodeBlock)
	resultValue, resultType := nested.LowerCodeBlockExpr(body, bodyBlock)
	if !builder.CurrentBlock().HasTerminator() {
		switch {
		case types.Identical(retType, types.NewPrimitive(types.Void)):
			builder.SetTerminator(hir.Return{})
		case types.Assignable(resultType, retType):
			builder.SetTerminator(hir.Return{Value: &resultValue})
		case types.Identical(resultType, types.NewPrimitive(types.Void)):
			bag.Add(diag.MissingReturnOnSomePath{}, body.Span)
			builder.SetTerminator(hir.Unreachable{})
		default:
			bag.Add(diag.ReturnTypeMismatch{
				Expected: types.String(retType, prog.Strings, prog.Tags),
				Received: types.String(resultType, prog.Strings, prog.Tags),
			}, body.Span)
			builder.SetTerminator(hir.Unreachable{})
		}
	}
	scopes.Exit()
	builder.Finish()
	return fn
}
