package hir

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tagc-lang/tagc/types"
)

// WriteFunction writes a human-readable dump of f to buf: a signature line
// followed by one block per line group, each headed by its block index and
// parameter list and ending with its terminator, the way go/ssa's
// WriteFunction dumps a *ssa.Function (go/ssa/func.go). prog resolves the
// interned names (strings, tags, constants) instructions reference so the
// dump reads as source-level names rather than bare integer ids.
func WriteFunction(buf *bytes.Buffer, prog *Program, f *Function) {
	fmt.Fprintf(buf, "func %s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "p%d %s", i, types.String(p, prog.Strings, prog.Tags))
	}
	fmt.Fprintf(buf, ") %s {\n", types.String(f.ReturnType, prog.Strings, prog.Tags))

	for _, id := range f.BlockOrder() {
		writeBlock(buf, prog, f, f.Block(id))
	}
	buf.WriteString("}\n")
}

// WriteTo writes f's dump, as WriteFunction produces it, to w and returns
// the number of bytes written. Because it also takes prog, it does not
// satisfy io.WriterTo, unlike (*ssa.Function).WriteTo.
func (f *Function) WriteTo(w io.Writer, prog *Program) (int64, error) {
	var buf bytes.Buffer
	WriteFunction(&buf, prog, f)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func writeBlock(buf *bytes.Buffer, prog *Program, f *Function, b *BasicBlock) {
	fmt.Fprintf(buf, "%d:", b.ID)
	if len(b.Params) > 0 {
		buf.WriteString(" (")
		for i, v := range b.Params {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(buf, "%s", valueRef(v))
		}
		buf.WriteString(")")
	}
	preds := make([]string, len(b.Predecessors))
	for i, p := range b.Predecessors {
		preds[i] = fmt.Sprintf("%d", p)
	}
	fmt.Fprintf(buf, "  // preds: %s\n", strings.Join(preds, ", "))

	for _, instr := range b.Instrs {
		fmt.Fprintf(buf, "\t%s = %s : %s\n", valueRef(instr.Result), writeOp(prog, instr.Op), types.String(instr.Type, prog.Strings, prog.Tags))
	}

	fmt.Fprintf(buf, "\t%s\n", writeTerminator(b.Terminator))
}

func valueRef(id ValueID) string { return fmt.Sprintf("v%d", id) }

func writeArgs(args []ValueID) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = valueRef(a)
	}
	return strings.Join(parts, ", ")
}

func writeOp(prog *Program, op InstructionOp) string {
	switch k := op.(type) {
	case StackAlloc:
		return fmt.Sprintf("alloc %s", types.String(k.ElemType, prog.Strings, prog.Tags))
	case HeapAlloc:
		return fmt.Sprintf("heapalloc %s #%d", types.String(k.ElemType, prog.Strings, prog.Tags), k.Alloc)
	case Load:
		return fmt.Sprintf("load %s", valueRef(k.Ptr))
	case Store:
		return fmt.Sprintf("store %s, %s", valueRef(k.Ptr), valueRef(k.Value))
	case GetFieldPtr:
		return fmt.Sprintf("fieldptr %s[%s#%d]", valueRef(k.Base), k.FieldName, k.FieldIdx)
	case GetElementPtr:
		return fmt.Sprintf("elemptr %s[%s]", valueRef(k.Base), valueRef(k.Index))
	case UnaryOpInstr:
		return fmt.Sprintf("%s%s", k.Op, valueRef(k.Operand))
	case BinaryOpInstr:
		return fmt.Sprintf("%s %s %s", valueRef(k.Left), k.Op, valueRef(k.Right))
	case TypeCast:
		return fmt.Sprintf("cast %s to %s", valueRef(k.Operand), types.String(k.To, prog.Strings, prog.Tags))
	case FunctionCall:
		return fmt.Sprintf("call %s(%s)", writeCallee(k.Callee), writeArgs(k.Args))
	case LoadConstant:
		return fmt.Sprintf("const %s", writeConstant(prog, prog.Constant(k.Const)))
	case IsTypeCheck:
		tags := make([]string, len(k.Tags))
		for i, t := range k.Tags {
			tags[i] = "#" + prog.Tags.Lookup(t)
		}
		return fmt.Sprintf("is %s {%s}", valueRef(k.Value), strings.Join(tags, ", "))
	case CheckedIndex:
		return fmt.Sprintf("checkedindex %s[%s]", valueRef(k.List), valueRef(k.Index))
	case ListLength:
		return fmt.Sprintf("len %s", valueRef(k.List))
	case AppendListItem:
		return fmt.Sprintf("append %s, %s", valueRef(k.List), valueRef(k.Item))
	case Nop:
		return "nop"
	default:
		return fmt.Sprintf("<op %T>", k)
	}
}

func writeCallee(c Callee) string {
	switch k := c.(type) {
	case DirectCallee:
		return fmt.Sprintf("fn%d", k.Fn)
	case ValueCallee:
		return valueRef(k.Value)
	default:
		return fmt.Sprintf("<callee %T>", k)
	}
}

func writeConstant(prog *Program, c Constant) string {
	switch k := c.Kind.(type) {
	case ConstInt:
		return fmt.Sprintf("%d", k.Value)
	case ConstUint:
		return fmt.Sprintf("%d", k.Value)
	case ConstFloat:
		return fmt.Sprintf("%g", k.Value)
	case ConstBool:
		return fmt.Sprintf("%t", k.Value)
	case ConstString:
		return fmt.Sprintf("%q", prog.Strings.Lookup(k.Value))
	case ConstNull:
		return "null"
	case ConstVoid:
		return "void"
	default:
		return fmt.Sprintf("<const %T>", k)
	}
}

func writeTerminator(t Terminator) string {
	switch k := t.(type) {
	case Jump:
		return fmt.Sprintf("jump %d(%s)", k.Target, writeArgs(k.Args))
	case CondJump:
		return fmt.Sprintf("condjump %s, %d(%s), %d(%s)",
			valueRef(k.Cond), k.TrueTarget, writeArgs(k.TrueArgs), k.FalseTarget, writeArgs(k.FalseArgs))
	case Return:
		if k.Value == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", valueRef(*k.Value))
	case Unreachable:
		return "unreachable"
	case nil:
		return "<no terminator>"
	default:
		return fmt.Sprintf("<terminator %T>", k)
	}
}
