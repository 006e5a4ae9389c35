// Package build implements the on-the-fly SSA construction algorithm
// (Braun, Buchwald, Hack, Leißa, Mallon & Zwinkau) and the HIR lowering
// that drives it, turning an ast.Expr/ast.Stmt tree into a hir.Function's
// CFG (spec.md §4.3, §4.4).
//
// FunctionBuilder owns one function's in-progress CFG. Variable reads
// resolve to the nearest dominating write without ever materializing a
// full dominator tree: an unsealed block's read installs a block
// parameter optimistically and records it as "incomplete"; sealing a
// block (once every predecessor is known) back-fills that parameter's
// arguments along every predecessor edge. This mirrors
// original_source's hir/utils/ssa_builder.rs near exactly — the port
// keeps its method names' intent even where Go idiom renames them.
package build

import (
	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/hir"
	"github.com/tagc-lang/tagc/internal/diag"
)

// incompleteParam records a block parameter created on an unsealed block
// to stand in for a use of originalValue from outside that block; once the
// block seals, the parameter's incoming argument is filled in along every
// predecessor edge.
type incompleteParam struct {
	paramID       hir.ValueID
	originalValue hir.ValueID
}

// incompleteVar is the same idea, but for a variable read rather than a
// direct value reference — it also carries the declaration so sealing can
// re-run ReadVariable against each predecessor.
type incompleteVar struct {
	v       *hir.Var
	paramID hir.ValueID
}

// FunctionBuilder builds one hir.Function's CFG incrementally.
type FunctionBuilder struct {
	Prog *hir.Program
	Fn   *hir.Function
	Bag  *diag.Bag

	currentBlock hir.BasicBlockID

	sealedBlocks map[hir.BasicBlockID]bool
	predecessors map[hir.BasicBlockID][]hir.BasicBlockID

	// valueDefs maps a ValueID to the block it was originally defined in
	// (as opposed to a block-local parameter standing in for it).
	valueDefs map[hir.ValueID]hir.BasicBlockID
	// blockValueMaps[block][original] = the ValueID representing
	// `original` inside `block` (itself if defined there, or a local
	// block parameter otherwise).
	blockValueMaps map[hir.BasicBlockID]map[hir.ValueID]hir.ValueID

	// varCurrent[block][v] = the current ValueID bound to variable v
	// within block, the per-block "current definition" map of the
	// algorithm.
	varCurrent map[hir.BasicBlockID]map[*hir.Var]hir.ValueID

	incompleteParams map[hir.BasicBlockID][]incompleteParam
	incompleteVars   map[hir.BasicBlockID][]incompleteVar
}

// NewFunctionBuilder starts building fn (already registered with prog, with
// its entry block already created by the caller).
func NewFunctionBuilder(prog *hir.Program, fn *hir.Function, bag *diag.Bag) *FunctionBuilder {
	return &FunctionBuilder{
		Prog:             prog,
		Fn:               fn,
		Bag:              bag,
		sealedBlocks:     map[hir.BasicBlockID]bool{},
		predecessors:     map[hir.BasicBlockID][]hir.BasicBlockID{},
		valueDefs:        map[hir.ValueID]hir.BasicBlockID{},
		blockValueMaps:   map[hir.BasicBlockID]map[hir.ValueID]hir.ValueID{},
		varCurrent:       map[hir.BasicBlockID]map[*hir.Var]hir.ValueID{},
		incompleteParams: map[hir.BasicBlockID][]incompleteParam{},
		incompleteVars:   map[hir.BasicBlockID][]incompleteVar{},
	}
}

// NewBasicBlock allocates a fresh, empty, unsealed block.
func (b *FunctionBuilder) NewBasicBlock() hir.BasicBlockID {
	return b.Fn.NewBlock().ID
}

// UseBasicBlock switches the insertion point to id.
func (b *FunctionBuilder) UseBasicBlock(id hir.BasicBlockID) {
	if _, ok := b.Fn.Blocks[id]; !ok {
		panic("INTERNAL COMPILER ERROR: UseBasicBlock called with an unknown block id")
	}
	b.currentBlock = id
}

// CurrentBlock returns the block currently being appended to.
func (b *FunctionBuilder) CurrentBlock() *hir.BasicBlock {
	return b.Fn.Block(b.currentBlock)
}

// CurrentBlockID returns the id of the block currently being appended to.
func (b *FunctionBuilder) CurrentBlockID() hir.BasicBlockID {
	return b.currentBlock
}

// AllocValue mints a fresh ValueID of type t, attributed to the current
// block, and records its type with the program.
func (b *FunctionBuilder) AllocValue(t hir.Type) hir.ValueID {
	id := b.Fn.nextValue()
	b.Prog.SetValueType(b.Fn.ID, id, t)
	b.valueDefs[id] = b.currentBlock
	return id
}

// Emit appends an instruction to the current block, allocating its result
// value first.
func (b *FunctionBuilder) Emit(span ast.Span, t hir.Type, op hir.InstructionOp) hir.ValueID {
	id := b.AllocValue(t)
	block := b.CurrentBlock()
	block.Instrs = append(block.Instrs, hir.Instruction{Result: id, Type: t, Span: span, Op: op})
	return id
}

// AppendBlockParam adds a new incoming parameter of type t to block, and
// returns its ValueID.
func (b *FunctionBuilder) AppendBlockParam(block hir.BasicBlockID, t hir.Type) hir.ValueID {
	id := b.Fn.nextValue()
	b.Prog.SetValueType(b.Fn.ID, id, t)
	b.valueDefs[id] = block
	bb := b.Fn.Block(block)
	bb.Params = append(bb.Params, id)
	return id
}

func (b *FunctionBuilder) addPredecessor(target, from hir.BasicBlockID) {
	b.predecessors[target] = append(b.predecessors[target], from)
}

func (b *FunctionBuilder) getMappedValue(block hir.BasicBlockID, original hir.ValueID) (hir.ValueID, bool) {
	m, ok := b.blockValueMaps[block]
	if !ok {
		return 0, false
	}
	v, ok := m[original]
	return v, ok
}

func (b *FunctionBuilder) mapValue(block hir.BasicBlockID, original, local hir.ValueID) {
	m, ok := b.blockValueMaps[block]
	if !ok {
		m = map[hir.ValueID]hir.ValueID{}
		b.blockValueMaps[block] = m
	}
	m[original] = local
}

// SealBlock declares that every predecessor of block is now known. It
// back-fills every block parameter created speculatively while the block
// was unsealed.
func (b *FunctionBuilder) SealBlock(block hir.BasicBlockID) {
	if b.sealedBlocks[block] {
		return
	}
	b.sealedBlocks[block] = true

	for _, ip := range b.incompleteParams[block] {
		b.fillPredecessors(block, ip.originalValue)
	}
	delete(b.incompleteParams, block)

	for _, iv := range b.incompleteVars[block] {
		for _, pred := range b.predecessors[block] {
			val := b.readVariableFromBlock(pred, iv.v)
			valInPred := b.UseValueInBlock(pred, val)
			b.appendArgToTerminator(pred, block, valInPred)
		}
	}
	delete(b.incompleteVars, block)
}

// WriteVariable records that, from this point forward in the current
// block, v's current value is value.
func (b *FunctionBuilder) WriteVariable(v *hir.Var, value hir.ValueID) {
	m, ok := b.varCurrent[b.currentBlock]
	if !ok {
		m = map[*hir.Var]hir.ValueID{}
		b.varCurrent[b.currentBlock] = m
	}
	m[v] = value
}

// ReadVariable resolves v's current value in the current block.
func (b *FunctionBuilder) ReadVariable(v *hir.Var) hir.ValueID {
	if m, ok := b.varCurrent[b.currentBlock]; ok {
		if val, ok := m[v]; ok {
			return val
		}
	}
	return b.readVariableRecursive(b.currentBlock, v)
}

func (b *FunctionBuilder) readVariableFromBlock(block hir.BasicBlockID, v *hir.Var) hir.ValueID {
	if m, ok := b.varCurrent[block]; ok {
		if val, ok := m[v]; ok {
			return val
		}
	}
	return b.readVariableRecursive(block, v)
}

func (b *FunctionBuilder) readVariableRecursive(block hir.BasicBlockID, v *hir.Var) hir.ValueID {
	if !b.sealedBlocks[block] {
		paramID := b.AppendBlockParam(block, v.Constraint)
		b.incompleteVars[block] = append(b.incompleteVars[block], incompleteVar{v: v, paramID: paramID})
		m, ok := b.varCurrent[block]
		if !ok {
			m = map[*hir.Var]hir.ValueID{}
			b.varCurrent[block] = m
		}
		m[v] = paramID
		return paramID
	}

	preds := b.predecessors[block]
	if len(preds) == 0 {
		return b.ReportErrorAndGetPoison(v.Span, diag.UseOfUninitializedVariable{Name: v.Name})
	}

	if len(preds) == 1 {
		val := b.readVariableFromBlock(preds[0], v)
		m, ok := b.varCurrent[block]
		if !ok {
			m = map[*hir.Var]hir.ValueID{}
			b.varCurrent[block] = m
		}
		m[v] = val
		return val
	}

	incoming := make([]hir.ValueID, len(preds))
	incomingTypes := make([]hir.Type, len(preds))
	for i, pred := range preds {
		incoming[i] = b.readVariableFromBlock(pred, v)
		incomingTypes[i] = b.Prog.ValueType(b.Fn.ID, incoming[i])
	}

	narrowed, ok := UnifyTypes(incomingTypes)
	if !ok {
		narrowed = v.Constraint
	}

	paramID := b.AppendBlockParam(block, narrowed)
	m, ok2 := b.varCurrent[block]
	if !ok2 {
		m = map[*hir.Var]hir.ValueID{}
		b.varCurrent[block] = m
	}
	m[v] = paramID

	for i, pred := range preds {
		valInPred := b.UseValueInBlock(pred, incoming[i])
		b.appendArgToTerminator(pred, block, valInPred)
	}

	return paramID
}

// UseValueInBlock returns the ValueID representing originalValue inside
// block — itself, if block is where it was defined; otherwise a
// block-local parameter, created (and tracked as incomplete if block is
// still unsealed) on demand.
func (b *FunctionBuilder) UseValueInBlock(block hir.BasicBlockID, originalValue hir.ValueID) hir.ValueID {
	if def, ok := b.valueDefs[originalValue]; ok && def == block {
		return originalValue
	}
	if local, ok := b.getMappedValue(block, originalValue); ok {
		return local
	}

	ty := b.Prog.ValueType(b.Fn.ID, originalValue)
	paramID := b.AppendBlockParam(block, ty)
	b.mapValue(block, originalValue, paramID)

	if !b.sealedBlocks[block] {
		b.incompleteParams[block] = append(b.incompleteParams[block], incompleteParam{paramID: paramID, originalValue: originalValue})
		return paramID
	}

	b.fillPredecessors(block, originalValue)
	return paramID
}

func (b *FunctionBuilder) fillPredecessors(block hir.BasicBlockID, originalValue hir.ValueID) {
	for _, pred := range b.predecessors[block] {
		valInPred := b.UseValueInBlock(pred, originalValue)
		b.appendArgToTerminator(pred, block, valInPred)
	}
}

// SetTerminator installs term as the current block's terminator and
// records the predecessor edges it creates.
func (b *FunctionBuilder) SetTerminator(term hir.Terminator) {
	switch t := term.(type) {
	case hir.Jump:
		b.addPredecessor(t.Target, b.currentBlock)
	case hir.CondJump:
		b.addPredecessor(t.TrueTarget, b.currentBlock)
		b.addPredecessor(t.FalseTarget, b.currentBlock)
	}
	bb := b.CurrentBlock()
	if bb.HasTerminator() {
		panic("INTERNAL COMPILER ERROR: block already has a terminator")
	}
	bb.Terminator = term
}

func (b *FunctionBuilder) appendArgToTerminator(from, to hir.BasicBlockID, arg hir.ValueID) {
	block := b.Fn.Block(from)
	switch t := block.Terminator.(type) {
	case hir.Jump:
		if t.Target != to {
			panic("INTERNAL COMPILER ERROR: appendArgToTerminator target mismatch")
		}
		t.Args = append(t.Args, arg)
		block.Terminator = t
	case hir.CondJump:
		if t.TrueTarget == to {
			t.TrueArgs = append(t.TrueArgs, arg)
		}
		if t.FalseTarget == to {
			t.FalseArgs = append(t.FalseArgs, arg)
		}
		if t.TrueTarget != to && t.FalseTarget != to {
			panic("INTERNAL COMPILER ERROR: appendArgToTerminator matched neither branch target")
		}
		block.Terminator = t
	default:
		panic("INTERNAL COMPILER ERROR: appendArgToTerminator called on a block with no branching terminator")
	}
}

// ReportErrorAndGetPoison records a diagnostic and returns a fresh
// Unknown-typed value — the caller must immediately return this value as
// the result of whatever expression failed to lower, so the poison
// propagates instead of cascading further errors (spec §7).
func (b *FunctionBuilder) ReportErrorAndGetPoison(span ast.Span, kind diag.Kind) hir.ValueID {
	b.Bag.Add(kind, span)
	return b.AllocValue(unknownType)
}

// Finish copies the builder's working predecessor map into each block's
// Predecessors field, the representation hir.Verify checks against.
func (b *FunctionBuilder) Finish() {
	for id, block := range b.Fn.Blocks {
		block.Predecessors = append([]hir.BasicBlockID(nil), b.predecessors[id]...)
	}
}
