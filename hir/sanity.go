package hir

import "fmt"

// Verify checks the structural invariants of a lowered function: every
// block has exactly one terminator, every jump target exists, and
// predecessor lists agree with the jumps that produce them. It is the
// in-package analogue of go/ssa/sanity.go's sanityCheck, run in tests and,
// optionally, by callers after a build pass completes — never on a
// user-facing path, since any failure here is an internal invariant
// violation in the builder, not a diagnosable user error.
func Verify(f *Function) error {
	if _, ok := f.Blocks[f.EntryBlock]; !ok {
		return fmt.Errorf("hir: function %q has no entry block", f.Name)
	}
	predecessorsOf := map[BasicBlockID][]BasicBlockID{}
	for _, id := range f.blockOrder {
		b := f.Blocks[id]
		if b.Terminator == nil {
			return fmt.Errorf("hir: function %q block %d has no terminator", f.Name, id)
		}
		for _, succ := range successors(b.Terminator) {
			if _, ok := f.Blocks[succ]; !ok {
				return fmt.Errorf("hir: function %q block %d jumps to unknown block %d", f.Name, id, succ)
			}
			predecessorsOf[succ] = append(predecessorsOf[succ], id)
		}
	}
	for _, id := range f.blockOrder {
		b := f.Blocks[id]
		if !sameSet(b.Predecessors, predecessorsOf[id]) {
			return fmt.Errorf("hir: function %q block %d predecessor list %v does not match actual predecessors %v",
				f.Name, id, b.Predecessors, predecessorsOf[id])
		}
	}
	return nil
}

func successors(term Terminator) []BasicBlockID {
	switch t := term.(type) {
	case Jump:
		return []BasicBlockID{t.Target}
	case CondJump:
		return []BasicBlockID{t.TrueTarget, t.FalseTarget}
	case Return, Unreachable:
		return nil
	}
	panic("INTERNAL COMPILER ERROR: unknown terminator kind")
}

func sameSet(a, b []BasicBlockID) bool {
	if len(a) != len(b) {
		return false
	}
	count := map[BasicBlockID]int{}
	for _, x := range a {
		count[x]++
	}
	for _, x := range b {
		count[x]--
	}
	for _, c := range count {
		if c != 0 {
			return false
		}
	}
	return true
}
