package build

import "github.com/tagc-lang/tagc/types"

var unknownType = types.UnknownType

// UnifyTypes computes the type of a control-flow merge point given the
// types arriving along each incoming edge (spec §4.3.1): identical types
// unify trivially; a set of tag types (or tags and unions) unifies to
// their canonical union; anything else fails to unify and the caller
// falls back to the variable's declared constraint.
//
// Ported from original_source's try_unify_types.rs behavior as described
// by its call sites (hir/utils/ssa_builder.rs, hir/expressions/if.rs):
// reached either when joining a branched variable's value, or when
// computing the result type of an if-expression's arms.
func UnifyTypes(incoming []types.Type) (types.Type, bool) {
	if len(incoming) == 0 {
		return unknownType, false
	}
	first := incoming[0]
	allIdentical := true
	for _, t := range incoming[1:] {
		if !types.Identical(first, t) {
			allIdentical = false
			break
		}
	}
	if allIdentical {
		return first, true
	}

	var members []types.Type
	for _, t := range incoming {
		if t.IsUnknown() {
			continue
		}
		if _, ok := t.AsTag(); ok {
			members = append(members, t)
			continue
		}
		if _, ok := t.AsUnion(); ok {
			members = append(members, t)
			continue
		}
		return unknownType, false
	}
	if len(members) == 0 {
		return unknownType, false
	}
	return types.UnionOf(members...), true
}
