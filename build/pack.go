package build

import (
	"golang.org/x/exp/slices"

	"github.com/tagc-lang/tagc/internal/interner"
	"github.com/tagc-lang/tagc/types"
)

// fieldAlignment approximates a field's natural alignment in bytes, the
// key the packer sorts by (spec §4.1 rule 7: "alignment desc, name asc").
// Exact byte widths are a backend concern out of scope here; what matters
// at this layer is only that the ordering is total and deterministic.
func fieldAlignment(t types.Type) int {
	if p, ok := t.AsPrimitive(); ok {
		switch p {
		case types.Bool, types.I8, types.U8:
			return 1
		case types.I16, types.U16:
			return 2
		case types.I32, types.U32, types.F32:
			return 4
		case types.I64, types.U64, types.ISize, types.USize, types.F64:
			return 8
		case types.Void:
			return 1
		}
	}
	// Pointers, structs, unions, lists, strings, and closures are all
	// reference-shaped at this layer and share the machine word
	// alignment.
	return 8
}

// packFields returns a copy of fields sorted into the struct's canonical field order:
// alignment descending, then name ascending (spec §4.1 rule 7, §4.4.7).
func packFields(fields []types.Field, strs *interner.StringInterner) []types.Field {
	sorted := append([]types.Field(nil), fields...)
	slices.SortStableFunc(sorted, func(a, b types.Field) int {
		aa, ab := fieldAlignment(a.Type), fieldAlignment(b.Type)
		if aa != ab {
			return ab - aa
		}
		an, bn := strs.Lookup(a.Name), strs.Lookup(b.Name)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	})
	return sorted
}
