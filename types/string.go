package types

import (
	"fmt"
	"strings"

	"github.com/tagc-lang/tagc/internal/interner"
)

// String renders t for diagnostics and debugging. It needs the
// interners to resolve field and tag names, mirroring
// original_source's type_to_string.rs (which also threads an interner
// through for the same reason).
func String(t Type, strs *interner.StringInterner, tags *interner.TagInterner) string {
	switch k := t.Kind.(type) {
	case KUnknown:
		return "unknown"
	case KPrimitive:
		return primitiveNames[k.Prim]
	case KPointer:
		prefix := map[PointerKind]string{PointerMut: "*mut ", PointerRef: "*", PointerRaw: "*raw "}[k.Kind]
		return prefix + String(*k.NarrowedTo, strs, tags)
	case KFn:
		parts := make([]string, len(k.Params))
		for i, p := range k.Params {
			parts[i] = String(p, strs, tags)
		}
		return fmt.Sprintf("fn(%s): %s", strings.Join(parts, ", "), String(*k.Return, strs, tags))
	case KStruct:
		switch k.Struct {
		case StructUserDefined:
			parts := make([]string, len(k.Fields))
			for i, f := range k.Fields {
				parts[i] = fmt.Sprintf("%s: %s", strs.Lookup(f.Name), String(f.Type, strs, tags))
			}
			return "{ " + strings.Join(parts, ", ") + " }"
		case StructTagKind:
			return tagString(*k.Tag, strs, tags)
		case StructUnionKind:
			parts := make([]string, len(k.Variants))
			for i, v := range k.Variants {
				parts[i] = tagString(v, strs, tags)
			}
			return strings.Join(parts, " | ")
		case StructListKind:
			return "[" + String(*k.Item, strs, tags) + "]"
		case StructStringKind:
			return "string"
		case StructClosureObjectKind:
			return "closure(" + String(*k.ClosureFn, strs, tags) + ")"
		case StructClosureEnvKind:
			return "closure_env"
		}
	}
	return "<?>"
}

func tagString(tt TagType, strs *interner.StringInterner, tags *interner.TagInterner) string {
	name := tags.Lookup(tt.ID)
	if tt.Payload == nil {
		return "#" + name
	}
	return "#" + name + "(" + String(*tt.Payload, strs, tags) + ")"
}
