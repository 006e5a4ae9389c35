package types

// Identical reports structural equality between two types (spec §3.2):
// discriminant-first, then structural. Unknown == Unknown is true, but
// Unknown is never Identical to anything else — it is only ever a
// *subtype* of everything, which is what Assignable (not Identical)
// captures.
//
// Union equality is multiset equality on variants (order-independent,
// since NewUnion/UnionOf keep variants sorted by TagID, two structurally
// equal unions are always stored in the same order).
func Identical(a, b Type) bool {
	switch ak := a.Kind.(type) {
	case KUnknown:
		_, ok := b.Kind.(KUnknown)
		return ok
	case KPrimitive:
		bk, ok := b.Kind.(KPrimitive)
		return ok && ak.Prim == bk.Prim
	case KPointer:
		bk, ok := b.Kind.(KPointer)
		if !ok || ak.Kind != bk.Kind {
			return false
		}
		return Identical(*ak.Constraint, *bk.Constraint) && Identical(*ak.NarrowedTo, *bk.NarrowedTo)
	case KFn:
		bk, ok := b.Kind.(KFn)
		if !ok || len(ak.Params) != len(bk.Params) {
			return false
		}
		for i := range ak.Params {
			if !Identical(ak.Params[i], bk.Params[i]) {
				return false
			}
		}
		return Identical(*ak.Return, *bk.Return)
	case KStruct:
		bk, ok := b.Kind.(KStruct)
		if !ok || ak.Struct != bk.Struct {
			return false
		}
		switch ak.Struct {
		case StructUserDefined:
			if len(ak.Fields) != len(bk.Fields) {
				return false
			}
			for i := range ak.Fields {
				if ak.Fields[i].Name != bk.Fields[i].Name || !Identical(ak.Fields[i].Type, bk.Fields[i].Type) {
					return false
				}
			}
			return true
		case StructTagKind:
			return identicalTag(*ak.Tag, *bk.Tag)
		case StructUnionKind:
			if len(ak.Variants) != len(bk.Variants) {
				return false
			}
			for i := range ak.Variants {
				if !identicalTag(ak.Variants[i], bk.Variants[i]) {
					return false
				}
			}
			return true
		case StructListKind:
			return Identical(*ak.Item, *bk.Item)
		case StructStringKind:
			return true
		case StructClosureObjectKind:
			return Identical(*ak.ClosureFn, *bk.ClosureFn) && Identical(*ak.ClosureEnv, *bk.ClosureEnv)
		case StructClosureEnvKind:
			return true
		}
		return false
	}
	return false
}

func identicalTag(a, b TagType) bool {
	if a.ID != b.ID {
		return false
	}
	if (a.Payload == nil) != (b.Payload == nil) {
		return false
	}
	if a.Payload == nil {
		return true
	}
	return Identical(*a.Payload, *b.Payload)
}

// Hash computes an order-independent-for-unions structural hash, such
// that Identical(a, b) implies Hash(a) == Hash(b) (spec §8, property 2).
// It is an FNV-1a-style accumulator; there is no requirement it match any
// particular external hash, only that it be a congruence with Identical.
func Hash(t Type) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	mix := func(x uint64) {
		h ^= x
		h *= prime64
	}
	var walk func(t Type)
	walk = func(t Type) {
		switch k := t.Kind.(type) {
		case KUnknown:
			mix(1)
		case KPrimitive:
			mix(2)
			mix(uint64(k.Prim))
		case KPointer:
			mix(3)
			mix(uint64(k.Kind))
			walk(*k.Constraint)
			walk(*k.NarrowedTo)
		case KFn:
			mix(4)
			mix(uint64(len(k.Params)))
			for _, p := range k.Params {
				walk(p)
			}
			walk(*k.Return)
		case KStruct:
			mix(5)
			mix(uint64(k.Struct))
			switch k.Struct {
			case StructUserDefined:
				mix(uint64(len(k.Fields)))
				for _, f := range k.Fields {
					mix(uint64(f.Name))
					walk(f.Type)
				}
			case StructTagKind:
				hashTag(mix, walk, *k.Tag)
			case StructUnionKind:
				// Order-independent: accumulate each variant's hash with
				// XOR so permutations of the same variant set collide.
				var acc uint64
				for _, v := range k.Variants {
					acc ^= hashTagValue(v)
				}
				mix(acc)
			case StructListKind:
				walk(*k.Item)
			case StructClosureObjectKind:
				walk(*k.ClosureFn)
				walk(*k.ClosureEnv)
			}
		}
	}
	walk(t)
	return h
}

func hashTag(mix func(uint64), walk func(Type), tt TagType) {
	mix(uint64(tt.ID))
	if tt.Payload != nil {
		walk(*tt.Payload)
	}
}

func hashTagValue(tt TagType) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	h ^= uint64(tt.ID)
	h *= prime64
	if tt.Payload != nil {
		h ^= Hash(*tt.Payload)
		h *= prime64
	}
	return h
}
