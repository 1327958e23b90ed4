package gosig

import (
	"fmt"
	"strings"
)

// Describe renders s as its canonical textual form, used in every diagnostic
// message: atomic types by their Go name, `[int]` for lists, `(int, string)`
// for tuples, `{string:int}` for maps, `{int}` for sets, `U(a, b)` for
// unions, `Enum[a, b]` for enums, `iter`, `any` and `nil` for the markers.
// It never panics for any schema accepted by CheckSchema.
func Describe(s Schema) string {
	switch t := s.(type) {
	case typeSchema:
		if t.t == nil {
			return "nil"
		}
		if t.t == anyType {
			return "any"
		}
		return t.t.String()
	case namedSchema:
		return t.name
	case listSchema:
		return "[" + Describe(t.elem) + "]"
	case tupleSchema:
		parts := make([]string, len(t.elems))
		for i, e := range t.elems {
			parts[i] = Describe(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case mapSchema:
		return "{" + Describe(t.key) + ":" + Describe(t.value) + "}"
	case setSchema:
		return "{" + Describe(t.elem) + "}"
	case iterSchema:
		return "iter"
	case unionSchema:
		parts := make([]string, len(t.alts))
		for i, alt := range t.alts {
			parts[i] = Describe(alt)
		}
		return "U(" + strings.Join(parts, ", ") + ")"
	case enumSchema:
		parts := make([]string, len(t.values))
		for i, v := range t.values {
			parts[i] = describeLiteral(v)
		}
		return "Enum[" + strings.Join(parts, ", ") + "]"
	}
	return "<invalid>"
}

func describeLiteral(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
