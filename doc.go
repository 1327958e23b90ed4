// Package gosig verifies, at call time, that a function's arguments and
// return value match a declared type signature, and fails loudly at the
// boundary when they do not.
//
// A signature is a recursive Schema built from the constructors in this
// package:
//
//   - TypeOf[int]() requires an int (or, for interface types, an
//     implementation);
//   - Named("Reader") matches any value whose type, or any embedded type,
//     is called Reader, with no compile-time reference to it;
//   - ListOf(TypeOf[int]()) matches a slice or array of ints;
//   - Tuple(TypeOf[int](), TypeOf[string]()) matches a two-element sequence
//     positionally;
//   - MapOf(TypeOf[string](), TypeOf[int]()) matches maps, SetOf matches
//     maps used as sets;
//   - Iter() matches anything iterable;
//   - Union, Nullable and Enum compose alternatives, nil-admission and
//     literal sets.
//
// Schemas attach to functions through instruments:
//
//	w := gosig.Params(
//		gosig.NewSignature("a", "b"),
//		map[string]gosig.Schema{"a": gosig.TypeOf[int](), "b": gosig.TypeOf[int]()},
//	).MustWrap(add)
//	w = gosig.Returns(gosig.TypeOf[int]()).MustWrap(w)
//	add = w.Interface().(func(int, int) int)
//
// or, deriving everything from the function's own type:
//
//	div = gosig.MustWrapAs(gosig.Typed("a", "b"), div)
//
// Returns must be applied outside Params; the reverse order is an
// OrderingError at wrap time. All definition problems (malformed schemas,
// signature mismatches, ordering) surface at wrap time; call-time
// violations are routed through the process-wide Policy, which can log a
// structured diagnostic, raise a typed error, both, or neither.
//
// The sigexpr subpackage parses the compact textual form of a signature
// ("{string:[int]}", "U(int, string)"), sigfile loads whole contract sets
// from YAML, and cmd/gosig exposes both on the command line.
package gosig
