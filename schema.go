package gosig

import (
	"iter"
	"reflect"
)

// Kind identifies the structural variant of a Schema node.
type Kind int

const (
	KindType Kind = iota
	KindNamed
	KindList
	KindTuple
	KindMap
	KindSet
	KindIter
	KindUnion
	KindEnum
)

// Schema describes the acceptable shape of a value. Schemas are immutable
// finite trees built from the constructors below; they are safe to share
// across goroutines and to reuse for any number of functions.
//
// A schema is one of:
//
//   - an atomic type (Type, TypeOf, Any, Nil), matching by runtime type
//     identity, or by interface implementation when the schema type is an
//     interface;
//   - a named ancestor (Named), matching by type name without a compile-time
//     reference to the type;
//   - a list (ListOf), tuple (Tuple), mapping (MapOf) or set (SetOf)
//     constraint over nested schemas;
//   - the iterator marker (Iter), matching anything that can be iterated;
//   - a union of alternatives (Union, Nullable);
//   - an enumeration of literal values (Enum).
type Schema interface {
	Kind() Kind
}

// Iterable lets arbitrary types opt into the Iter schema.
type Iterable interface {
	Iterate() iter.Seq[any]
}

type typeSchema struct{ t reflect.Type }

type namedSchema struct{ name string }

type listSchema struct{ elem Schema }

type tupleSchema struct{ elems []Schema }

type mapSchema struct{ key, value Schema }

type setSchema struct{ elem Schema }

type iterSchema struct{}

type unionSchema struct{ alts []Schema }

type enumSchema struct{ values []any }

func (typeSchema) Kind() Kind  { return KindType }
func (namedSchema) Kind() Kind { return KindNamed }
func (listSchema) Kind() Kind  { return KindList }
func (tupleSchema) Kind() Kind { return KindTuple }
func (mapSchema) Kind() Kind   { return KindMap }
func (setSchema) Kind() Kind   { return KindSet }
func (iterSchema) Kind() Kind  { return KindIter }
func (unionSchema) Kind() Kind { return KindUnion }
func (enumSchema) Kind() Kind  { return KindEnum }

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Type returns the atomic schema for t. A nil t is the nil-type sentinel
// used by Void and Nullable; prefer Nil for that.
func Type(t reflect.Type) Schema { return typeSchema{t: t} }

// TypeOf returns the atomic schema for the type parameter T.
func TypeOf[T any]() Schema { return typeSchema{t: reflect.TypeOf((*T)(nil)).Elem()} }

// Any matches every value, including nil. It is the schema assigned to
// receiver-named parameters that carry no explicit schema.
func Any() Schema { return typeSchema{t: anyType} }

// Nil matches only nil values. It doubles as the void sentinel: a function
// wrapped with Returns(Nil()) must not return a value.
func Nil() Schema { return typeSchema{t: nil} }

// Named matches any value whose type name, or the name of any embedded
// (ancestor) type, equals name, as well as values accepted by a predicate
// registered under name via RegisterName. It exists to match by identity
// without a compile-time reference to the type.
func Named(name string) Schema { return namedSchema{name: name} }

// ListOf matches slices and arrays whose every element satisfies elem.
// The empty sequence always matches.
func ListOf(elem Schema) Schema { return listSchema{elem: elem} }

// Tuple matches slices and arrays of exactly len(elems) elements, where
// element i satisfies elems[i].
func Tuple(elems ...Schema) Schema {
	cp := make([]Schema, len(elems))
	copy(cp, elems)
	return tupleSchema{elems: cp}
}

// MapOf matches maps whose every key satisfies key and every value satisfies
// value. The empty map always matches.
func MapOf(key, value Schema) Schema { return mapSchema{key: key, value: value} }

// SetOf matches maps used as sets (struct{} or bool values) whose every key
// satisfies elem. The empty set always matches.
func SetOf(elem Schema) Schema { return setSchema{elem: elem} }

// Iter matches any iterable value: slices, arrays, maps, channels, strings,
// iter.Seq-shaped functions, and Iterable implementations.
func Iter() Schema { return iterSchema{} }

// Union matches values satisfying at least one of alts, tried in order.
func Union(alts ...Schema) Schema {
	cp := make([]Schema, len(alts))
	copy(cp, alts)
	return unionSchema{alts: cp}
}

// Nullable is sugar for Union(s, Nil()): it matches s and nil.
func Nullable(s Schema) Schema { return Union(s, Nil()) }

// Enum matches values equal to one of the given literals. Equality is value
// equality without coercion: Enum(5) does not match int64(5).
func Enum(values ...any) Schema {
	cp := make([]any, len(values))
	copy(cp, values)
	return enumSchema{values: cp}
}
