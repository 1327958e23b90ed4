package gosig

import (
	"reflect"
	"sync"
)

var (
	bypassMu   sync.RWMutex
	bypassPred func(v any) bool
)

// SetTestBypass installs a predicate evaluated before every other matching
// rule; values it accepts match any schema. It exists purely so test doubles
// can stand in for arbitrary schemas under test, and should only ever be set
// from test code. Passing nil disables the bypass.
func SetTestBypass(pred func(v any) bool) {
	bypassMu.Lock()
	bypassPred = pred
	bypassMu.Unlock()
}

func bypassed(v any) bool {
	bypassMu.RLock()
	p := bypassPred
	bypassMu.RUnlock()
	return p != nil && p(v)
}

// Matches reports whether v satisfies s. It is pure and total: no side
// effects, no panics, recursion bounded by the schema depth. There is no
// implicit coercion anywhere; an int never satisfies a float64 schema, and a
// concrete type satisfies an interface schema but never the reverse.
func Matches(v any, s Schema) bool {
	if bypassed(v) {
		return true
	}
	switch t := s.(type) {
	case enumSchema:
		for _, e := range t.values {
			if reflect.DeepEqual(v, e) {
				return true
			}
		}
		return false
	case iterSchema:
		return iterableValue(v)
	case typeSchema:
		return matchesType(v, t.t)
	case namedSchema:
		return matchesName(v, t.name)
	case listSchema:
		rv, ok := sequenceOf(v)
		if !ok {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if !Matches(rv.Index(i).Interface(), t.elem) {
				return false
			}
		}
		return true
	case tupleSchema:
		rv, ok := sequenceOf(v)
		if !ok || rv.Len() != len(t.elems) {
			return false
		}
		for i, es := range t.elems {
			if !Matches(rv.Index(i).Interface(), es) {
				return false
			}
		}
		return true
	case mapSchema:
		if v == nil {
			return false
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return false
		}
		for it := rv.MapRange(); it.Next(); {
			if !Matches(it.Key().Interface(), t.key) || !Matches(it.Value().Interface(), t.value) {
				return false
			}
		}
		return true
	case setSchema:
		if v == nil {
			return false
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map || !setLike(rv.Type()) {
			return false
		}
		for it := rv.MapRange(); it.Next(); {
			if !Matches(it.Key().Interface(), t.elem) {
				return false
			}
		}
		return true
	case unionSchema:
		for _, alt := range t.alts {
			if Matches(v, alt) {
				return true
			}
		}
		return false
	}
	return false
}

func matchesType(v any, st reflect.Type) bool {
	if st == nil {
		// nil-type sentinel: only nil values qualify.
		return isNilValue(v)
	}
	if v == nil {
		// nil carries no type; it satisfies only the unconstrained interface.
		return st.Kind() == reflect.Interface && st.NumMethod() == 0
	}
	rt := reflect.TypeOf(v)
	if rt == st {
		return true
	}
	if st.Kind() == reflect.Interface {
		return rt.Implements(st)
	}
	return false
}

func sequenceOf(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return reflect.Value{}, false
	}
	return rv, true
}

func setLike(t reflect.Type) bool {
	e := t.Elem()
	return e.Kind() == reflect.Bool || (e.Kind() == reflect.Struct && e.NumField() == 0)
}

func iterableValue(v any) bool {
	if _, ok := v.(Iterable); ok {
		return true
	}
	if v == nil {
		return false
	}
	rt := reflect.TypeOf(v)
	switch rt.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan, reflect.String:
		return true
	case reflect.Func:
		return seqShaped(rt)
	}
	return false
}

// seqShaped reports whether t has the iter.Seq or iter.Seq2 form
// func(yield func(...) bool).
func seqShaped(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return false
	}
	y := t.In(0)
	if y.Kind() != reflect.Func || y.IsVariadic() {
		return false
	}
	if y.NumIn() != 1 && y.NumIn() != 2 {
		return false
	}
	return y.NumOut() == 1 && y.Out(0).Kind() == reflect.Bool
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
