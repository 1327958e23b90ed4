package gosig_test

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"
	"testing"

	gosig "github.com/reoring/gosig"
)

func TestMatchesAtomic(t *testing.T) {
	intS := gosig.TypeOf[int]()
	if !gosig.Matches(5, intS) {
		t.Fatalf("5 should match int")
	}
	if gosig.Matches(int64(5), intS) {
		t.Fatalf("int64(5) must not match int: no coercion")
	}
	if gosig.Matches("5", intS) {
		t.Fatalf("string must not match int")
	}
	if gosig.Matches(nil, intS) {
		t.Fatalf("nil must not match int")
	}
	if !gosig.Matches(5.0, gosig.TypeOf[float64]()) {
		t.Fatalf("5.0 should match float64")
	}
	if gosig.Matches(5, gosig.TypeOf[float64]()) {
		t.Fatalf("int must not match float64")
	}
}

func TestMatchesInterfaceSchema(t *testing.T) {
	readerS := gosig.TypeOf[io.Reader]()
	if !gosig.Matches(bytes.NewBufferString("x"), readerS) {
		t.Fatalf("*bytes.Buffer implements io.Reader")
	}
	if gosig.Matches(42, readerS) {
		t.Fatalf("int does not implement io.Reader")
	}
	if !gosig.Matches(errors.New("boom"), gosig.TypeOf[error]()) {
		t.Fatalf("errors.New result should match error")
	}
	if gosig.Matches(strings.NewReader("x"), gosig.TypeOf[io.ReadWriter]()) {
		t.Fatalf("*strings.Reader does not implement io.ReadWriter")
	}
}

func TestMatchesAnyAndNil(t *testing.T) {
	if !gosig.Matches(nil, gosig.Any()) || !gosig.Matches(5, gosig.Any()) || !gosig.Matches(struct{}{}, gosig.Any()) {
		t.Fatalf("Any should match everything")
	}
	if !gosig.Matches(nil, gosig.Nil()) {
		t.Fatalf("nil should match Nil")
	}
	var p *int
	if !gosig.Matches(p, gosig.Nil()) {
		t.Fatalf("typed nil pointer should match Nil")
	}
	if gosig.Matches(0, gosig.Nil()) {
		t.Fatalf("0 must not match Nil")
	}
}

type animal struct{ name string }

type dog struct {
	animal
	breed string
}

type loudDog struct{ *dog }

func TestMatchesNamed(t *testing.T) {
	d := dog{animal: animal{name: "rex"}, breed: "lab"}
	if !gosig.Matches(d, gosig.Named("dog")) {
		t.Fatalf("dog should match its own name")
	}
	if !gosig.Matches(d, gosig.Named("animal")) {
		t.Fatalf("dog embeds animal, should match the ancestor name")
	}
	if !gosig.Matches(loudDog{dog: &d}, gosig.Named("animal")) {
		t.Fatalf("ancestor walk should follow embedded pointers")
	}
	if gosig.Matches(animal{}, gosig.Named("dog")) {
		t.Fatalf("ancestor match must not run downward")
	}
	if gosig.Matches(nil, gosig.Named("dog")) {
		t.Fatalf("nil never matches a name")
	}
}

func TestMatchesRegisteredName(t *testing.T) {
	gosig.RegisterName("Textual", func(v any) bool {
		_, ok := v.(string)
		return ok
	})
	defer gosig.RegisterName("Textual", nil)
	if !gosig.Matches("hello", gosig.Named("Textual")) {
		t.Fatalf("registered predicate should match")
	}
	if gosig.Matches(5, gosig.Named("Textual")) {
		t.Fatalf("predicate rejected the value, no other rule applies")
	}
}

func TestMatchesList(t *testing.T) {
	ints := gosig.ListOf(gosig.TypeOf[int]())
	if !gosig.Matches([]int{1, 2, 3}, ints) {
		t.Fatalf("[]int should match [int]")
	}
	if !gosig.Matches([3]int{1, 2, 3}, ints) {
		t.Fatalf("arrays are sequences too")
	}
	if !gosig.Matches([]any{1, 2}, ints) {
		t.Fatalf("[]any of ints should match [int]")
	}
	if gosig.Matches([]any{1, "x"}, ints) {
		t.Fatalf("one bad element fails the whole list")
	}
	if !gosig.Matches([]int{}, ints) {
		t.Fatalf("empty list matches vacuously")
	}
	if gosig.Matches("123", ints) {
		t.Fatalf("a string is not a list")
	}
	if gosig.Matches(nil, ints) {
		t.Fatalf("nil is not a list")
	}
}

func TestMatchesTuple(t *testing.T) {
	pair := gosig.Tuple(gosig.TypeOf[int](), gosig.TypeOf[string]())
	if !gosig.Matches([]any{1, "x"}, pair) {
		t.Fatalf("(1, \"x\") should match (int, string)")
	}
	if gosig.Matches([]any{1}, pair) || gosig.Matches([]any{1, "x", 2}, pair) {
		t.Fatalf("tuple arity is exact")
	}
	if gosig.Matches([]any{"x", 1}, pair) {
		t.Fatalf("tuple elements match positionally")
	}
}

func TestMatchesMapAndSet(t *testing.T) {
	m := gosig.MapOf(gosig.TypeOf[string](), gosig.TypeOf[int]())
	if !gosig.Matches(map[string]int{"a": 1}, m) {
		t.Fatalf("map[string]int should match {string:int}")
	}
	if !gosig.Matches(map[string]any{"a": 1}, m) {
		t.Fatalf("map value entries are checked per value")
	}
	if gosig.Matches(map[string]any{"a": "x"}, m) {
		t.Fatalf("one bad value fails the map")
	}
	if gosig.Matches([]int{1}, m) {
		t.Fatalf("a slice is not a map")
	}

	set := gosig.SetOf(gosig.TypeOf[string]())
	if !gosig.Matches(map[string]struct{}{"a": {}}, set) {
		t.Fatalf("map[T]struct{} is a set")
	}
	if !gosig.Matches(map[string]bool{"a": true}, set) {
		t.Fatalf("map[T]bool is a set")
	}
	if gosig.Matches(map[string]int{"a": 1}, set) {
		t.Fatalf("map[T]int is a mapping, not a set")
	}
	if gosig.Matches(map[int]struct{}{1: {}}, set) {
		t.Fatalf("set elements are checked against the element schema")
	}
}

func TestMatchesUnionAndNullable(t *testing.T) {
	u := gosig.Union(gosig.TypeOf[int](), gosig.TypeOf[string]())
	if !gosig.Matches(1, u) || !gosig.Matches("x", u) {
		t.Fatalf("union should match either alternative")
	}
	if gosig.Matches(1.5, u) {
		t.Fatalf("union rejects values outside every alternative")
	}
	n := gosig.Nullable(gosig.TypeOf[string]())
	if !gosig.Matches(nil, n) || !gosig.Matches("x", n) {
		t.Fatalf("Nullable admits nil and the inner schema")
	}
	if gosig.Matches(5, n) {
		t.Fatalf("Nullable is not Any")
	}
}

func TestMatchesEnum(t *testing.T) {
	e := gosig.Enum("red", "green", 2)
	if !gosig.Matches("red", e) || !gosig.Matches(2, e) {
		t.Fatalf("enum should match its literals")
	}
	if gosig.Matches("blue", e) {
		t.Fatalf("enum rejects other values")
	}
	if gosig.Matches(int64(2), e) {
		t.Fatalf("enum equality does not coerce")
	}
	if !gosig.Matches([]int{1, 2}, gosig.Enum([]int{1, 2})) {
		t.Fatalf("enum compares composite literals by deep equality")
	}
}

type countdown struct{ n int }

func (c countdown) Iterate() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := c.n; i > 0; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

func TestMatchesIter(t *testing.T) {
	it := gosig.Iter()
	for _, v := range []any{
		[]int{1},
		[2]string{"a", "b"},
		map[string]int{"a": 1},
		make(chan int),
		"hello",
		func(yield func(int) bool) {},
		func(yield func(string, int) bool) {},
		countdown{n: 3},
	} {
		if !gosig.Matches(v, it) {
			t.Fatalf("%T should be iterable", v)
		}
	}
	for _, v := range []any{5, 1.5, struct{}{}, func() {}, func(int) bool { return false }} {
		if gosig.Matches(v, it) {
			t.Fatalf("%T should not be iterable", v)
		}
	}
	if gosig.Matches(nil, it) {
		t.Fatalf("nil is not iterable")
	}
}

func TestMatchesNested(t *testing.T) {
	// {string:[(int, U(string, nil))]}
	s := gosig.MapOf(
		gosig.TypeOf[string](),
		gosig.ListOf(gosig.Tuple(gosig.TypeOf[int](), gosig.Nullable(gosig.TypeOf[string]()))),
	)
	good := map[string]any{
		"a": []any{[]any{1, "x"}, []any{2, nil}},
		"b": []any{},
	}
	if !gosig.Matches(good, s) {
		t.Fatalf("nested value should match")
	}
	bad := map[string]any{"a": []any{[]any{1, 2}}}
	if gosig.Matches(bad, s) {
		t.Fatalf("deep mismatch should be detected")
	}
}

func TestSetTestBypass(t *testing.T) {
	type sentinel struct{}
	gosig.SetTestBypass(func(v any) bool {
		_, ok := v.(sentinel)
		return ok
	})
	defer gosig.SetTestBypass(nil)
	if !gosig.Matches(sentinel{}, gosig.TypeOf[int]()) {
		t.Fatalf("bypassed value should match any schema")
	}
	if gosig.Matches("x", gosig.TypeOf[int]()) {
		t.Fatalf("bypass must not affect other values")
	}
	gosig.SetTestBypass(nil)
	if gosig.Matches(sentinel{}, gosig.TypeOf[int]()) {
		t.Fatalf("bypass should be off after reset")
	}
}
