package gosig

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// DefSite is the immutable definition-site metadata attached to a wrapped
// function for diagnostics: where the original function lives and what it is
// called. It is captured once, the first time any check is attached, and
// reused by every subsequently stacked check.
type DefSite struct {
	File string
	Line int
	Name string
}

func (d DefSite) String() string {
	return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Name)
}

// FunctionContract is the immutable bundle of schemas and metadata attached
// to a wrapped function. Stacking a further check produces a new contract;
// an existing one is never mutated, so contracts are safe to share across
// goroutines.
type FunctionContract struct {
	site      DefSite
	sig       *Signature
	params    map[string]Schema
	ret       Schema
	hasReturn bool
}

// Site returns the definition-site metadata.
func (c *FunctionContract) Site() DefSite { return c.site }

// Return reports the attached return schema, if any. Its presence is the
// marker the ordering rule is detected by.
func (c *FunctionContract) Return() (Schema, bool) { return c.ret, c.hasReturn }

// Param reports the schema attached to the named parameter, if any.
func (c *FunctionContract) Param(name string) (Schema, bool) {
	s, ok := c.params[name]
	return s, ok
}

// Signature returns the declared signature, or nil when no parameter check
// is attached.
func (c *FunctionContract) Signature() *Signature { return c.sig }

// Func is the handle for an instrumented function. It preserves the original
// function's type and definition-site identity, carries the contract for
// downstream inspection, and materializes a transparently callable function
// of the original type via Interface.
type Func struct {
	typ      reflect.Type
	call     func(args []reflect.Value) []reflect.Value
	contract *FunctionContract
	policy   *Policy
}

// Contract returns the attached contract.
func (f *Func) Contract() *FunctionContract { return f.contract }

// DefSite returns the definition-site metadata of the original function.
func (f *Func) DefSite() DefSite { return f.contract.site }

// Name returns the original function's name.
func (f *Func) Name() string { return f.contract.site.Name }

// Type returns the function type the handle wraps.
func (f *Func) Type() reflect.Type { return f.typ }

// Interface returns a function of the original's exact type that runs the
// contract checks around every call. The result can be assigned wherever the
// original could, so instrumentation is invisible to callers.
func (f *Func) Interface() any {
	return reflect.MakeFunc(f.typ, f.call).Interface()
}

// Call invokes the instrumented function dynamically. Exactly one argument
// per declared parameter is required; for a variadic function the final
// argument is the collected slice. Untyped nil arguments become the zero
// value of the parameter type.
func (f *Func) Call(args ...any) []any {
	if len(args) != f.typ.NumIn() {
		panic(defErrf("%s: call with %d args, want %d", f.contract.site.Name, len(args), f.typ.NumIn()))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			in[i] = reflect.Zero(f.typ.In(i))
			continue
		}
		in[i] = reflect.ValueOf(a)
	}
	out := f.call(in)
	res := make([]any, len(out))
	for i, o := range out {
		res[i] = o.Interface()
	}
	return res
}

// siteOf captures definition-site metadata for a raw function value.
func siteOf(fn reflect.Value) DefSite {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return DefSite{Name: "func"}
	}
	file, line := rf.FileLine(rf.Entry())
	return DefSite{File: file, Line: line, Name: shortFuncName(rf.Name())}
}

// shortFuncName trims the package path from a runtime function name:
// "github.com/x/y/pkg.Add" becomes "Add", "pkg.(*T).M" becomes "(*T).M".
func shortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
