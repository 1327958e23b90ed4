package gosig

import (
	"fmt"
	"reflect"
	"sort"
)

// Instrument attaches contract checks to functions. Instruments are built by
// Returns, Params, Void and Typed; definition errors found during
// construction are collected and surfaced by Wrap, so instruments compose
// without intermediate error handling (the Build/MustBuild idiom).
type Instrument struct {
	kind    instrumentKind
	ret     Schema
	sig     Signature
	schemas map[string]Schema
	names   []string
	policy  *Policy
	err     error
}

type instrumentKind int

const (
	instrReturns instrumentKind = iota
	instrParams
	instrTyped
)

// Returns builds an instrument that checks the wrapped function's results
// against s after every call. Multiple results are checked as a tuple; a
// trailing error result is the violation channel and is not part of the
// checked value. When both Returns and Params are applied to one function,
// Returns must be the outer wrapper.
func Returns(s Schema) Instrument {
	in := Instrument{kind: instrReturns, ret: s}
	if err := CheckSchema(s); err != nil {
		in.err = err
	}
	return in
}

// Void is sugar for Returns(Nil()): the function must not return a value.
func Void() Instrument { return Returns(Nil()) }

// Params builds an instrument that checks every call's arguments: positional
// arguments against the schema of their declared name, keyword entries by
// name. Schema names must exactly match the signature's declared names,
// except that receiver names (self, this) default to Any.
func Params(sig Signature, schemas map[string]Schema) Instrument {
	cp := make(map[string]Schema, len(schemas))
	for name, s := range schemas {
		cp[name] = s
	}
	return Instrument{kind: instrParams, sig: sig, schemas: cp}
}

// Typed derives the contract from the function's own type: an atomic schema
// per parameter and per result (results beyond one form a tuple; a trailing
// error result is excluded; no results means Void). names supplies the
// parameter names; when omitted they default to arg0, arg1, ... A function
// with neither parameters nor checkable results yields
// AnnotationMissingError.
func Typed(names ...string) Instrument {
	cp := make([]string, len(names))
	copy(cp, names)
	return Instrument{kind: instrTyped, names: cp}
}

// WithPolicy routes this instrument's call-time violations through p instead
// of the process-wide default policy.
func (in Instrument) WithPolicy(p *Policy) Instrument {
	in.policy = p
	return in
}

// Wrap attaches the instrument to fn, which is either a function value or an
// already wrapped *Func (stacking). Definition problems (malformed schemas,
// a signature that does not match the function, Params applied over Returns)
// are returned here, before any call happens, and never go through the
// reporting policy.
func (in Instrument) Wrap(fn any) (*Func, error) {
	if in.err != nil {
		return nil, in.err
	}
	f, err := asFunc(fn)
	if err != nil {
		return nil, err
	}
	switch in.kind {
	case instrReturns:
		return wrapReturns(f, in.ret, in.policy)
	case instrParams:
		return wrapParams(f, in.sig, in.schemas, in.policy)
	case instrTyped:
		return wrapTyped(f, in.names, in.policy)
	}
	return nil, defErrf("unknown instrument")
}

// MustWrap is Wrap, panicking on definition errors.
func (in Instrument) MustWrap(fn any) *Func {
	f, err := in.Wrap(fn)
	if err != nil {
		panic(err)
	}
	return f
}

// WrapAs wraps fn and materializes the result as a function of the same
// type, so the instrumented function drops in wherever fn did.
func WrapAs[F any](in Instrument, fn F) (F, error) {
	w, err := in.Wrap(fn)
	if err != nil {
		var zero F
		return zero, err
	}
	return w.Interface().(F), nil
}

// MustWrapAs is WrapAs, panicking on definition errors.
func MustWrapAs[F any](in Instrument, fn F) F {
	f, err := WrapAs(in, fn)
	if err != nil {
		panic(err)
	}
	return f
}

func asFunc(fn any) (*Func, error) {
	if f, ok := fn.(*Func); ok {
		return f, nil
	}
	if fn == nil {
		return nil, defErrf("cannot wrap nil")
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, defErrf("cannot wrap %T: not a function", fn)
	}
	variadic := rv.Type().IsVariadic()
	return &Func{
		typ: rv.Type(),
		call: func(args []reflect.Value) []reflect.Value {
			if variadic {
				return rv.CallSlice(args)
			}
			return rv.Call(args)
		},
		contract: &FunctionContract{site: siteOf(rv)},
	}, nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// raise delivers a violation the policy decided to raise. If the function's
// last result is an error, the violation is returned there with zero values
// elsewhere; otherwise the wrapper panics, the only remaining channel that
// keeps the function type intact.
func raise(ft reflect.Type, err error) []reflect.Value {
	n := ft.NumOut()
	if n > 0 && ft.Out(n-1) == errType {
		out := make([]reflect.Value, n)
		for i := 0; i < n-1; i++ {
			out[i] = reflect.Zero(ft.Out(i))
		}
		ev := reflect.New(errType).Elem()
		ev.Set(reflect.ValueOf(err))
		out[n-1] = ev
		return out
	}
	panic(err)
}

func pickPolicy(explicit, inherited *Policy) *Policy {
	if explicit != nil {
		return explicit
	}
	if inherited != nil {
		return inherited
	}
	return DefaultPolicy()
}

func wrapParams(f *Func, sig Signature, schemas map[string]Schema, pol *Policy) (*Func, error) {
	prev := f.contract
	if prev.hasReturn {
		return nil, &OrderingError{Site: prev.site}
	}
	if prev.params != nil {
		return nil, sigErrf("%s: parameters are already instrumented", prev.site.Name)
	}
	bound, err := sig.bind(f.typ, schemas)
	if err != nil {
		return nil, err
	}
	contract := &FunctionContract{site: prev.site, sig: &sig, params: bound}
	policy := pickPolicy(pol, f.policy)
	inner := f.call
	ft := f.typ
	names := sig.names
	call := func(args []reflect.Value) []reflect.Value {
		for i, name := range names {
			v := args[i].Interface()
			if s := bound[name]; !Matches(v, s) {
				if rerr := policy.report(contract.site, newArgumentError(contract.site, name, v, s)); rerr != nil {
					return raise(ft, rerr)
				}
			}
		}
		if sig.kwargs {
			kw, _ := args[len(args)-1].Interface().(map[string]any)
			for _, name := range sortedKeys(kw) {
				v := kw[name]
				s, ok := bound[name]
				if !ok {
					if sig.extras {
						continue
					}
					if rerr := policy.report(contract.site, newUnexpectedKeywordError(contract.site, name)); rerr != nil {
						return raise(ft, rerr)
					}
					continue
				}
				if !Matches(v, s) {
					if rerr := policy.report(contract.site, newKeywordError(contract.site, name, v, s)); rerr != nil {
						return raise(ft, rerr)
					}
				}
			}
		}
		return inner(args)
	}
	return &Func{typ: ft, call: call, contract: contract, policy: policy}, nil
}

func wrapReturns(f *Func, s Schema, pol *Policy) (*Func, error) {
	prev := f.contract
	contract := &FunctionContract{
		site:      prev.site,
		sig:       prev.sig,
		params:    prev.params,
		ret:       s,
		hasReturn: true,
	}
	policy := pickPolicy(pol, f.policy)
	inner := f.call
	ft := f.typ
	nOut := ft.NumOut()
	hasErr := nOut > 0 && ft.Out(nOut-1) == errType
	nVals := nOut
	if hasErr {
		nVals--
	}
	void := false
	if ts, ok := s.(typeSchema); ok && ts.t == nil {
		void = true
	}
	call := func(args []reflect.Value) []reflect.Value {
		out := inner(args)
		if hasErr && !out[nOut-1].IsNil() {
			// the call already failed; its zero results are not a contract
			// violation
			return out
		}
		var ret any
		switch nVals {
		case 0:
			ret = nil
		case 1:
			ret = out[0].Interface()
		default:
			vals := make([]any, nVals)
			for i := range vals {
				vals[i] = out[i].Interface()
			}
			ret = vals
		}
		if !Matches(ret, s) {
			var verr error
			switch {
			case isNilValue(ret) && !void:
				verr = newMissingReturnError(contract.site)
			case !isNilValue(ret) && void:
				verr = newVoidReturnError(contract.site)
			default:
				verr = newReturnError(contract.site, ret, s)
			}
			if rerr := policy.report(contract.site, verr); rerr != nil {
				return raise(ft, rerr)
			}
		}
		return out
	}
	return &Func{typ: ft, call: call, contract: contract, policy: policy}, nil
}

func wrapTyped(f *Func, names []string, pol *Policy) (*Func, error) {
	ft := f.typ
	nIn := ft.NumIn()
	nOut := ft.NumOut()
	nVals := nOut
	if nOut > 0 && ft.Out(nOut-1) == errType {
		nVals--
	}
	if nIn == 0 && nVals == 0 {
		return nil, &AnnotationMissingError{Name: f.contract.site.Name}
	}
	if nIn == 0 && len(names) > 0 {
		return nil, sigErrf("%d parameter names given, function has no parameters", len(names))
	}
	w := f
	if nIn > 0 {
		if len(names) == 0 {
			names = make([]string, nIn)
			for i := range names {
				names[i] = fmt.Sprintf("arg%d", i)
			}
		}
		if len(names) != nIn {
			return nil, sigErrf("%d parameter names given, function has %d parameters", len(names), nIn)
		}
		schemas := make(map[string]Schema, nIn)
		for i, name := range names {
			schemas[name] = Type(ft.In(i))
		}
		var err error
		w, err = wrapParams(w, NewSignature(names...), schemas, pol)
		if err != nil {
			return nil, err
		}
	}
	var rs Schema
	switch nVals {
	case 0:
		rs = Nil()
	case 1:
		rs = Type(ft.Out(0))
	default:
		elems := make([]Schema, nVals)
		for i := range elems {
			elems[i] = Type(ft.Out(i))
		}
		rs = Tuple(elems...)
	}
	return wrapReturns(w, rs, pol)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
