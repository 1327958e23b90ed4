package gosig

import "reflect"

// receiverNames are the conventional receiver-like parameter names that
// default to Any when given no explicit schema.
var receiverNames = map[string]bool{
	"self": true,
	"this": true,
}

// Signature declares what gosig cannot discover by reflection: the names of
// a function's positional parameters, in declaration order, and how the
// function treats keyword arguments. Go has no keyword arguments, so a
// trailing map[string]any parameter is the keyword channel when kwargs is
// declared.
type Signature struct {
	names  []string
	kwargs bool
	extras bool
}

// NewSignature declares the positional parameter names in order.
func NewSignature(names ...string) Signature {
	cp := make([]string, len(names))
	copy(cp, names)
	return Signature{names: cp}
}

// WithKwargs marks the function as taking a trailing map[string]any keyword
// parameter. Keyword entries are checked by name against the parameter
// schemas; unrecognized names are an error.
func (s Signature) WithKwargs() Signature {
	s.kwargs = true
	return s
}

// WithExtras marks the keyword parameter as accepting arbitrary extra names:
// unrecognized keyword entries pass without any schema check. Implies
// WithKwargs.
func (s Signature) WithExtras() Signature {
	s.kwargs = true
	s.extras = true
	return s
}

// Names returns the declared positional parameter names.
func (s Signature) Names() []string {
	cp := make([]string, len(s.names))
	copy(cp, s.names)
	return cp
}

// Kwargs reports whether the function takes a trailing keyword parameter.
func (s Signature) Kwargs() bool { return s.kwargs }

// Extras reports whether unrecognized keyword names are accepted.
func (s Signature) Extras() bool { return s.extras }

var kwargsType = reflect.TypeOf(map[string]any(nil))

// bind reconciles the signature and the schema map against the actual
// function type. It returns the complete name→schema map (with the receiver
// default applied) or a definition error. Every schema is validity-checked
// here, at wrap time.
func (s Signature) bind(ft reflect.Type, schemas map[string]Schema) (map[string]Schema, error) {
	if s.kwargs && ft.IsVariadic() {
		return nil, sigErrf("a variadic function cannot also declare a keyword parameter")
	}
	npos := ft.NumIn()
	if s.kwargs {
		npos--
		if npos < 0 || ft.In(ft.NumIn()-1) != kwargsType {
			return nil, sigErrf("kwargs declared but the last parameter is not map[string]any")
		}
	}
	if len(s.names) != npos {
		return nil, sigErrf("signature declares %d parameter names, function has %d positional parameters", len(s.names), npos)
	}
	seen := make(map[string]bool, len(s.names))
	bound := make(map[string]Schema, len(s.names))
	for name, sch := range schemas {
		bound[name] = sch
	}
	for _, name := range s.names {
		if seen[name] {
			return nil, sigErrf("duplicate parameter name %q", name)
		}
		seen[name] = true
		if _, ok := bound[name]; !ok {
			if !receiverNames[name] {
				return nil, sigErrf("annotation doesn't match function signature: no schema for parameter %q", name)
			}
			bound[name] = Any()
		}
	}
	for name := range schemas {
		if !seen[name] && !s.kwargs {
			// with kwargs declared, extra schema names are keyword-only
			return nil, sigErrf("annotation doesn't match function signature: unknown parameter %q", name)
		}
	}
	for name, sch := range bound {
		if err := CheckSchema(sch); err != nil {
			return nil, defErrf("parameter %q: %v", name, err)
		}
	}
	return bound, nil
}
