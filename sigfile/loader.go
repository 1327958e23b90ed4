// Package sigfile loads named schemas and function contracts from YAML
// documents, so contracts can be declared next to configuration instead of
// in code:
//
//	schemas:
//	  userID: string
//	  user: "{string:any}"
//	contracts:
//	  SaveUser:
//	    names: [id, u]
//	    params: {id: userID, u: user}
//	    return: bool
//
// Schema values are sigexpr expressions; identifiers resolve against the
// schemas section (across all documents of a multi-document stream) before
// falling back to builtin names and Named matching.
package sigfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	gosig "github.com/reoring/gosig"
	"github.com/reoring/gosig/sigexpr"
)

type document struct {
	Schemas   map[string]string      `yaml:"schemas"`
	Contracts map[string]contractDoc `yaml:"contracts"`
}

type contractDoc struct {
	Names  []string          `yaml:"names"`
	Params map[string]string `yaml:"params"`
	Return string            `yaml:"return"`
	Kwargs bool              `yaml:"kwargs"`
	Extras bool              `yaml:"extras"`
}

// ContractSpec is a loaded, validated contract ready to attach to a
// function.
type ContractSpec struct {
	Name   string
	Sig    gosig.Signature
	Params map[string]gosig.Schema
	Return gosig.Schema // nil when the contract declares no return check
}

// File is a loaded set of named schemas and contracts.
type File struct {
	schemas   map[string]gosig.Schema
	contracts map[string]*ContractSpec
}

// Load parses a (possibly multi-document) YAML stream into a File. Every
// schema expression is parsed and validity-checked here, so a malformed
// contract file fails at load time, before any function is wrapped.
func Load(data []byte) (*File, error) {
	f := &File{
		schemas:   map[string]gosig.Schema{},
		contracts: map[string]*ContractSpec{},
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var exprs []namedExpr
	var contracts []namedContract
	for {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("sigfile: %w", err)
		}
		for name, expr := range doc.Schemas {
			exprs = append(exprs, namedExpr{name: name, expr: expr})
		}
		for name, cd := range doc.Contracts {
			contracts = append(contracts, namedContract{name: name, doc: cd})
		}
	}
	if err := f.resolveSchemas(exprs); err != nil {
		return nil, err
	}
	sort.Slice(contracts, func(i, j int) bool { return contracts[i].name < contracts[j].name })
	for _, nc := range contracts {
		spec, err := f.buildContract(nc.name, nc.doc)
		if err != nil {
			return nil, err
		}
		f.contracts[nc.name] = spec
	}
	return f, nil
}

type namedExpr struct{ name, expr string }

type namedContract struct {
	name string
	doc  contractDoc
}

// resolveSchemas parses the schemas section. References between entries are
// resolved by reparsing in passes until the set is stable, so declaration
// order does not matter (references must be acyclic; a cyclic reference
// degrades to a Named schema).
func (f *File) resolveSchemas(exprs []namedExpr) error {
	sort.Slice(exprs, func(i, j int) bool { return exprs[i].name < exprs[j].name })
	for i := range exprs {
		if _, dup := f.schemas[exprs[i].name]; dup {
			return fmt.Errorf("sigfile: duplicate schema %q", exprs[i].name)
		}
		f.schemas[exprs[i].name] = nil
	}
	resolve := func(name string) (gosig.Schema, bool) {
		s, ok := f.schemas[name]
		if !ok || s == nil {
			return nil, false
		}
		return s, true
	}
	passes := len(exprs)
	if passes == 0 {
		return nil
	}
	for pass := 0; pass < passes; pass++ {
		for _, ne := range exprs {
			s, err := sigexpr.ParseWith(ne.expr, resolve)
			if err != nil {
				return fmt.Errorf("sigfile: schema %q: %w", ne.name, err)
			}
			f.schemas[ne.name] = s
		}
	}
	return nil
}

func (f *File) buildContract(name string, cd contractDoc) (*ContractSpec, error) {
	if len(cd.Params) > 0 && len(cd.Names) == 0 {
		return nil, fmt.Errorf("sigfile: contract %q declares params but no names (YAML maps are unordered)", name)
	}
	spec := &ContractSpec{Name: name}
	sig := gosig.NewSignature(cd.Names...)
	if cd.Extras {
		sig = sig.WithExtras()
	} else if cd.Kwargs {
		sig = sig.WithKwargs()
	}
	spec.Sig = sig
	if len(cd.Params) > 0 {
		spec.Params = make(map[string]gosig.Schema, len(cd.Params))
		for pname, expr := range cd.Params {
			s, err := sigexpr.ParseWith(expr, f.lookup)
			if err != nil {
				return nil, fmt.Errorf("sigfile: contract %q param %q: %w", name, pname, err)
			}
			spec.Params[pname] = s
		}
	}
	if cd.Return != "" {
		s, err := sigexpr.ParseWith(cd.Return, f.lookup)
		if err != nil {
			return nil, fmt.Errorf("sigfile: contract %q return: %w", name, err)
		}
		spec.Return = s
	}
	if spec.Params == nil && spec.Return == nil {
		return nil, fmt.Errorf("sigfile: contract %q declares neither params nor return", name)
	}
	return spec, nil
}

func (f *File) lookup(name string) (gosig.Schema, bool) {
	s, ok := f.schemas[name]
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// Schema returns the named schema.
func (f *File) Schema(name string) (gosig.Schema, bool) { return f.lookup(name) }

// SchemaNames returns the defined schema names, sorted.
func (f *File) SchemaNames() []string {
	names := make([]string, 0, len(f.schemas))
	for n := range f.schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Contract returns the named contract spec.
func (f *File) Contract(name string) (*ContractSpec, bool) {
	c, ok := f.contracts[name]
	return c, ok
}

// ContractNames returns the defined contract names, sorted.
func (f *File) ContractNames() []string {
	names := make([]string, 0, len(f.contracts))
	for n := range f.contracts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Instruments returns the instruments the spec expands to, in the only
// legal application order: parameters first, return check outside.
func (c *ContractSpec) Instruments() []gosig.Instrument {
	var ins []gosig.Instrument
	if c.Params != nil {
		ins = append(ins, gosig.Params(c.Sig, c.Params))
	}
	if c.Return != nil {
		ins = append(ins, gosig.Returns(c.Return))
	}
	return ins
}

// Wrap applies the contract to fn.
func (c *ContractSpec) Wrap(fn any) (*gosig.Func, error) {
	var w *gosig.Func
	for _, in := range c.Instruments() {
		wrapped, err := in.Wrap(fn)
		if err != nil {
			return nil, err
		}
		w = wrapped
		fn = wrapped
	}
	return w, nil
}
