// Package sigexpr parses the compact textual form of a type signature into
// a gosig.Schema. The grammar mirrors gosig.Describe, so every rendering a
// diagnostic prints parses back to an equivalent schema:
//
//	int  string  any  nil  iter  User
//	[int]  (int, string)  {string:int}  {int}
//	U(int, string)  Nullable(string)  Enum[red, "green", 2]
//
// Bare identifiers that are not builtin type names become Named schemas,
// unless a Resolver supplies a schema for them first.
package sigexpr

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"

	gosig "github.com/reoring/gosig"
)

var (
	sigLexer = lexer.Unquote(
		lexer.Must(lexer.Regexp(`(\s+)` +
			`|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_]*)` +
			`|(?P<Number>[-+]?\d*\.?\d+([eE][-+]?\d+)?)` +
			`|(?P<String>'[^']*'|"[^"]*")` +
			`|(?P<Punct>[\[\]{}(),:])`,
		)),
		"String",
	)
	sigParser = participle.MustBuild(&sigExpr{}, sigLexer)
)

type sigExpr struct {
	Union    *unionNode    `  @@`
	Nullable *nullableNode `| @@`
	Enum     *enumNode     `| @@`
	List     *listNode     `| @@`
	Braces   *bracesNode   `| @@`
	Tuple    *tupleNode    `| @@`
	Ident    *string       `| @Ident`
}

type unionNode struct {
	Alts []*sigExpr `"U" "(" @@ { "," @@ } ")"`
}

type nullableNode struct {
	Inner *sigExpr `"Nullable" "(" @@ ")"`
}

type enumNode struct {
	Values []*literalNode `"Enum" "[" @@ { "," @@ } "]"`
}

type literalNode struct {
	Str   *string `  @String`
	Num   *string `| @Number`
	True  bool    `| @"true"`
	False bool    `| @"false"`
	Ident *string `| @Ident`
}

type listNode struct {
	Elem *sigExpr `"[" @@ "]"`
}

// bracesNode covers both the mapping form {key:value} and the set form
// {elem}.
type bracesNode struct {
	First *sigExpr `"{" @@`
	Value *sigExpr `[ ":" @@ ] "}"`
}

type tupleNode struct {
	Elems []*sigExpr `"(" @@ { "," @@ } ")"`
}

// Resolver maps identifiers to predefined schemas before the builtin names
// and the Named fallback are consulted.
type Resolver func(name string) (gosig.Schema, bool)

// Parse parses src into a validated schema.
func Parse(src string) (gosig.Schema, error) { return ParseWith(src, nil) }

// ParseWith parses src, resolving identifiers through resolve first.
func ParseWith(src string, resolve Resolver) (gosig.Schema, error) {
	ast := &sigExpr{}
	if err := sigParser.ParseString(src, ast); err != nil {
		return nil, &gosig.SchemaDefinitionError{
			Code:    gosig.CodeInvalidSignature,
			Message: "sigexpr: " + err.Error(),
		}
	}
	s, err := buildSchema(ast, resolve)
	if err != nil {
		return nil, err
	}
	if err := gosig.CheckSchema(s); err != nil {
		return nil, err
	}
	return s, nil
}

func buildSchema(e *sigExpr, resolve Resolver) (gosig.Schema, error) {
	switch {
	case e.Union != nil:
		alts := make([]gosig.Schema, len(e.Union.Alts))
		for i, a := range e.Union.Alts {
			s, err := buildSchema(a, resolve)
			if err != nil {
				return nil, err
			}
			alts[i] = s
		}
		return gosig.Union(alts...), nil
	case e.Nullable != nil:
		inner, err := buildSchema(e.Nullable.Inner, resolve)
		if err != nil {
			return nil, err
		}
		return gosig.Nullable(inner), nil
	case e.Enum != nil:
		values := make([]any, len(e.Enum.Values))
		for i, lit := range e.Enum.Values {
			v, err := literalValue(lit)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return gosig.Enum(values...), nil
	case e.List != nil:
		elem, err := buildSchema(e.List.Elem, resolve)
		if err != nil {
			return nil, err
		}
		return gosig.ListOf(elem), nil
	case e.Braces != nil:
		first, err := buildSchema(e.Braces.First, resolve)
		if err != nil {
			return nil, err
		}
		if e.Braces.Value == nil {
			return gosig.SetOf(first), nil
		}
		value, err := buildSchema(e.Braces.Value, resolve)
		if err != nil {
			return nil, err
		}
		return gosig.MapOf(first, value), nil
	case e.Tuple != nil:
		elems := make([]gosig.Schema, len(e.Tuple.Elems))
		for i, t := range e.Tuple.Elems {
			s, err := buildSchema(t, resolve)
			if err != nil {
				return nil, err
			}
			elems[i] = s
		}
		return gosig.Tuple(elems...), nil
	case e.Ident != nil:
		return atomSchema(*e.Ident, resolve), nil
	}
	return nil, &gosig.SchemaDefinitionError{
		Code:    gosig.CodeInvalidSignature,
		Message: "sigexpr: empty signature expression",
	}
}

func literalValue(lit *literalNode) (any, error) {
	switch {
	case lit.Str != nil:
		return *lit.Str, nil
	case lit.Num != nil:
		raw := *lit.Num
		if !strings.ContainsAny(raw, ".eE") {
			n, err := strconv.Atoi(raw)
			if err == nil {
				return n, nil
			}
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &gosig.SchemaDefinitionError{
				Code:    gosig.CodeInvalidSignature,
				Message: "sigexpr: bad numeric literal " + raw,
			}
		}
		return f, nil
	case lit.True:
		return true, nil
	case lit.False:
		return false, nil
	case lit.Ident != nil:
		return *lit.Ident, nil
	}
	return nil, &gosig.SchemaDefinitionError{
		Code:    gosig.CodeInvalidSignature,
		Message: "sigexpr: empty enum literal",
	}
}

func atomSchema(name string, resolve Resolver) gosig.Schema {
	if resolve != nil {
		if s, ok := resolve(name); ok {
			return s
		}
	}
	switch name {
	case "any", "object":
		return gosig.Any()
	case "nil", "none":
		return gosig.Nil()
	case "iter":
		return gosig.Iter()
	case "bool":
		return gosig.TypeOf[bool]()
	case "str", "string":
		return gosig.TypeOf[string]()
	case "bytes":
		return gosig.TypeOf[[]byte]()
	case "int":
		return gosig.TypeOf[int]()
	case "int8":
		return gosig.TypeOf[int8]()
	case "int16":
		return gosig.TypeOf[int16]()
	case "int32":
		return gosig.TypeOf[int32]()
	case "int64":
		return gosig.TypeOf[int64]()
	case "uint":
		return gosig.TypeOf[uint]()
	case "uint8":
		return gosig.TypeOf[uint8]()
	case "uint16":
		return gosig.TypeOf[uint16]()
	case "uint32":
		return gosig.TypeOf[uint32]()
	case "uint64":
		return gosig.TypeOf[uint64]()
	case "float", "float64":
		return gosig.TypeOf[float64]()
	case "float32":
		return gosig.TypeOf[float32]()
	default:
		return gosig.Named(name)
	}
}
