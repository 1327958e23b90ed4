package gosig

import (
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/gosig/i18n"
)

// Violation codes (exported consts for IDE completion and i18n lookup).
const (
	CodeArgumentMismatch  = "argument_mismatch"
	CodeKeywordMismatch   = "keyword_mismatch"
	CodeUnexpectedKeyword = "unexpected_keyword"
	CodeReturnMismatch    = "return_mismatch"
	CodeMissingReturn     = "missing_return"
	CodeVoidReturn        = "void_return"
	CodeInvalidSignature  = "invalid_signature"
	CodeSignatureMismatch = "signature_mismatch"
	CodeOrdering          = "ordering"
	CodeAnnotationMissing = "annotation_missing"
)

// SchemaDefinitionError reports a malformed schema, or a parameter schema
// map that does not line up with the function it is being attached to. It is
// raised at wrap time, before any call, and never goes through the reporting
// policy: it marks a mistake in the contract itself.
type SchemaDefinitionError struct {
	Code    string
	Message string
}

func (e *SchemaDefinitionError) Error() string { return e.Message }

// OrderingError reports that a parameter check was applied on top of a
// return check. The return check must sit outside the parameter check, so
// Returns wraps the already-params-wrapped function, never the reverse.
type OrderingError struct {
	Site DefSite
}

func (e *OrderingError) Error() string {
	return e.Site.Name + ": " + i18n.T(CodeOrdering, nil)
}

// AnnotationMissingError reports Typed applied to a function with neither
// parameters nor results to derive a contract from.
type AnnotationMissingError struct {
	Name string
}

func (e *AnnotationMissingError) Error() string {
	return e.Name + ": " + i18n.T(CodeAnnotationMissing, nil)
}

// ViolationError is the common shape of every call-time contract violation.
// The concrete kinds below embed it so errors.As works against either the
// specific kind or this shared form.
type ViolationError struct {
	Code    string
	Site    DefSite
	Message string
}

func (e *ViolationError) Error() string { return e.Message }

// ArgumentTypeError reports a call-time argument that fails its schema.
type ArgumentTypeError struct{ ViolationError }

// UnexpectedKeywordError reports a keyword argument with no schema on a
// function that does not accept arbitrary extras.
type UnexpectedKeywordError struct{ ViolationError }

// ReturnTypeError reports a return value that fails its schema, including
// the two void sub-cases (missing value, unexpected value).
type ReturnTypeError struct{ ViolationError }

// AsViolation extracts the call-time violation from err, if any.
func AsViolation(err error) (*ViolationError, bool) {
	var arg *ArgumentTypeError
	if errors.As(err, &arg) {
		return &arg.ViolationError, true
	}
	var kw *UnexpectedKeywordError
	if errors.As(err, &kw) {
		return &kw.ViolationError, true
	}
	var ret *ReturnTypeError
	if errors.As(err, &ret) {
		return &ret.ViolationError, true
	}
	return nil, false
}

// AsDefinition extracts a wrap-time definition error from err, if any.
func AsDefinition(err error) (*SchemaDefinitionError, bool) {
	var def *SchemaDefinitionError
	if errors.As(err, &def) {
		return def, true
	}
	return nil, false
}

func defErrf(format string, args ...any) *SchemaDefinitionError {
	return &SchemaDefinitionError{
		Code:    CodeInvalidSignature,
		Message: fmt.Sprintf(format, args...),
	}
}

func sigErrf(format string, args ...any) *SchemaDefinitionError {
	return &SchemaDefinitionError{
		Code:    CodeSignatureMismatch,
		Message: fmt.Sprintf(format, args...),
	}
}

func newArgumentError(site DefSite, name string, v any, s Schema) *ArgumentTypeError {
	return &ArgumentTypeError{ViolationError{
		Code: CodeArgumentMismatch,
		Site: site,
		Message: i18n.T(CodeArgumentMismatch, map[string]string{
			"name":      name,
			"value":     renderValue(v),
			"signature": Describe(s),
		}),
	}}
}

func newKeywordError(site DefSite, name string, v any, s Schema) *ArgumentTypeError {
	return &ArgumentTypeError{ViolationError{
		Code: CodeKeywordMismatch,
		Site: site,
		Message: i18n.T(CodeKeywordMismatch, map[string]string{
			"name":      name,
			"value":     renderValue(v),
			"signature": Describe(s),
		}),
	}}
}

func newUnexpectedKeywordError(site DefSite, name string) *UnexpectedKeywordError {
	return &UnexpectedKeywordError{ViolationError{
		Code:    CodeUnexpectedKeyword,
		Site:    site,
		Message: i18n.T(CodeUnexpectedKeyword, map[string]string{"name": name}),
	}}
}

func newReturnError(site DefSite, v any, s Schema) *ReturnTypeError {
	return &ReturnTypeError{ViolationError{
		Code: CodeReturnMismatch,
		Site: site,
		Message: i18n.T(CodeReturnMismatch, map[string]string{
			"value":     renderValue(v),
			"signature": Describe(s),
		}),
	}}
}

func newMissingReturnError(site DefSite) *ReturnTypeError {
	return &ReturnTypeError{ViolationError{
		Code:    CodeMissingReturn,
		Site:    site,
		Message: i18n.T(CodeMissingReturn, nil),
	}}
}

func newVoidReturnError(site DefSite) *ReturnTypeError {
	return &ReturnTypeError{ViolationError{
		Code:    CodeVoidReturn,
		Site:    site,
		Message: i18n.T(CodeVoidReturn, nil),
	}}
}

// renderValue produces the diagnostic rendering of an offending value. JSON
// keeps strings and numbers unambiguous; values the codec cannot express
// fall back to Go syntax.
func renderValue(v any) string {
	b, err := gojson.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
