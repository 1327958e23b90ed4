package i18n_test

import (
	"strings"
	"testing"

	"github.com/reoring/gosig/i18n"
)

func TestMessageSubstitution(t *testing.T) {
	got := i18n.T("argument_mismatch", map[string]string{
		"name":      "x",
		"value":     "5",
		"signature": "string",
	})
	want := "argument x = 5 doesn't match signature string"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUnknownCodeFallsBackToCode(t *testing.T) {
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("got %q", got)
	}
}

func TestSetLanguage(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	got := i18n.T("missing_return", nil)
	if !strings.Contains(got, "関数") {
		t.Fatalf("expected a Japanese phrase, got %q", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, data map[string]string) string {
	return strings.ToUpper(code)
}

func TestSetTranslator(t *testing.T) {
	i18n.SetTranslator(upperTranslator{})
	defer i18n.SetTranslator(nil)
	if got := i18n.T("ordering", nil); got != "ORDERING" {
		t.Fatalf("got %q", got)
	}
	i18n.SetTranslator(nil)
	if got := i18n.T("ordering", nil); got == "ORDERING" {
		t.Fatalf("nil translator should restore the builtin")
	}
}
