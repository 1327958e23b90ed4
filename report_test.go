package gosig_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	gosig "github.com/reoring/gosig"
)

func observedPolicy(level zapcore.Level) (*gosig.Policy, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := gosig.NewPolicy()
	p.SetLogger(zap.New(core), level)
	return p, logs
}

func TestPolicyLogsViolations(t *testing.T) {
	p, logs := observedPolicy(zapcore.WarnLevel)
	f := func(v any) (string, error) { return "ok", nil }
	w := gosig.Params(gosig.NewSignature("v"), map[string]gosig.Schema{
		"v": gosig.TypeOf[int](),
	}).WithPolicy(p).MustWrap(f)

	w.Call(1)
	if logs.Len() != 0 {
		t.Fatalf("a valid call must not log, got %d entries", logs.Len())
	}

	w.Call("bad")
	if logs.Len() != 1 {
		t.Fatalf("expected one log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Level != zapcore.WarnLevel {
		t.Fatalf("level = %v, want warn", entry.Level)
	}
	if !strings.Contains(entry.Message, "argument v") {
		t.Fatalf("unexpected log message: %q", entry.Message)
	}
	fields := entry.ContextMap()
	if fields["file"] == "" || fields["func"] == "" {
		t.Fatalf("definition-site fields missing: %v", fields)
	}
}

func TestPolicyLogOnlyMode(t *testing.T) {
	p, logs := observedPolicy(zapcore.InfoLevel)
	p.SetRaising(false)
	ran := false
	f := func(v any) { ran = true }
	w := gosig.Params(gosig.NewSignature("v"), map[string]gosig.Schema{
		"v": gosig.TypeOf[int](),
	}).WithPolicy(p).MustWrap(f)

	w.Call("bad")
	if !ran {
		t.Fatalf("log-only policy should let the call proceed")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one log entry, got %d", logs.Len())
	}
}

func TestPolicySilentMode(t *testing.T) {
	p := gosig.NewPolicy()
	p.SetRaising(false)
	got := 0
	f := func(v any) int { got++; return got }
	w := gosig.Params(gosig.NewSignature("v"), map[string]gosig.Schema{
		"v": gosig.TypeOf[int](),
	}).WithPolicy(p).MustWrap(f)
	out := w.Call("bad")
	if out[0] != 1 {
		t.Fatalf("silent policy should behave as uninstrumented, got %v", out[0])
	}
}

func TestPolicyLogLevelChange(t *testing.T) {
	p, logs := observedPolicy(zapcore.ErrorLevel)
	p.SetRaising(false)
	p.SetLogLevel(zapcore.DebugLevel)
	f := func(v any) {}
	w := gosig.Params(gosig.NewSignature("v"), map[string]gosig.Schema{
		"v": gosig.TypeOf[int](),
	}).WithPolicy(p).MustWrap(f)
	w.Call("bad")
	if logs.Len() != 1 || logs.All()[0].Level != zapcore.DebugLevel {
		t.Fatalf("expected one debug entry, got %v", logs.All())
	}
}

func TestDefaultPolicyRaisesByDefault(t *testing.T) {
	p := gosig.NewPolicy()
	f := func(v any) (int, error) { return 1, nil }
	w := gosig.Params(gosig.NewSignature("v"), map[string]gosig.Schema{
		"v": gosig.TypeOf[int](),
	}).WithPolicy(p).MustWrap(f)
	out := w.Call("bad")
	if out[1] == nil {
		t.Fatalf("a fresh policy should raise violations")
	}
}
