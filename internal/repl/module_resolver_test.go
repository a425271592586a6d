package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/eval"
	"github.com/sunholo/ailang/internal/link"
	"github.com/sunholo/ailang/internal/module"
	"github.com/sunholo/ailang/internal/symbol"
)

func TestUsingModuleFallsBackToEmptyModuleWithoutSource(t *testing.T) {
	r := New()
	var out bytes.Buffer

	r.usingModule("NoSuchModule", &out)

	if !strings.Contains(out.String(), "no source found") {
		t.Fatalf("expected the no-source fallback message, got %q", out.String())
	}
	if _, ok := r.usingModules["NoSuchModule"]; !ok {
		t.Fatalf("expected the placeholder module to be cached")
	}
}

func TestUsingModuleIsIdempotent(t *testing.T) {
	r := New()
	var out bytes.Buffer

	r.usingModule("Foo", &out)
	first := r.usingModules["Foo"]
	r.usingModule("Foo", &out)
	second := r.usingModules["Foo"]

	if first != second {
		t.Fatalf("repeated :using of the same name should reuse the same module")
	}
}

// TestRuntimeModulesResolveValueSeesREPLBindings exercises the same path
// ProcessExpression's Step 8 relies on: a binding mirrored into r.rt.Main via
// module.CheckedAssignment is readable back through r.runtimeModules, the
// registry the evaluator's GlobalResolver chain (see module_resolver.go)
// consults for every VarGlobal.
func TestRuntimeModulesResolveValueSeesREPLBindings(t *testing.T) {
	r := New()

	name := symbol.Intern("answer")
	b, err := r.rt.Main.GetBindingWR(name, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := module.CheckedAssignment(r.rt.Main, name, b, link.WrapEvalValue(&eval.IntValue{Value: 42})); err != nil {
		t.Fatalf("unexpected assignment error: %v", err)
	}

	got, err := r.runtimeModules.ResolveValue(core.GlobalRef{Module: "Main", Name: "answer"})
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	iv, ok := got.(*eval.IntValue)
	if !ok || iv.Value != 42 {
		t.Fatalf("expected IntValue{42}, got %#v", got)
	}
}

func TestCompositeResolverPrefersBuiltins(t *testing.T) {
	r := New()

	val, err := r.evaluator.Eval(&core.VarGlobal{Ref: core.GlobalRef{Module: "$builtin", Name: "_io_print"}})
	if err != nil {
		t.Fatalf("unexpected error resolving a known builtin through the composite resolver: %v", err)
	}
	if val == nil {
		t.Fatalf("expected a non-nil builtin value")
	}
}
