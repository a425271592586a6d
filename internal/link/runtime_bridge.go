package link

import (
	"fmt"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/eval"
	"github.com/sunholo/ailang/internal/module"
	"github.com/sunholo/ailang/internal/symbol"
)

// evalValueAdapter lets an eval.Value stand in for module.Value, the seam
// module.Binding stores against without importing internal/eval (see
// internal/module/value.go). Structural equality falls back to the values'
// String() form, matching how the evaluator's own valuesEqual helpers treat
// most scalars and tagged values.
type evalValueAdapter struct{ v eval.Value }

func (a evalValueAdapter) Kind() module.ValueKind { return module.KindOther }

func (a evalValueAdapter) StructurallyEqual(other module.Value) bool {
	o, ok := other.(evalValueAdapter)
	if !ok {
		return false
	}
	return a.v.String() == o.v.String()
}

// WrapEvalValue lets an evaluated value be stored in a module.Binding.
func WrapEvalValue(v eval.Value) module.Value { return evalValueAdapter{v} }

// UnwrapEvalValue recovers the eval.Value behind a module.Value previously
// produced by WrapEvalValue; ok is false for values from other sources.
func UnwrapEvalValue(v module.Value) (eval.Value, bool) {
	a, ok := v.(evalValueAdapter)
	if !ok {
		return nil, false
	}
	return a.v, true
}

// RuntimeModules adapts the per-module binding graph (internal/module) into
// the Resolver's lookup path, consulted before the compiled-Core-AST
// evaluation path below. Registered modules are typically the REPL's Main
// module and any restored modules from a prior session; compiled units
// registered via RegisterCompiledModule remain the fallback for modules that
// were only ever linked, not live-bound.
type RuntimeModules struct {
	sink    module.DiagnosticSink
	opts    module.RuntimeOptions
	modules map[string]*module.Module
}

// NewRuntimeModules creates an empty runtime-module registry. opts governs
// the deprecation behavior ResolveValue enforces via module.GetGlobal,
// mirroring module.NewRuntime's (sink, opts) constructor convention.
func NewRuntimeModules(sink module.DiagnosticSink, opts module.RuntimeOptions) *RuntimeModules {
	return &RuntimeModules{sink: sink, opts: opts, modules: make(map[string]*module.Module)}
}

// Register makes m resolvable under name by the Resolver.
func (rm *RuntimeModules) Register(name string, m *module.Module) {
	rm.modules[name] = m
}

// resolve looks up name within module path, returning the live eval.Value if
// a binding is found and bound. Returns ok=false (not an error) when the
// module isn't registered here, so the caller falls through to the
// compiled-unit path.
func (rm *RuntimeModules) resolve(modulePath, name string) (val eval.Value, ok bool, err error) {
	if rm == nil {
		return nil, false, nil
	}
	m, ok := rm.modules[modulePath]
	if !ok {
		return nil, false, nil
	}
	owner := module.ResolveOwner(rm.sink, nil, m, symbol.Intern(name), nil)
	if owner == nil {
		return nil, false, nil
	}
	v := owner.Value()
	if v == nil {
		return nil, false, nil
	}
	ev, ok := UnwrapEvalValue(v)
	if !ok {
		return nil, false, nil
	}
	return ev, true, nil
}

// ResolveValue implements eval.GlobalResolver, treating rm as the terminal
// resolution authority: unlike resolve's soft fall-through (used by
// Resolver.ResolveValue, which still has a compiled-unit path to try next),
// there is nothing after rm in the REPL's resolver chain, so an unregistered
// module or an unbound name here must raise an error rather than report
// ok=false silently.
func (rm *RuntimeModules) ResolveValue(ref core.GlobalRef) (eval.Value, error) {
	if rm == nil {
		return nil, fmt.Errorf("no runtime modules registered")
	}
	m, ok := rm.modules[ref.Module]
	if !ok {
		return nil, fmt.Errorf("module %s not registered", ref.Module)
	}
	b, err := module.GetGlobal(rm.sink, rm.opts, m, symbol.Intern(ref.Name))
	if err != nil {
		return nil, err
	}
	v := b.Value()
	if v == nil {
		return nil, fmt.Errorf("global %s.%s has no value", ref.Module, ref.Name)
	}
	ev, ok := UnwrapEvalValue(v)
	if !ok {
		return nil, fmt.Errorf("global %s.%s is not an evaluator value", ref.Module, ref.Name)
	}
	return ev, nil
}
