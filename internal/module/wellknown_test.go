package module

import (
	"testing"

	"github.com/sunholo/ailang/internal/symbol"
)

func TestNewRuntimeWiring(t *testing.T) {
	rt := NewRuntime(&MemorySink{}, DefaultOptions())

	if rt.Base.Parent() != rt.Core {
		t.Fatalf("Base's parent should be Core")
	}
	if rt.Main.Parent() != rt.Core {
		t.Fatalf("Main's parent should be Core")
	}
	if !rt.Main.IsTopMod() || !rt.Base.IsTopMod() || !rt.Core.IsTopMod() {
		t.Fatalf("all three well-known modules should be top-level")
	}

	foundBase := false
	for _, u := range rt.Main.Usings() {
		if u == rt.Base {
			foundBase = true
		}
	}
	if !foundBase {
		t.Fatalf("Main should be using Base")
	}
}

func TestNewRuntimeBaseStopsKnobInheritance(t *testing.T) {
	rt := NewRuntime(&MemorySink{}, DefaultOptions())
	rt.Core.SetOptLevel(Knob(3))
	if got := rt.Base.OptLevel(); got != inheritKnob {
		t.Fatalf("Base should not inherit past itself, got %d", got)
	}
	if got := rt.Main.OptLevel(); got != 3 {
		t.Fatalf("Main (parented at Core) should inherit Core's optlevel, got %d", got)
	}
}

func TestInitRestoredModulesImmediate(t *testing.T) {
	rt := NewRuntime(&MemorySink{}, DefaultOptions())
	m1 := New(symbol.Intern("R1"), rt.Core, false)
	m2 := New(symbol.Intern("R2"), rt.Core, false)

	var ran []string
	err := rt.InitRestoredModules([]*Module{m1, m2}, []*Module{m1, m2}, func(m *Module) error {
		ran = append(ran, m.Name().Name())
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ran) != 2 || ran[0] != "R1" || ran[1] != "R2" {
		t.Fatalf("expected both initializers to run in order, got %v", ran)
	}
}

func TestInitRestoredModulesDeferredWhenIncremental(t *testing.T) {
	rt := NewRuntime(&MemorySink{}, RuntimeOptions{Incremental: true})
	m1 := New(symbol.Intern("R1"), rt.Core, false)

	ran := false
	err := rt.InitRestoredModules([]*Module{m1}, []*Module{m1}, func(m *Module) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Fatalf("initializer should be deferred, not run immediately, under Incremental")
	}
}
