package module

import (
	"testing"

	"github.com/sunholo/ailang/internal/symbol"
)

func TestNewRootModule(t *testing.T) {
	m := New(symbol.Intern("Root"), nil, false)
	if m.Parent() != m {
		t.Fatalf("root module should be its own parent")
	}
	if m.Name().Name() != "Root" {
		t.Fatalf("got name %q", m.Name().Name())
	}
}

func TestNewChildModule(t *testing.T) {
	parent := New(symbol.Intern("Parent"), nil, false)
	child := New(symbol.Intern("Child"), parent, false)
	if child.Parent() != parent {
		t.Fatalf("child's parent not wired")
	}
}

func TestNewAlwaysExportsOwnName(t *testing.T) {
	m := New(symbol.Intern("Foo"), nil, false)
	if !ModuleExportsP(m, symbol.Intern("Foo")) {
		t.Fatalf("New should export the module's own name")
	}
}

func TestNewDefaultNamesSelfReference(t *testing.T) {
	m := New(symbol.Intern("Foo"), nil, true)
	b := m.GetModuleBinding(symbol.Intern("Foo"))
	if b == nil || !b.IsSelfOwned() || !b.Constp() {
		t.Fatalf("default_names should install a const self-owned binding")
	}
	if SelfModule(b.Value()) != m {
		t.Fatalf("self-reference value should unwrap to m")
	}
}

func TestIsSubmodule(t *testing.T) {
	root := New(symbol.Intern("Root"), nil, false)
	child := New(symbol.Intern("Child"), root, false)
	grandchild := New(symbol.Intern("Grand"), child, false)

	if !grandchild.IsSubmodule(root) {
		t.Fatalf("grandchild should be a submodule of root")
	}
	if !grandchild.IsSubmodule(grandchild) {
		t.Fatalf("a module is its own submodule")
	}
	other := New(symbol.Intern("Other"), nil, false)
	if grandchild.IsSubmodule(other) {
		t.Fatalf("unrelated module should not be a submodule")
	}
}

func TestKnobInheritance(t *testing.T) {
	core := New(symbol.Intern("Core"), nil, false)
	base := New(symbol.Intern("Base"), core, false)
	base.MarkBaseModule()
	main := New(symbol.Intern("Main"), core, false)

	core.SetOptLevel(Knob(2))
	if got := main.OptLevel(); got != 2 {
		t.Fatalf("main should inherit Core's optlevel, got %d", got)
	}

	// Base stops inheritance even if nothing of its own is set.
	if got := base.OptLevel(); got != inheritKnob {
		t.Fatalf("base module should not inherit past itself, got %d", got)
	}

	main.SetOptLevel(Knob(5))
	if got := main.OptLevel(); got != 5 {
		t.Fatalf("main's own knob should win, got %d", got)
	}
}

func TestBuildIDUnique(t *testing.T) {
	a := New(symbol.Intern("A"), nil, false)
	b := New(symbol.Intern("B"), nil, false)
	if a.BuildID().Lo == 0 {
		t.Fatalf("build id lo should be non-zero")
	}
	if a.BuildID().Hi != NotSerialized {
		t.Fatalf("fresh module's build id hi should be the not-serialized sentinel")
	}
	_ = b
}
