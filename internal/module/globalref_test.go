package module

import (
	"testing"

	"github.com/sunholo/ailang/internal/symbol"
)

func TestGlobalRefForCaches(t *testing.T) {
	m := New(symbol.Intern("M"), nil, false)
	b, _ := m.GetBindingWR(symbol.Intern("x"), true)

	r1 := GlobalRefFor(b)
	r2 := GlobalRefFor(b)
	if r1 != r2 {
		t.Fatalf("GlobalRefFor should cache and return the same pointer")
	}
	if r1.Module != m.Name() || r1.Name != b.Name() {
		t.Fatalf("GlobalRef fields should reflect the creating module/name")
	}
	if r1.Binding() != b {
		t.Fatalf("GlobalRef.Binding should round-trip to b")
	}
}

func TestGlobalRefModuleImmutableAfterAliasing(t *testing.T) {
	from := New(symbol.Intern("From"), nil, false)
	to := New(symbol.Intern("To"), nil, false)

	owner, _ := from.GetBindingWR(symbol.Intern("s"), true)
	ref := GlobalRefFor(owner)
	from.Export(symbol.Intern("s"))
	Using(nil, to, from)

	ResolveOwner(nil, nil, to, symbol.Intern("s"), nil)

	// The GlobalRef created against from's binding still reports From as its
	// module, even though `to` now has its own alias binding for the name.
	if ref.Module != from.Name() {
		t.Fatalf("GlobalRef.Module should remain the creating module")
	}
}
