package module

import (
	"testing"

	"github.com/sunholo/ailang/internal/symbol"
)

func TestGetBindingWRMissingNoAlloc(t *testing.T) {
	m := New(symbol.Intern("M"), nil, false)
	b, err := m.GetBindingWR(symbol.Intern("missing"), false)
	if err != nil || b != nil {
		t.Fatalf("missing name with alloc=false should return (nil, nil), got (%v, %v)", b, err)
	}
}

func TestGetBindingWRClaimsUnresolved(t *testing.T) {
	m := New(symbol.Intern("M"), nil, false)
	m.Export(symbol.Intern("placeholder")) // creates an unresolved export-only slot

	b, err := m.GetBindingWR(symbol.Intern("placeholder"), true)
	if err != nil {
		t.Fatalf("claiming an unresolved binding should succeed: %v", err)
	}
	if !b.IsSelfOwned() {
		t.Fatalf("claiming an unresolved binding should make it self-owned")
	}
}

func TestGetBindingForMethodDefOnType(t *testing.T) {
	from := New(symbol.Intern("From"), nil, false)
	to := New(symbol.Intern("To"), nil, false)

	owner, _ := from.GetBindingWR(symbol.Intern("T"), true)
	owner.storeValue(typeValueStub{})
	from.Export(symbol.Intern("T"))
	Using(nil, to, from)

	b, err := to.GetBindingForMethodDef(symbol.Intern("T"))
	if err != nil {
		t.Fatalf("extending a type via using should not require explicit import: %v", err)
	}
	if b != owner {
		t.Fatalf("should resolve to from's owning binding")
	}
}

func TestGetBindingForMethodDefRequiresImportForFunctions(t *testing.T) {
	from := New(symbol.Intern("From"), nil, false)
	to := New(symbol.Intern("To"), nil, false)

	owner, _ := from.GetBindingWR(symbol.Intern("f"), true)
	owner.storeValue(NewStringValue("not-a-type"))
	from.Export(symbol.Intern("f"))
	Using(nil, to, from)

	if _, err := to.GetBindingForMethodDef(symbol.Intern("f")); err == nil {
		t.Fatalf("extending a plain function via using (not import) should fail")
	}
}

// typeValueStub is a minimal Value reporting KindType, used to exercise the
// type/non-type branch of GetBindingForMethodDef without a real type system.
type typeValueStub struct{}

func (typeValueStub) Kind() ValueKind               { return KindType }
func (typeValueStub) StructurallyEqual(Value) bool { return false }
