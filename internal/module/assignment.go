package module

import "github.com/sunholo/ailang/internal/symbol"

// CheckedAssignment implements §4.4's checked_assignment(b, mod, var, rhs).
func CheckedAssignment(m *Module, name symbol.Symbol, b *Binding, rhs Value) error {
	b.casInitType(UnsetType)
	if t := b.Type(); !t.Equal(UnsetType) {
		if !t.Accepts(rhs) {
			return errIncompatibleTypedAssignment(m, name, t)
		}
	}

	if b.Constp() {
		if b.casValue(rhs) {
			return nil // first write to a const wins
		}
		old := b.Value()
		if old != nil && old.StructurallyEqual(rhs) {
			return nil // silent no-op: same value
		}
		if old == nil || old.Kind() != rhs.Kind() || rhs.Kind() == KindType || rhs.Kind() == KindModule {
			return errInvalidConstantRedefinition(m, name)
		}
		// same kind, both plain values, structurally different: warn and
		// proceed to store (§4.4 step 2).
		return errRedefinitionWarningThenStore(m, name, b, rhs)
	}

	b.storeValue(rhs)
	return nil
}

// errRedefinitionWarningThenStore performs the "warn, then store anyway"
// branch of checked_assignment. It never actually returns an error; the name
// reflects that the caller is expected to have a sink available via the
// module-level default sink (set via SetDiagnosticSink) to emit the warning.
func errRedefinitionWarningThenStore(m *Module, name symbol.Symbol, b *Binding, rhs Value) error {
	if sink := m.diagnosticSink(); sink != nil {
		sink.Warnf("redefinition of constant %s.%s may fail", m.Name(), name)
	}
	b.storeValue(rhs)
	return nil
}

// SetConst implements §4.4's set_const(m, var, val): declares and
// initializes a constant in one step, allocating the binding if needed.
func SetConst(m *Module, name symbol.Symbol, val Value) error {
	b, err := m.GetBindingWR(name, true)
	if err != nil {
		return err
	}
	b.casInitType(UnsetType)
	if !b.casValue(val) {
		return errInvalidConstantRedefinition(m, name)
	}
	b.casSetConst()
	return nil
}

// DeclareConstant implements §4.4's declare_constant(b, mod, var): marks an
// existing self-owned, still-unset-or-already-const binding as constant.
func DeclareConstant(m *Module, name symbol.Symbol, b *Binding) error {
	if !b.IsSelfOwned() {
		return errInvalidConstantRedefinition(m, name)
	}
	if b.Value() != nil && !b.Constp() {
		return errInvalidConstantRedefinition(m, name)
	}
	b.casSetConst()
	return nil
}
