package module

import "github.com/sunholo/ailang/internal/symbol"

// GetModuleBinding is a locked local lookup: it returns the binding record
// stored directly in m, without resolving through usings (§4.2).
func (m *Module) GetModuleBinding(name symbol.Symbol) *Binding {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.bindings[name]
}

// getOrCreateBindingLocked returns the binding for name, creating an
// unresolved one if absent. Caller holds m.lock (write).
func (m *Module) getOrCreateBindingLocked(name symbol.Symbol) *Binding {
	if b, ok := m.bindings[name]; ok {
		return b
	}
	b := &Binding{name: name, module: m, ownerState: ownerUnresolved}
	m.bindings[name] = b
	return b
}

// GetBindingWR returns the "binding for write" (§4.2's get_binding_wr).
//
//   - If found and self-owned: return it.
//   - If found and unresolved: claim it (owner := self) and return it.
//   - If found and owned by another binding: if alloc, fail with
//     ErrAssignToImported; otherwise fall through as if not found.
//   - If missing and alloc: create a fresh self-owned binding.
//   - If missing and not alloc: return nil, nil.
func (m *Module) GetBindingWR(name symbol.Symbol, alloc bool) (*Binding, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if b, ok := m.bindings[name]; ok {
		switch b.ownerState {
		case ownerSelf:
			return b, nil
		case ownerUnresolved:
			b.setOwnerSelf()
			return b, nil
		case ownerAlias:
			if alloc {
				return nil, errAssignToImported(m, name)
			}
			// fall through: treat as not-found for a read-only request
		}
	}

	if alloc {
		b := newBinding(m, name)
		m.bindings[name] = b
		return b, nil
	}
	return nil, nil
}

// GetBindingForMethodDef is like GetBindingWR but the aliased-binding error
// condition differs (§4.2): extending a type via constructor extension does
// not require an explicit import, but extending a plain function does.
func (m *Module) GetBindingForMethodDef(name symbol.Symbol) (*Binding, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if b, ok := m.bindings[name]; ok {
		switch b.ownerState {
		case ownerSelf:
			return b, nil
		case ownerUnresolved:
			b.setOwnerSelf()
			return b, nil
		case ownerAlias:
			owner := b.alias
			if !b.imported && owner != nil {
				v := owner.Value()
				if v == nil || v.Kind() != KindType {
					return nil, errMethodNotExplicitlyImported(m, name)
				}
			}
			return owner, nil
		}
	}

	b := newBinding(m, name)
	m.bindings[name] = b
	return b, nil
}

// ClearImplicitImports drops every binding whose owner is not itself and
// which was not explicitly imported (§4.2's lifecycle rule, §4.6,
// clear_implicit_imports). Explicitly-imported and locally-defined bindings
// survive. Go's map supports true deletion, so no tombstoning is needed
// (§9's open question on this point).
func (m *Module) ClearImplicitImports() {
	m.lock.Lock()
	defer m.lock.Unlock()
	for name, b := range m.bindings {
		if b.ownerState == ownerAlias && !b.imported {
			delete(m.bindings, name)
		}
	}
}
