// Package module implements the hierarchical namespace, name-resolution,
// global-storage, and visibility subsystem of the AILANG runtime: modules,
// bindings, global references, using/import/export, and checked assignment
// to mutable and constant globals.
package module

import (
	"github.com/sunholo/ailang/internal/symbol"
)

// resolveKey identifies a (module, name) pair on the cycle-detection stack
// used by ResolveOwner (§4.3).
type resolveKey struct {
	m    *Module
	name symbol.Symbol
}

// ResolveOwner is the core name-resolution algorithm (§4.3). Given a
// (module, name) pair it returns either nil (no binding found, or a cycle
// was detected) or a binding B with B.Owner() == B.
//
// If b is non-nil it is used directly as the starting binding (used when a
// caller already has a local binding in hand and wants it followed to its
// owner); otherwise the local binding is looked up in m.
func ResolveOwner(sink DiagnosticSink, b *Binding, m *Module, name symbol.Symbol, stack []resolveKey) *Binding {
	if b == nil {
		b = m.GetModuleBinding(name)
	}

	if b != nil {
		if owner := b.Owner(); owner != nil {
			return owner
		}
		// b exists but is unresolved (owner == none): fall through to usings
		// search, same as "no local binding" (§4.3 step 2).
	}

	key := resolveKey{m, name}
	for _, k := range stack {
		if k == key {
			return nil // cycle: the lookup is inside its own resolution
		}
	}
	nextStack := append(append([]resolveKey(nil), stack...), key)

	from, resolved := usingResolve(sink, m, name, nextStack)
	if resolved == nil {
		return nil
	}
	// Promote the lookup into an explicit (non-explicit, i.e. using-derived)
	// binding so future reads are stable (§4.3 step 2d).
	importInto(sink, m, from, resolved, name, name, false)
	return resolved
}

// usingResolve searches m's usings, most-recently-added first, for an
// exported binding named `name`, applying the tie-breaking rules of §4.3.1.
// It reads a snapshot of m's usings under lock but releases it before
// recursing into another module's resolution (§5: never hold two module
// locks across a recursive resolution).
func usingResolve(sink DiagnosticSink, m *Module, name symbol.Symbol, stack []resolveKey) (from *Module, best *Binding) {
	m.lock.RLock()
	candidates := make([]*Module, len(m.usings))
	copy(candidates, m.usings)
	m.lock.RUnlock()

	var bestFrom *Module
	var bestDeprecated bool

	for i := len(candidates) - 1; i >= 0; i-- {
		imp := candidates[i]
		local := imp.GetModuleBinding(name)
		if local == nil || !local.Exportp() {
			continue
		}
		resolved := ResolveOwner(sink, nil, imp, name, stack)
		if resolved == nil {
			continue // broken upstream; try the next using
		}
		deprecated := resolved.Deprecated() != NotDeprecated

		if best == nil {
			best, bestFrom, bestDeprecated = resolved, imp, deprecated
			continue
		}
		if eqBindings(best, resolved) {
			continue // silently unified
		}
		switch {
		case bestDeprecated && !deprecated:
			// non-deprecated displaces deprecated without warning
			best, bestFrom, bestDeprecated = resolved, imp, deprecated
		case !bestDeprecated && deprecated:
			// current best (non-deprecated) wins; keep it
		default:
			// both deprecated or both non-deprecated and not equivalent:
			// ambiguity
			if sink != nil {
				sink.Warnf("both %s and %s export %q; uses of it in module %s must be qualified",
					bestFrom.Name(), imp.Name(), name, m.Name())
			}
			// install a self-owned placeholder so the warning fires once
			m.lock.Lock()
			ph := m.getOrCreateBindingLocked(name)
			if ph.IsUnresolved() {
				ph.setOwnerSelf()
			}
			m.lock.Unlock()
			return nil, nil
		}
	}
	return bestFrom, best
}

// Import_ is §4.3.2's import_(to, from, b, asname, s, explicit). b is the
// already-resolved owner binding (typically ResolveOwner(nil, from, s, nil));
// asname is the name to install it under in `to`; explicit distinguishes an
// explicit import (true) from a plain using-exposed name (false).
func Import_(sink DiagnosticSink, to, from *Module, b *Binding, asname, s symbol.Symbol, explicit bool) {
	importInto(sink, to, from, b, asname, s, explicit)
}

func importInto(sink DiagnosticSink, to, from *Module, b *Binding, asname, s symbol.Symbol, explicit bool) {
	if b == nil {
		if sink != nil {
			sink.Warnf("could not import %s.%s into %s", from.Name(), s, to.Name())
		}
		return
	}
	if b.Deprecated() != NotDeprecated {
		if b.Value() == nil {
			return // silently skip: moved with no stub value
		}
		if sink != nil {
			sink.Warnf("%s", bindingDepMessage(from, s, b))
		}
	}

	to.lock.Lock()
	defer to.lock.Unlock()

	existing, ok := to.bindings[asname]
	if !ok {
		alias := &Binding{
			name:       asname,
			module:     to,
			ownerState: ownerAlias,
			alias:      b,
			imported:   explicit,
			deprecated: b.Deprecated(),
		}
		to.bindings[asname] = alias
		return
	}

	if existing == b {
		return // no-op
	}
	if eqBindings(existing, b) {
		existing.imported = explicit
		return
	}
	switch existing.ownerState {
	case ownerAlias:
		if sink != nil {
			sink.Warnf("conflicting import of %s.%s into %s ignored", from.Name(), s, to.Name())
		}
		return
	case ownerUnresolved:
		existing.setOwnerAlias(b)
		existing.imported = explicit
		return
	default: // ownerSelf: has a local value, or is a local placeholder
		if existing.hasValue() || existing.Constp() {
			if sink != nil {
				sink.Warnf("import of %s.%s into %s conflicts with an existing identifier; ignored",
					from.Name(), s, to.Name())
			}
			return
		}
		// self-owned but empty (e.g. an export-only placeholder): take over
		existing.setOwnerAlias(b)
		existing.imported = explicit
	}
}

// Using is §4.3.3's using(to, from): makes from's exported names visible in
// to without granting the right to redefine them locally.
func Using(sink DiagnosticSink, to, from *Module) {
	if to == from {
		return
	}

	to.lock.Lock()
	for _, u := range to.usings {
		if u == from {
			to.lock.Unlock()
			return // already using; no-op
		}
	}
	to.lock.Unlock()

	from.lock.RLock()
	type pair struct {
		name symbol.Symbol
		b    *Binding
	}
	var exported []pair
	for name, b := range from.bindings {
		if b.Exportp() {
			exported = append(exported, pair{name, b})
		}
	}
	from.lock.RUnlock()

	to.lock.Lock()
	defer to.lock.Unlock()

	for _, u := range to.usings {
		if u == from {
			return // lost the race; another goroutine already added it
		}
	}

	for _, p := range exported {
		if p.name == to.name {
			continue
		}
		local, ok := to.bindings[p.name]
		if !ok || !local.IsSelfOwned() {
			continue
		}
		if !local.hasValue() && !local.Constp() {
			continue
		}
		if eqBindings(local, p.b) {
			continue
		}
		if sink != nil {
			sink.Warnf("using %s in module %s conflicts with an existing identifier", from.Name(), to.Name())
		}
	}

	to.usings = append(to.usings, from)
}

// Export is §4.3.4's export(from, s): lazily creates a placeholder binding
// if absent and marks it exported.
func Export(from *Module, s symbol.Symbol) {
	from.lock.Lock()
	defer from.lock.Unlock()
	b := from.getOrCreateBindingLocked(s)
	b.exportp = true
}

// Export is a convenience method wrapping the package-level Export.
func (m *Module) Export(name symbol.Symbol) { Export(m, name) }
