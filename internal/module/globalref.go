package module

import "github.com/sunholo/ailang/internal/symbol"

// GlobalRef is a stable (module, name, binding) handle produced once per
// binding (§3.3), letting compiled code refer to "the slot at M.x" without
// re-hashing. GlobalRef.Module reports the module that *created* the
// reference and never changes; the binding's Owner may later change via
// aliasing, so consumers resolve through Binding() (and, if they need the
// live owner, ResolveOwner) rather than assuming GlobalRef.Module is where
// the value currently lives.
//
// GlobalRef.Module is treated as immutable creation-time metadata, not a
// live "current owner" pointer. Code that needs the current owner's module
// reads globalRef.Binding().Owner().Module().
type GlobalRef struct {
	Module symbol.Symbol
	Name   symbol.Symbol
	binding *Binding
}

// Binding returns the binding this GlobalRef was created for.
func (g *GlobalRef) Binding() *Binding { return g.binding }

// GlobalRefFor lazily creates (and caches) the GlobalRef for a binding,
// guarded by the owning module's lock per §3.3/§5.
func GlobalRefFor(b *Binding) *GlobalRef {
	m := b.module
	m.lock.Lock()
	defer m.lock.Unlock()
	if b.ref == nil {
		b.ref = &GlobalRef{Module: m.name, Name: b.name, binding: b}
	}
	return b.ref
}
