package module

import (
	"sync/atomic"

	"github.com/sunholo/ailang/internal/symbol"
)

// DeprecationLevel classifies why a binding is deprecated (§4.5).
type DeprecationLevel int32

const (
	// NotDeprecated is the default: no warning on use.
	NotDeprecated DeprecationLevel = 0
	// DeprecatedRenamed warns on use; the value is still usable.
	DeprecatedRenamed DeprecationLevel = 1
	// DeprecatedMoved means the value is an error-throwing stub.
	DeprecatedMoved DeprecationLevel = 2
)

// ownerKind is the tagged variant backing Binding.owner, replacing the
// sentinel-encoded self/alias/unresolved triad the source used (§9 redesign
// note: "cleaner as an explicit tagged variant").
type ownerKind int32

const (
	ownerUnresolved ownerKind = iota
	ownerSelf
	ownerAlias
)

// Binding is the authoritative slot for one name inside one module (§3.2).
// value and typ are read lock-free and written via CAS; the remaining fields
// are written only while the owning Module's lock is held, but may be read
// without it (§5).
type Binding struct {
	name   symbol.Symbol
	module *Module // the module this binding record lives in

	value atomic.Pointer[valueBox] // nil means "unset"
	typ   atomic.Pointer[typeBox]  // nil means "unset" (== universal)

	// owner encodes the tagged variant: ownerSelf means this binding is
	// authoritative; ownerAlias means alias points at the real owner;
	// ownerUnresolved means the slot exists (e.g. export-only) but has no
	// value source yet. Both owner and alias are guarded by module.lock.
	ownerState ownerKind
	alias      *Binding

	constp     int32 // CAS'd 0/1, monotonic 0->1 (never reverts, §I3)
	exportp    bool
	imported   bool
	deprecated DeprecationLevel

	ref *GlobalRef // lazily created, guarded by module.lock
}

// newBinding allocates a fresh, self-owned, empty binding for name inside m.
// Callers hold m.lock.
func newBinding(m *Module, name symbol.Symbol) *Binding {
	return &Binding{
		name:       name,
		module:     m,
		ownerState: ownerSelf,
	}
}

// Name returns the binding's symbol.
func (b *Binding) Name() symbol.Symbol { return b.name }

// Module returns the module the binding record lives in (not necessarily the
// module that currently owns the name — see Owner).
func (b *Binding) Module() *Module { return b.module }

// IsSelfOwned reports whether owner == self (I1).
func (b *Binding) IsSelfOwned() bool { return b.ownerState == ownerSelf }

// IsUnresolved reports whether the binding has no owner decided yet.
func (b *Binding) IsUnresolved() bool { return b.ownerState == ownerUnresolved }

// Owner returns the binding that is authoritative for this name: itself if
// self-owned, the aliased binding if resolved, or nil if unresolved. Per I2,
// an alias always points directly at a self-owned binding.
func (b *Binding) Owner() *Binding {
	switch b.ownerState {
	case ownerSelf:
		return b
	case ownerAlias:
		return b.alias
	default:
		return nil
	}
}

// setOwnerSelf claims the binding as authoritative. Caller holds module.lock.
func (b *Binding) setOwnerSelf() {
	b.ownerState = ownerSelf
	b.alias = nil
}

// setOwnerAlias makes b an alias of owner, which must itself be self-owned
// (I2). Caller holds module.lock.
func (b *Binding) setOwnerAlias(owner *Binding) {
	b.ownerState = ownerAlias
	b.alias = owner
}

// valueBox indirects Value behind a pointer so atomic.Pointer[valueBox] can
// use nil as "unset" (Value is an interface and can't be pointed at
// directly).
type valueBox struct{ v Value }

// typeBox is the Type analogue of valueBox.
type typeBox struct{ t Type }

// Value loads the current value, or nil if unset.
func (b *Binding) Value() Value {
	if boxed := b.value.Load(); boxed != nil {
		return boxed.v
	}
	return nil
}

// storeValue release-stores a value (I4). The GC write barrier is modeled as
// a no-op here: this repository's GC is the Go runtime's, which already
// barriers atomic.Pointer stores.
func (b *Binding) storeValue(v Value) { b.value.Store(&valueBox{v}) }

// casValue attempts value: unset -> v. Returns true if it won.
func (b *Binding) casValue(v Value) bool {
	return b.value.CompareAndSwap(nil, &valueBox{v})
}

// Type loads the declared type constraint, defaulting to the universal type.
func (b *Binding) Type() Type {
	if boxed := b.typ.Load(); boxed != nil {
		return boxed.t
	}
	return UnsetType
}

// casInitType CAS-initializes typ from unset to t. No-op if already set.
func (b *Binding) casInitType(t Type) {
	b.typ.CompareAndSwap(nil, &typeBox{t})
}

// Constp reports whether the binding is a constant (I3: monotonic).
func (b *Binding) Constp() bool { return atomic.LoadInt32(&b.constp) != 0 }

// casSetConst CAS's constp from 0 to 1, returning whether this call won.
func (b *Binding) casSetConst() bool {
	return atomic.CompareAndSwapInt32(&b.constp, 0, 1)
}

// Exportp reports whether this name is re-exported by the module's using.
func (b *Binding) Exportp() bool { return b.exportp }

// Imported reports whether the binding was introduced by an explicit import
// (true) or by using (false).
func (b *Binding) Imported() bool { return b.imported }

// Deprecated returns the deprecation level.
func (b *Binding) Deprecated() DeprecationLevel { return b.deprecated }

// hasValue reports whether value is set, used by set_const/checked_assignment.
func (b *Binding) hasValue() bool { return b.Value() != nil }

// eqBindings implements §4.3.1's eq_bindings: same identity, same owner, or
// both constants holding structurally-equal values (P3: reflexive,
// symmetric, transitive over bindings sharing ownership lineage).
func eqBindings(a, b *Binding) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	oa, ob := a.Owner(), b.Owner()
	if oa != nil && oa == ob {
		return true
	}
	if a.Constp() && b.Constp() {
		av, bv := a.Value(), b.Value()
		if av != nil && bv != nil {
			return av.StructurallyEqual(bv)
		}
	}
	return false
}
