package module

// Value is the seam between the binding/resolver subsystem and the runtime's
// value representation (internal/eval.Value in this repository). The
// subsystem never inspects a value's representation directly — it only asks
// for the coarse classification the spec's assignment and using-ambiguity
// rules need ("is this a type", "is this a module", "are these two values
// structurally equal"). A concrete adapter (see internal/link) wraps
// eval.Value to satisfy this interface.
type Value interface {
	// Kind classifies the value for the rules in checked_assignment and
	// using_resolve that special-case types and modules.
	Kind() ValueKind
	// StructurallyEqual reports whether two values are equal by value,
	// used by eq_bindings and by checked_assignment's constant-redefinition
	// check. It must be reflexive, symmetric, and transitive over values of
	// the same Kind.
	StructurallyEqual(Value) bool
}

// ValueKind is the coarse classification a Value reports.
type ValueKind int

const (
	// KindOther covers every value that is neither a type nor a module
	// (functions, data, etc).
	KindOther ValueKind = iota
	KindType
	KindModule
)

// Type is a declared type constraint on a Binding. The universal type
// (UnsetType) accepts every value and is what a fresh binding starts with.
type Type interface {
	// Accepts reports whether v conforms to this type.
	Accepts(v Value) bool
	// Equal reports whether two type constraints are the same constraint.
	Equal(Type) bool
	String() string
}

// universalType is the "no constraint yet" type: §3.2 calls this "unset,
// treated as the universal type". It accepts any value and is equal only to
// itself.
type universalType struct{}

func (universalType) Accepts(Value) bool  { return true }
func (universalType) Equal(t Type) bool   { _, ok := t.(universalType); return ok }
func (universalType) String() string      { return "Any" }

// UnsetType is the singleton universal type constraint.
var UnsetType Type = universalType{}
