package module

import (
	"fmt"

	"github.com/sunholo/ailang/internal/symbol"
)

// DeprecateBinding sets the deprecation flag on the owner of (m, name)
// (§4.5). If the name does not resolve to an owner, this is a no-op.
func DeprecateBinding(sink DiagnosticSink, m *Module, name symbol.Symbol, flag DeprecationLevel) {
	owner := ResolveOwner(sink, nil, m, name, nil)
	if owner == nil {
		return
	}
	owner.module.lock.Lock()
	defer owner.module.lock.Unlock()
	owner.deprecated = flag
}

// depMessagePrefix is the symbol convention for a companion message binding:
// `_dep_message_<name>`.
func depMessagePrefix(name symbol.Symbol) symbol.Symbol {
	return symbol.Intern("_dep_message_" + name.Name())
}

// bindingDepMessage implements §4.5's binding_dep_message: looks up a
// companion binding named _dep_message_<name>; if present and a string,
// returns it; otherwise synthesizes a generic message from the value's kind.
func bindingDepMessage(m *Module, name symbol.Symbol, b *Binding) string {
	companion := m.GetModuleBinding(depMessagePrefix(name))
	if companion != nil {
		if sv, ok := companion.Value().(stringValue); ok {
			return fmt.Sprintf("%s.%s %s", m.Name(), name, sv.s)
		}
	}
	return fmt.Sprintf("%s.%s is deprecated%s", m.Name(), name, genericDepSuffix(b))
}

// genericDepSuffix synthesizes ", use <new> instead." style text from the
// value's kind, approximating the source's dispatch over type/module/
// generic-function without depending on the runtime's full value
// representation (see internal/module/value.go's seam).
func genericDepSuffix(b *Binding) string {
	v := b.Value()
	if v == nil {
		return "."
	}
	switch v.Kind() {
	case KindType:
		return ", use the replacement type instead."
	case KindModule:
		return ", use the replacement module instead."
	default:
		return ", use the replacement instead."
	}
}

// stringValue is a minimal Value implementation for _dep_message_<name>
// companion bindings, which are always plain strings.
type stringValue struct{ s string }

func (stringValue) Kind() ValueKind { return KindOther }
func (v stringValue) StructurallyEqual(o Value) bool {
	ov, ok := o.(stringValue)
	return ok && ov.s == v.s
}

// NewStringValue wraps a Go string as a Value, used to populate
// _dep_message_<name> companion bindings.
func NewStringValue(s string) Value { return stringValue{s} }

// bindingDeprecationWarning implements §4.5: emitted only for
// DeprecatedRenamed; consults depwarn. Returns an error when depwarn ==
// error (the caller should abort the access), nil otherwise.
func bindingDeprecationWarning(sink DiagnosticSink, opts RuntimeOptions, m *Module, name symbol.Symbol, b *Binding) error {
	if b.Deprecated() != DeprecatedRenamed {
		return nil
	}
	msg := bindingDepMessage(m, name, b)
	switch opts.Depwarn {
	case DepwarnOff:
		return nil
	case DepwarnError:
		if sink != nil {
			sink.Warnf("%s", msg)
		}
		return errDeprecatedUse(m, name, msg)
	default: // DepwarnWarn
		if sink != nil {
			sink.Warnf("%s", msg)
		}
		return nil
	}
}
