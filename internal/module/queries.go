package module

import (
	"sort"

	"github.com/sunholo/ailang/internal/symbol"
)

// Boundp reports whether name resolves to a binding with a value (§4.6).
func Boundp(sink DiagnosticSink, m *Module, name symbol.Symbol) bool {
	owner := ResolveOwner(sink, nil, m, name, nil)
	return owner != nil && owner.hasValue()
}

// IsConst reports whether name resolves to a constant binding.
func IsConst(sink DiagnosticSink, m *Module, name symbol.Symbol) bool {
	owner := ResolveOwner(sink, nil, m, name, nil)
	return owner != nil && owner.Constp()
}

// IsImported reports whether the local slot for name (if any) was
// introduced by an explicit import rather than a using.
func IsImported(m *Module, name symbol.Symbol) bool {
	b := m.GetModuleBinding(name)
	return b != nil && b.imported
}

// ModuleExportsP reports whether m exports name.
func ModuleExportsP(m *Module, name symbol.Symbol) bool {
	b := m.GetModuleBinding(name)
	return b != nil && b.Exportp()
}

// BindingResolvedP reports whether the local slot for name has a decided
// owner (self or alias), as opposed to being a bare export-only placeholder.
func BindingResolvedP(m *Module, name symbol.Symbol) bool {
	b := m.GetModuleBinding(name)
	return b != nil && !b.IsUnresolved()
}

// DefinesOrExportsP reports whether m has a local binding for name that is
// either self-owned with a value/const, or marked exported.
func DefinesOrExportsP(m *Module, name symbol.Symbol) bool {
	b := m.GetModuleBinding(name)
	if b == nil {
		return false
	}
	if b.Exportp() {
		return true
	}
	return b.IsSelfOwned() && (b.hasValue() || b.Constp())
}

// ModuleName returns m's name.
func ModuleName(m *Module) symbol.Symbol { return m.Name() }

// ModuleParent returns m's parent.
func ModuleParent(m *Module) *Module { return m.Parent() }

// ModuleUsings returns a snapshot of m's usings list.
func ModuleUsings(m *Module) []*Module { return m.Usings() }

// ModuleNames enumerates the names bound (directly or, if all, exported via
// using) in m, excluding hidden (#-prefixed) names and, unless all is true,
// deprecated names. If imported is true, only explicitly-imported names are
// included; otherwise all locally-known names are included. Matches §4.6's
// module_names(all, imported). Returned in sorted order for determinism,
// following the same sort-before-return convention as
// internal/link's suggestModules/suggestExports.
func ModuleNames(m *Module, all, imported bool) []symbol.Symbol {
	m.lock.RLock()
	defer m.lock.RUnlock()

	var names []symbol.Symbol
	for name, b := range m.bindings {
		if name.Hidden() {
			continue
		}
		if imported && !b.imported {
			continue
		}
		if !all && b.Deprecated() != NotDeprecated {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Name() < names[j].Name() })
	return names
}

// IsSubmodule reports whether child is target or a transitive child of
// target, walking parent edges (M1 termination guarantee relied on here).
func IsSubmodule(child, target *Module) bool { return child.IsSubmodule(target) }
