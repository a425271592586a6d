package module

import "github.com/sunholo/ailang/internal/symbol"

// GetGlobal implements §4.5/§6.1's get_binding_or_error / get_global: resolve
// name in m and fail with UndefinedVar when resolution comes back empty.
// Otherwise it runs binding_deprecation_warning on the resolved owner, so a
// read of a deprecated name is warned about (or, under depwarn=error,
// rejected) the same way regardless of which caller performed the read.
func GetGlobal(sink DiagnosticSink, opts RuntimeOptions, m *Module, name symbol.Symbol) (*Binding, error) {
	owner := ResolveOwner(sink, nil, m, name, nil)
	if owner == nil {
		return nil, errUndefinedVar(m, name)
	}
	if err := bindingDeprecationWarning(sink, opts, m, name, owner); err != nil {
		return nil, err
	}
	return owner, nil
}
