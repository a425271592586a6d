package module

import (
	"fmt"

	"github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/symbol"
)

// errAssignToImported builds the AssignToImported error kind (§7).
func errAssignToImported(m *Module, name symbol.Symbol) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "ailang.error/v1",
		Code:    errors.MOD006,
		Phase:   "module",
		Message: fmt.Sprintf("cannot assign a value to imported variable %s.%s", m.name, name),
		Data: map[string]any{
			"module": m.name.Name(),
			"name":   name.Name(),
		},
	})
}

// errMethodNotExplicitlyImported builds the MethodNotExplicitlyImported kind.
func errMethodNotExplicitlyImported(m *Module, name symbol.Symbol) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "ailang.error/v1",
		Code:    errors.MOD007,
		Phase:   "module",
		Message: fmt.Sprintf("function %s.%s must be explicitly imported to be extended", m.name, name),
		Data: map[string]any{
			"module": m.name.Name(),
			"name":   name.Name(),
		},
	})
}

// errInvalidConstantRedefinition builds the InvalidConstantRedefinition kind.
func errInvalidConstantRedefinition(m *Module, name symbol.Symbol) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "ailang.error/v1",
		Code:    errors.MOD008,
		Phase:   "module",
		Message: fmt.Sprintf("invalid redefinition of constant %s", name),
		Data: map[string]any{
			"module": m.name.Name(),
			"name":   name.Name(),
		},
	})
}

// errIncompatibleTypedAssignment builds the IncompatibleTypedAssignment kind.
func errIncompatibleTypedAssignment(m *Module, name symbol.Symbol, want Type) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "ailang.error/v1",
		Code:    errors.MOD009,
		Phase:   "module",
		Message: fmt.Sprintf("cannot assign an incompatible value to the global %s.%s", m.name, name),
		Data: map[string]any{
			"module": m.name.Name(),
			"name":   name.Name(),
			"type":   want.String(),
		},
	})
}

// errUndefinedVar builds the UndefinedVar error kind.
func errUndefinedVar(m *Module, name symbol.Symbol) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "ailang.error/v1",
		Code:    errors.MOD010,
		Phase:   "module",
		Message: fmt.Sprintf("%s.%s not defined", m.name, name),
		Data: map[string]any{
			"module": m.name.Name(),
			"name":   name.Name(),
		},
	})
}

// errDeprecatedUse builds the DeprecatedUse error kind (only raised when
// depwarn == error).
func errDeprecatedUse(m *Module, name symbol.Symbol, message string) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "ailang.error/v1",
		Code:    errors.MOD011,
		Phase:   "module",
		Message: fmt.Sprintf("%s.%s is deprecated%s", m.name, name, message),
		Data: map[string]any{
			"module": m.name.Name(),
			"name":   name.Name(),
		},
	})
}
