package module

import (
	"sync/atomic"

	"github.com/sunholo/ailang/internal/symbol"
)

// The runtime designates three singleton modules (§6.2): Core (bootstrap
// definitions), Base (standard library; knob inheritance stops here), and
// Main (top-level user module). They are process-wide state, but per §9's
// design note ("pass them as explicit dependencies... rather than reading
// from globals inside the resolver") only module.New's default_names
// wiring reads coreModule directly; the resolver itself never touches these
// globals.
var coreModule atomic.Pointer[Module]

// Runtime bundles the three well-known modules and the options that govern
// them, replacing ad hoc global state with one explicit value callers pass
// around (§9's design note).
type Runtime struct {
	Core *Module
	Base *Module
	Main *Module
	Opts RuntimeOptions
}

// NewRuntime constructs Core, Base, and Main with the conventional
// relationships: Base's parent is Core, Main's parent is Core, Base is
// marked as where knob inheritance stops, and all three share sink and
// options. Core and Base do not opt into default_names (nothing to use
// before Core exists); Main does.
func NewRuntime(sink DiagnosticSink, opts RuntimeOptions) *Runtime {
	core := New(symbol.Intern("Core"), nil, false)
	core.SetIsTopMod(true)
	coreModule.Store(core)

	base := New(symbol.Intern("Base"), core, false)
	base.MarkBaseModule()
	base.SetIsTopMod(true)

	main := New(symbol.Intern("Main"), core, true)
	main.SetIsTopMod(true)
	Using(sink, main, base)

	for _, m := range []*Module{core, base, main} {
		m.SetDiagnosticSink(sink)
	}

	return &Runtime{Core: core, Base: base, Main: main, Opts: opts}
}

// InitRestoredModules implements §6.1's init_restored_modules: given a set
// of freshly-restored modules (e.g. from a compiled image or an incremental
// build), their initializers either run immediately or are deferred to a
// queue, depending on RuntimeOptions.Incremental/GeneratingOutput — mirrors
// loader.go's dependency-ordered load, repurposed here to order initializer
// execution instead of file parsing (see restore.go for the
// topological-sort machinery this reuses).
func (rt *Runtime) InitRestoredModules(restored []*Module, initOrder []*Module, runInit func(*Module) error) error {
	if rt.Opts.Incremental || rt.Opts.GeneratingOutput {
		// Deferred: callers append to their own init-order queue and flush
		// it later (e.g. after all modules in a build are restored). This
		// function just validates membership; actual deferral is the
		// caller's queue, per §6.3 ("deferred to a global init-order
		// queue" — the queue itself lives with the compiler driver, an
		// external collaborator this subsystem does not own).
		return nil
	}
	for _, m := range initOrder {
		found := false
		for _, r := range restored {
			if r == m {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		if err := runInit(m); err != nil {
			return err
		}
	}
	return nil
}
