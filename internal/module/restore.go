package module

import (
	"fmt"

	"github.com/sunholo/ailang/internal/symbol"
)

// DependencyLookup answers "what does this module depend on" during restore,
// supplied by the caller (typically backed by an internal/iface.Iface or an
// internal/loader.LoadedModule's import list — parsing and interface
// construction remain external collaborators this subsystem does not own).
type DependencyLookup func(name symbol.Symbol) (deps []symbol.Symbol, err error)

// RestoreLoader builds a set of runtime Modules in dependency order and
// wires them together with Using, implementing the module-graph half of
// §6.1's init_restored_modules. Its cycle-detection load stack and cache map
// mirror the file-based Loader's shape, retargeted at module names instead
// of .ail file paths (parsing itself is out of scope for this subsystem).
type RestoreLoader struct {
	sink  DiagnosticSink
	deps  DependencyLookup
	cache map[symbol.Symbol]*Module
	stack []symbol.Symbol
	core  *Module
}

// NewRestoreLoader creates a loader that builds modules parented at core and
// wires using-dependencies via deps.
func NewRestoreLoader(sink DiagnosticSink, core *Module, deps DependencyLookup) *RestoreLoader {
	return &RestoreLoader{
		sink:  sink,
		deps:  deps,
		cache: make(map[symbol.Symbol]*Module),
		core:  core,
	}
}

// Load returns the restored Module for name, constructing it (and its
// dependencies, recursively) if not already cached. Dependencies are wired
// via Using so the restored module sees their exports, matching how a
// compiled unit's imports become runtime usings edges at load time.
func (l *RestoreLoader) Load(name symbol.Symbol) (*Module, error) {
	if m, ok := l.cache[name]; ok {
		return m, nil
	}
	if err := l.checkCycle(name); err != nil {
		return nil, err
	}

	l.stack = append(l.stack, name)
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()

	deps, err := l.deps(name)
	if err != nil {
		return nil, fmt.Errorf("MOD005: resolving dependencies of %s: %w", name, err)
	}

	m := New(name, l.core, false)
	l.cache[name] = m // cache before recursing: self-dependency resolves to this module

	for _, dep := range deps {
		depMod, err := l.Load(dep)
		if err != nil {
			return nil, fmt.Errorf("failed to load dependency %s of %s: %w", dep, name, err)
		}
		Using(l.sink, m, depMod)
	}

	return m, nil
}

// checkCycle reports a dependency cycle if name is already on the load
// stack (mirrors internal/link/topo.go's DFS cycle guard).
func (l *RestoreLoader) checkCycle(name symbol.Symbol) error {
	for i, s := range l.stack {
		if s == name {
			cycle := append(append([]symbol.Symbol(nil), l.stack[i:]...), name)
			return &CycleError{Cycle: cycle}
		}
	}
	return nil
}

// TopoOrder returns every module loaded so far, dependencies before
// dependents, via Kahn's algorithm over the using edges recorded during
// Load (same algorithm as loader.go's TopologicalSort).
func (l *RestoreLoader) TopoOrder() []*Module {
	inDegree := make(map[*Module]int, len(l.cache))
	dependents := make(map[*Module][]*Module, len(l.cache))

	for _, m := range l.cache {
		for _, dep := range m.Usings() {
			if _, tracked := l.cache[dep.Name()]; !tracked {
				continue
			}
			inDegree[m]++
			dependents[dep] = append(dependents[dep], m)
		}
		if _, ok := inDegree[m]; !ok {
			inDegree[m] = 0
		}
	}

	var queue, order []*Module
	for m, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, m)
		}
	}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		order = append(order, m)
		for _, dependent := range dependents[m] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}
	return order
}

// CycleError reports a dependency cycle discovered while restoring modules.
type CycleError struct {
	Cycle []symbol.Symbol
}

func (e *CycleError) Error() string {
	s := ""
	for i, n := range e.Cycle {
		if i > 0 {
			s += " -> "
		}
		s += n.Name()
	}
	return "LDR002: dependency cycle detected: " + s
}
