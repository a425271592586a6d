package module

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sunholo/ailang/internal/symbol"
)

// BuildID is a 128-bit identifier distinguishing module instances across
// sessions (§3.4). Lo is unique per construction within a process; Hi is
// reserved for serialization metadata and starts as the "not yet serialized"
// sentinel (all bits set).
type BuildID struct {
	Hi uint64
	Lo uint64
}

// NotSerialized is the sentinel BuildID.Hi value meaning "not yet serialized".
const NotSerialized uint64 = ^uint64(0)

var buildIDCounter uint64 // fallback for strict uniqueness, see nextBuildIDLo

// nextBuildIDLo derives a non-zero low word from a monotonic clock reading,
// falling back to a process-wide counter if the clock reading collides or
// reads zero (§4.1).
func nextBuildIDLo() uint64 {
	lo := uint64(time.Now().UnixNano())
	if lo == 0 {
		lo = atomic.AddUint64(&buildIDCounter, 1)
	}
	return lo
}

// Knob is an inheritable per-module setting. -1 means "inherit from parent"
// (§3.4).
type Knob int32

const inheritKnob Knob = -1

// Knobs holds the five inheritable compilation settings.
type Knobs struct {
	OptLevel     Knob
	Compile      Knob
	Infer        Knob
	MaxMethods   Knob
	NoSpecialize Knob
}

func newInheritKnobs() Knobs {
	return Knobs{
		OptLevel:     inheritKnob,
		Compile:      inheritKnob,
		Infer:        inheritKnob,
		MaxMethods:   inheritKnob,
		NoSpecialize: inheritKnob,
	}
}

// Module is a named namespace: the unit of using/import (§3.4).
type Module struct {
	name    symbol.Symbol
	parent  *Module // self-parent for the root
	uuid    [16]byte
	buildID BuildID

	lock sync.RWMutex // protects bindings map structure and usings slice

	bindings map[symbol.Symbol]*Binding
	usings   []*Module // most-recently-added last; resolution walks in reverse

	counter uint32 // monotonic, for generating unique internal names

	knobs     Knobs
	istopmod  bool
	isBaseMod bool // marks the module where knob inheritance stops (Base)

	sink DiagnosticSink // the diagnostic sink warnings are sent to, see SetDiagnosticSink
}

// SetDiagnosticSink sets where this module's resolver/assignment warnings
// go. Defaults to nil (no warnings emitted) until set; DefaultRuntime wires
// a StderrSink for Core/Base/Main.
func (m *Module) SetDiagnosticSink(s DiagnosticSink) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.sink = s
}

// diagnosticSink returns the module's sink, or nil.
func (m *Module) diagnosticSink() DiagnosticSink {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.sink
}

// New creates a module named `name` with the given parent (pass the module
// itself for a root module). If defaultNames is true, Core is added to
// usings and `name` is bound as a constant self-reference, so that code
// inside a module can refer to the module by its own name (§4.1).
func New(name symbol.Symbol, parent *Module, defaultNames bool) *Module {
	m := &Module{
		name:     name,
		buildID:  BuildID{Hi: NotSerialized, Lo: nextBuildIDLo()},
		bindings: make(map[symbol.Symbol]*Binding),
		usings:   nil,
		counter:  1,
		knobs:    newInheritKnobs(),
	}
	m.parent = parent
	if m.parent == nil {
		m.parent = m
	}

	if defaultNames {
		if core := coreModule.Load(); core != nil && core != m {
			m.usings = append(m.usings, core)
		}
		b := m.getOrCreateBindingLocked(name)
		b.setOwnerSelf()
		b.constp = 1
		b.storeValue(moduleSelfValue{m})
	}
	m.Export(name)
	return m
}

// moduleSelfValue wraps a *Module so it satisfies Value, used only for the
// self-referential `name` constant default_names installs.
type moduleSelfValue struct{ m *Module }

func (moduleSelfValue) Kind() ValueKind { return KindModule }
func (v moduleSelfValue) StructurallyEqual(other Value) bool {
	o, ok := other.(moduleSelfValue)
	return ok && o.m == v.m
}

// SelfModule unwraps a moduleSelfValue, used by resolver tests and by
// is_submodule style walks. Returns nil if v is not a module self-reference.
func SelfModule(v Value) *Module {
	if mv, ok := v.(moduleSelfValue); ok {
		return mv.m
	}
	return nil
}

// NextCounter atomically fetch-adds and returns the prior counter value.
func (m *Module) NextCounter() uint32 {
	return atomic.AddUint32(&m.counter, 1) - 1
}

// Name returns the module's symbol.
func (m *Module) Name() symbol.Symbol { return m.name }

// Parent returns the module's parent (itself for a root module).
func (m *Module) Parent() *Module { return m.parent }

// UUID returns the module's UUID.
func (m *Module) UUID() [16]byte { return m.uuid }

// SetUUID sets the module's UUID (set_module_uuid, §6.1).
func (m *Module) SetUUID(u [16]byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.uuid = u
}

// BuildID returns the module's build id.
func (m *Module) BuildID() BuildID { return m.buildID }

// IsTopMod reports whether this is a primary top-level module.
func (m *Module) IsTopMod() bool { return m.istopmod }

// SetIsTopMod marks/unmarks m as a primary top-level module (set_istopmod).
func (m *Module) SetIsTopMod(v bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.istopmod = v
}

// IsSubmodule reports whether m is target or a (transitive) child of target
// by walking parent edges (§4.6).
func (m *Module) IsSubmodule(target *Module) bool {
	for cur := m; ; cur = cur.parent {
		if cur == target {
			return true
		}
		if cur.parent == cur {
			return cur == target
		}
	}
}

// Usings returns a snapshot of the usings list (module_usings, §4.6).
func (m *Module) Usings() []*Module {
	m.lock.RLock()
	defer m.lock.RUnlock()
	out := make([]*Module, len(m.usings))
	copy(out, m.usings)
	return out
}

// knobWalk resolves an inheritable knob by walking the parent chain, stopping
// at a self-parent or at the module marked isBaseMod (§3.4).
func knobWalk(m *Module, get func(*Module) Knob) Knob {
	cur := m
	for {
		if k := get(cur); k != inheritKnob {
			return k
		}
		if cur.isBaseMod || cur.parent == cur {
			return inheritKnob
		}
		cur = cur.parent
	}
}

// OptLevel returns the effective optlevel, walking parents if inherited.
func (m *Module) OptLevel() Knob { return knobWalk(m, func(x *Module) Knob { return x.knobs.OptLevel }) }

// SetOptLevel sets this module's own optlevel (no inheritance on write).
func (m *Module) SetOptLevel(v Knob) { m.lock.Lock(); m.knobs.OptLevel = v; m.lock.Unlock() }

// Compile returns the effective compile knob.
func (m *Module) Compile() Knob { return knobWalk(m, func(x *Module) Knob { return x.knobs.Compile }) }

// SetCompile sets this module's own compile knob.
func (m *Module) SetCompile(v Knob) { m.lock.Lock(); m.knobs.Compile = v; m.lock.Unlock() }

// Infer returns the effective infer knob.
func (m *Module) Infer() Knob { return knobWalk(m, func(x *Module) Knob { return x.knobs.Infer }) }

// SetInfer sets this module's own infer knob.
func (m *Module) SetInfer(v Knob) { m.lock.Lock(); m.knobs.Infer = v; m.lock.Unlock() }

// MaxMethods returns the effective max_methods knob.
func (m *Module) MaxMethods() Knob {
	return knobWalk(m, func(x *Module) Knob { return x.knobs.MaxMethods })
}

// SetMaxMethods sets this module's own max_methods knob.
func (m *Module) SetMaxMethods(v Knob) { m.lock.Lock(); m.knobs.MaxMethods = v; m.lock.Unlock() }

// NoSpecialize returns the effective nospecialize knob.
func (m *Module) NoSpecialize() Knob {
	return knobWalk(m, func(x *Module) Knob { return x.knobs.NoSpecialize })
}

// SetNoSpecialize sets this module's own nospecialize knob.
func (m *Module) SetNoSpecialize(v Knob) { m.lock.Lock(); m.knobs.NoSpecialize = v; m.lock.Unlock() }

// MarkBaseModule designates m as where knob inheritance stops (Base).
func (m *Module) MarkBaseModule() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.isBaseMod = true
}
