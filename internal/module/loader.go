// Package module implements the runtime namespace/binding graph (Module,
// Binding, the resolver) plus, in this file, the source-level front end that
// turns .ail files into SourceModules and — via ToRuntimeModule — into the
// runtime Modules the rest of the package operates on.
package module

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/lexer"
	"github.com/sunholo/ailang/internal/parser"
	"github.com/sunholo/ailang/internal/symbol"
)

// SourceModule is a parsed AILANG source file, prior to becoming a runtime
// Module. It is the unit SourceLoader resolves import paths and dependency
// order over; ToRuntimeModule is the bridge into the binding graph proper.
type SourceModule struct {
	// Identity is the canonical module path (e.g., "std/list", "data/tree")
	Identity string

	// FilePath is the absolute path to the module file
	FilePath string

	// AST is the parsed module AST
	AST *ast.Module

	// Program is the full parsed program including the module
	Program *ast.Program

	// Dependencies are the modules this module imports
	Dependencies []string

	// Exports are the symbols exported by this module
	Exports map[string]ast.Node
}

// SourceLoader handles source-file loading and import-path resolution,
// populating a SourceModule cache keyed by canonical identity. It is kept
// separate from the runtime Module/Binding graph: parsing happens once per
// file, while a runtime Module is constructed (once) from the result via
// ToRuntimeModule whenever the compiler pipeline needs live bindings.
type SourceLoader struct {
	// cache stores loaded modules by their identity
	cache map[string]*SourceModule
	mu    sync.RWMutex

	// searchPaths are directories to search for modules
	searchPaths []string

	// stdlibPath is the path to the standard library
	stdlibPath string

	// currentFile is the file currently being loaded (for relative imports)
	currentFile string

	// loadStack tracks the current load chain for cycle detection
	loadStack []string

	// runtime caches the runtime Module built for each identity, so a
	// diamond dependency is only wired once (see ToRuntimeModule).
	runtime map[string]*Module

	// pathResolver backs resolvePath's stdlib/search-path lookups; kept as
	// one shared implementation with PathResolver rather than duplicated
	// here (see pathresolve.go).
	pathResolver *PathResolver
}

// NewSourceLoader creates a new module loader.
func NewSourceLoader() *SourceLoader {
	pr := NewPathResolver()
	return &SourceLoader{
		cache:        make(map[string]*SourceModule),
		searchPaths:  pr.searchPaths,
		stdlibPath:   pr.stdlibPath,
		loadStack:    []string{},
		runtime:      make(map[string]*Module),
		pathResolver: pr,
	}
}

// Load loads a module by its import path
func (l *SourceLoader) Load(importPath string) (*SourceModule, error) {
	// Normalize the import path
	identity := l.normalizeModulePath(importPath)

	// Check cache
	if mod := l.getCached(identity); mod != nil {
		return mod, nil
	}

	// Check for circular dependency
	if err := l.checkCycle(identity); err != nil {
		return nil, err
	}

	// Add to load stack
	l.pushStack(identity)
	defer l.popStack()

	// Resolve the file path
	filePath, err := l.resolvePath(importPath)
	if err != nil {
		return nil, l.moduleNotFoundError(importPath, err)
	}

	// Parse the module file
	mod, err := l.parseModule(identity, filePath)
	if err != nil {
		return nil, err
	}

	// Load dependencies
	if err := l.loadDependencies(mod); err != nil {
		return nil, err
	}

	// Validate module
	if err := l.validateModule(mod); err != nil {
		return nil, err
	}

	// Cache the module
	l.cacheModule(mod)

	return mod, nil
}

// LoadFile loads a module from a specific file path
func (l *SourceLoader) LoadFile(filePath string) (*SourceModule, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	// Derive module identity from file path
	identity := l.deriveModuleIdentity(absPath)

	// Set current file for relative imports
	oldFile := l.currentFile
	l.currentFile = absPath
	defer func() { l.currentFile = oldFile }()

	// Check cache
	if mod := l.getCached(identity); mod != nil {
		return mod, nil
	}

	// Parse and load
	mod, err := l.parseModule(identity, absPath)
	if err != nil {
		return nil, err
	}

	// Load dependencies
	if err := l.loadDependencies(mod); err != nil {
		return nil, err
	}

	// Validate
	if err := l.validateModule(mod); err != nil {
		return nil, err
	}

	// Cache
	l.cacheModule(mod)

	return mod, nil
}

// parseModule parses a module file
func (l *SourceLoader) parseModule(identity, filePath string) (*SourceModule, error) {
	// Read the file
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file: %w", err)
	}

	// Parse the file
	lex := lexer.New(string(content), filePath)
	p := parser.New(lex)
	program := p.Parse()

	if len(p.Errors()) > 0 {
		return nil, l.parseError(filePath, p.Errors())
	}

	// Extract module declaration
	if program.Module == nil {
		// If no module declaration, create a default one
		program.Module = &ast.Module{
			Name:    identity,
			Exports: []string{},
			Imports: []*ast.Import{},
		}
	}

	// Validate module name matches expected identity
	// Skip validation if it's a default module (no explicit module declaration)
	if !l.isStdlib(identity) && program.Module.Name != identity {
		// If the module name was auto-generated (e.g. "Main"), use the expected identity
		if program.Module.Name == "Main" {
			program.Module.Name = l.expectedModuleName(filePath)
		} else {
			expectedName := l.expectedModuleName(filePath)
			if program.Module.Name != expectedName {
				return nil, l.moduleNameMismatchError(program.Module.Name, expectedName, filePath)
			}
		}
	}

	// Create module
	mod := &SourceModule{
		Identity:     identity,
		FilePath:     filePath,
		AST:          program.Module,
		Program:      program,
		Dependencies: l.extractDependencies(program.Module),
		Exports:      l.extractExports(program),
	}

	return mod, nil
}

// resolvePath resolves an import path to a file path. Relative imports are
// resolved here (they need l.currentFile, which PathResolver has no notion
// of); stdlib and search-path imports delegate to the shared PathResolver.
func (l *SourceLoader) resolvePath(importPath string) (string, error) {
	// Handle relative imports
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		if l.currentFile == "" {
			return "", fmt.Errorf("relative import '%s' with no current file", importPath)
		}
		dir := filepath.Dir(l.currentFile)
		path := filepath.Join(dir, importPath)
		if !strings.HasSuffix(path, ".ail") {
			path += ".ail"
		}
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
		return "", fmt.Errorf("module not found: %s", path)
	}

	return l.pathResolver.ResolveModuleSource(importPath)
}

// loadDependencies loads all dependencies of a module
func (l *SourceLoader) loadDependencies(mod *SourceModule) error {
	for _, dep := range mod.Dependencies {
		if _, err := l.Load(dep); err != nil {
			return fmt.Errorf("failed to load dependency '%s': %w", dep, err)
		}
	}
	return nil
}

// validateModule validates a module for consistency
func (l *SourceLoader) validateModule(mod *SourceModule) error {
	// Check for duplicate exports
	seen := make(map[string]bool)
	for name := range mod.Exports {
		if seen[name] {
			return l.duplicateExportError(name, mod.Identity)
		}
		seen[name] = true
	}

	// Validate imports reference actual exports
	for _, imp := range mod.AST.Imports {
		depMod, err := l.Load(imp.Path)
		if err != nil {
			return err
		}

		// Check selective imports
		for _, item := range imp.Symbols {
			if _, ok := depMod.Exports[item]; !ok {
				return l.importNotExportedError(item, imp.Path, mod.Identity)
			}
		}
	}

	return nil
}

// ToRuntimeModule builds (or returns the cached) runtime *Module
// corresponding to this SourceModule, recursively building its dependencies
// first and wiring them in via Using — the bridge from parsed source to the
// live binding graph the resolver operates on. Top-level declarations become
// self-owned bindings named after the declaration; anything listed in
// Exports is marked exported.
func (l *SourceLoader) ToRuntimeModule(sink DiagnosticSink, parent *Module, identity string) (*Module, error) {
	l.mu.Lock()
	if rt, ok := l.runtime[identity]; ok {
		l.mu.Unlock()
		return rt, nil
	}
	l.mu.Unlock()

	src := l.getCached(identity)
	if src == nil {
		return nil, fmt.Errorf("source module %q not loaded", identity)
	}

	rt := New(symbol.Intern(identity), parent, false)
	rt.SetDiagnosticSink(sink)

	l.mu.Lock()
	l.runtime[identity] = rt
	l.mu.Unlock()

	for name := range src.Exports {
		b, err := rt.GetBindingWR(symbol.Intern(name), true)
		if err != nil {
			return nil, err
		}
		b.exportp = true
	}

	for _, dep := range src.Dependencies {
		depRT, err := l.ToRuntimeModule(sink, parent, l.normalizeModulePath(dep))
		if err != nil {
			return nil, fmt.Errorf("building runtime module for dependency %q of %q: %w", dep, identity, err)
		}
		Using(sink, rt, depRT)
	}

	return rt, nil
}

// Helper methods

func (l *SourceLoader) getCached(identity string) *SourceModule {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[identity]
}

func (l *SourceLoader) cacheModule(mod *SourceModule) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[mod.Identity] = mod
}

func (l *SourceLoader) checkCycle(identity string) error {
	for i, id := range l.loadStack {
		if id == identity {
			// Found a cycle
			cycle := append(l.loadStack[i:], identity)
			return l.circularDependencyError(cycle)
		}
	}
	return nil
}

func (l *SourceLoader) pushStack(identity string) {
	l.loadStack = append(l.loadStack, identity)
}

func (l *SourceLoader) popStack() {
	if len(l.loadStack) > 0 {
		l.loadStack = l.loadStack[:len(l.loadStack)-1]
	}
}

func (l *SourceLoader) normalizeModulePath(path string) string {
	// Remove .ail extension if present
	path = strings.TrimSuffix(path, ".ail")
	// Normalize separators
	path = strings.ReplaceAll(path, "\\", "/")
	return path
}

func (l *SourceLoader) deriveModuleIdentity(filePath string) string {
	// Remove .ail extension
	identity := strings.TrimSuffix(filepath.Base(filePath), ".ail")

	// For files in known directories, include the directory structure
	for _, searchPath := range l.searchPaths {
		if absSearch, err := filepath.Abs(searchPath); err == nil {
			if strings.HasPrefix(filePath, absSearch) {
				rel, _ := filepath.Rel(absSearch, filePath)
				identity = strings.TrimSuffix(rel, ".ail")
				identity = strings.ReplaceAll(identity, string(filepath.Separator), "/")
				break
			}
		}
	}

	return identity
}

func (l *SourceLoader) expectedModuleName(filePath string) string {
	// The module name should match the relative path from the project root
	base := strings.TrimSuffix(filepath.Base(filePath), ".ail")
	return base
}

func (l *SourceLoader) isStdlib(identity string) bool {
	return strings.HasPrefix(identity, "std/")
}

func (l *SourceLoader) extractDependencies(mod *ast.Module) []string {
	deps := []string{}
	for _, imp := range mod.Imports {
		deps = append(deps, imp.Path)
	}
	return deps
}

func (l *SourceLoader) extractExports(program *ast.Program) map[string]ast.Node {
	exports := make(map[string]ast.Node)

	// If explicit exports, use those
	if len(program.Module.Exports) > 0 {
		for _, name := range program.Module.Exports {
			// Find the declaration in module Decls
			for _, decl := range program.Module.Decls {
				switch d := decl.(type) {
				case *ast.FuncDecl:
					if d.Name == name {
						exports[name] = d
					}
				case *ast.Let:
					if d.Name == name {
						exports[name] = d
					}
				}
			}
		}
	} else {
		// Otherwise, export all top-level declarations
		for _, decl := range program.Module.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				exports[d.Name] = d
			case *ast.Let:
				exports[d.Name] = d
			}
		}
	}

	return exports
}

// Error constructors

func (l *SourceLoader) moduleNotFoundError(path string, err error) error {
	trace := l.buildResolutionTrace()
	return &ModuleError{
		Code:    errors.LDR001,
		Message: fmt.Sprintf("Module not found: %s", path),
		Path:    path,
		Trace:   trace,
		Cause:   err,
	}
}

func (l *SourceLoader) circularDependencyError(cycle []string) error {
	return &ModuleError{
		Code:    errors.LDR002,
		Message: "Circular module dependency detected",
		Cycle:   cycle,
		Trace:   l.buildResolutionTrace(),
	}
}

func (l *SourceLoader) moduleNameMismatchError(actual, expected, path string) error {
	return &ModuleError{
		Code:    errors.MOD001,
		Message: fmt.Sprintf("Module name '%s' doesn't match expected '%s' for file %s", actual, expected, path),
		Path:    path,
	}
}

func (l *SourceLoader) duplicateExportError(name, module string) error {
	return &ModuleError{
		Code:    errors.MOD004,
		Message: fmt.Sprintf("Duplicate export '%s' in module %s", name, module),
		Path:    module,
	}
}

func (l *SourceLoader) importNotExportedError(item, fromModule, inModule string) error {
	return &ModuleError{
		Code:    errors.LDR004,
		Message: fmt.Sprintf("Import '%s' not exported by module %s (imported in %s)", item, fromModule, inModule),
		Path:    inModule,
	}
}

func (l *SourceLoader) parseError(path string, errs []error) error {
	// Convert first parse error to module error
	if len(errs) > 0 {
		return &ModuleError{
			Code:    errors.PAR001,
			Message: fmt.Sprintf("Parse error in %s: %v", path, errs[0]),
			Path:    path,
			Cause:   errs[0],
		}
	}
	return fmt.Errorf("parse error in %s", path)
}

func (l *SourceLoader) buildResolutionTrace() []string {
	trace := []string{}
	for i, id := range l.loadStack {
		indent := strings.Repeat("  ", i)
		if i == 0 {
			trace = append(trace, fmt.Sprintf("Resolving %s", id))
		} else {
			trace = append(trace, fmt.Sprintf("%s-> import %s", indent, id))
		}
	}
	return trace
}

// ModuleError represents a module loading error with structured information
type ModuleError struct {
	Code    string   // Error code (e.g., LDR001)
	Message string   // Human-readable message
	Path    string   // Module path that caused the error
	Cycle   []string // For circular dependencies
	Trace   []string // Resolution trace
	Cause   error    // Underlying error
}

func (e *ModuleError) Error() string {
	return e.Message
}

// GetDependencyGraph returns the full dependency graph
func (l *SourceLoader) GetDependencyGraph() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	graph := make(map[string][]string)
	for id, mod := range l.cache {
		graph[id] = mod.Dependencies
	}
	return graph
}

// TopologicalSort returns modules in dependency order
func (l *SourceLoader) TopologicalSort() ([]string, error) {
	graph := l.GetDependencyGraph()

	// Kahn's algorithm for topological sort
	// We need a reverse graph for proper topological sorting
	// If A depends on B, we want B to come before A
	reverseGraph := make(map[string][]string)
	inDegree := make(map[string]int)

	// Initialize all nodes
	for node := range graph {
		reverseGraph[node] = []string{}
		inDegree[node] = 0
	}

	// Build reverse graph and count in-degrees
	for node, deps := range graph {
		for _, dep := range deps {
			// dep is depended on by node
			if _, exists := reverseGraph[dep]; !exists {
				reverseGraph[dep] = []string{}
				inDegree[dep] = 0
			}
			reverseGraph[dep] = append(reverseGraph[dep], node)
		}
		// node has deps.length dependencies
		inDegree[node] = len(deps)
	}

	// Find nodes with no incoming edges
	queue := []string{}
	for node, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, node)
		}
	}

	result := []string{}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		// Process nodes that depend on this one
		for _, dependent := range reverseGraph[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	// Check for cycles
	if len(result) != len(graph) {
		return nil, fmt.Errorf("circular dependency detected")
	}

	return result, nil
}

// Writer interface for dumping module information
func (l *SourceLoader) DumpModules(w io.Writer) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	fmt.Fprintf(w, "Loaded Modules:\n")
	for id, mod := range l.cache {
		fmt.Fprintf(w, "  %s:\n", id)
		fmt.Fprintf(w, "    File: %s\n", mod.FilePath)
		fmt.Fprintf(w, "    Dependencies: %v\n", mod.Dependencies)
		fmt.Fprintf(w, "    Exports: %v\n", l.getExportNames(mod))
	}
}

func (l *SourceLoader) getExportNames(mod *SourceModule) []string {
	names := []string{}
	for name := range mod.Exports {
		names = append(names, name)
	}
	return names
}
