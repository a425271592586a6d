package module

import (
	"testing"

	"github.com/sunholo/ailang/internal/symbol"
)

func TestRestoreLoaderLoadsDependenciesFirst(t *testing.T) {
	core := New(symbol.Intern("Core"), nil, false)

	depsOf := map[string][]string{
		"App":  {"Lib"},
		"Lib":  {"Util"},
		"Util": {},
	}
	lookup := func(name symbol.Symbol) ([]symbol.Symbol, error) {
		var out []symbol.Symbol
		for _, d := range depsOf[name.Name()] {
			out = append(out, symbol.Intern(d))
		}
		return out, nil
	}

	l := NewRestoreLoader(&MemorySink{}, core, lookup)
	app, err := l.Load(symbol.Intern("App"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Name().Name() != "App" {
		t.Fatalf("expected the App module, got %s", app.Name().Name())
	}

	util, _ := l.Load(symbol.Intern("Util"))
	found := false
	for _, u := range app.Usings() {
		if u.Name().Name() == "Lib" {
			found = true
		}
	}
	if !found {
		t.Fatalf("App should be using Lib")
	}
	_ = util
}

func TestRestoreLoaderCachesByName(t *testing.T) {
	core := New(symbol.Intern("Core"), nil, false)
	calls := 0
	lookup := func(name symbol.Symbol) ([]symbol.Symbol, error) {
		calls++
		return nil, nil
	}
	l := NewRestoreLoader(&MemorySink{}, core, lookup)

	m1, _ := l.Load(symbol.Intern("A"))
	m2, _ := l.Load(symbol.Intern("A"))
	if m1 != m2 {
		t.Fatalf("repeated Load of the same name should return the cached module")
	}
	if calls != 1 {
		t.Fatalf("dependency lookup should only run once per name, ran %d times", calls)
	}
}

func TestRestoreLoaderDetectsCycle(t *testing.T) {
	core := New(symbol.Intern("Core"), nil, false)
	depsOf := map[string][]string{
		"A": {"B"},
		"B": {"A"},
	}
	lookup := func(name symbol.Symbol) ([]symbol.Symbol, error) {
		var out []symbol.Symbol
		for _, d := range depsOf[name.Name()] {
			out = append(out, symbol.Intern(d))
		}
		return out, nil
	}
	l := NewRestoreLoader(&MemorySink{}, core, lookup)
	if _, err := l.Load(symbol.Intern("A")); err == nil {
		t.Fatalf("expected a cycle error")
	}
}

func TestRestoreLoaderTopoOrder(t *testing.T) {
	core := New(symbol.Intern("Core"), nil, false)
	depsOf := map[string][]string{
		"App":  {"Lib"},
		"Lib":  {"Util"},
		"Util": {},
	}
	lookup := func(name symbol.Symbol) ([]symbol.Symbol, error) {
		var out []symbol.Symbol
		for _, d := range depsOf[name.Name()] {
			out = append(out, symbol.Intern(d))
		}
		return out, nil
	}
	l := NewRestoreLoader(&MemorySink{}, core, lookup)
	l.Load(symbol.Intern("App"))

	order := l.TopoOrder()
	pos := map[string]int{}
	for i, m := range order {
		pos[m.Name().Name()] = i
	}
	if pos["Util"] >= pos["Lib"] || pos["Lib"] >= pos["App"] {
		t.Fatalf("expected Util before Lib before App, got order %v", order)
	}
}
