package module

import (
	"strings"
	"testing"

	"github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/symbol"
)

func TestErrAssignToImportedCode(t *testing.T) {
	m := New(symbol.Intern("M"), nil, false)
	err := errAssignToImported(m, symbol.Intern("x"))
	rep, ok := errors.AsReport(err)
	if !ok {
		t.Fatalf("expected a structured Report")
	}
	if rep.Code != errors.MOD006 {
		t.Fatalf("got code %s want %s", rep.Code, errors.MOD006)
	}
	if !strings.Contains(err.Error(), "M.x") {
		t.Fatalf("error message should mention M.x, got %q", err.Error())
	}
}

func TestErrInvalidConstantRedefinitionCode(t *testing.T) {
	m := New(symbol.Intern("M"), nil, false)
	err := errInvalidConstantRedefinition(m, symbol.Intern("k"))
	rep, ok := errors.AsReport(err)
	if !ok || rep.Code != errors.MOD008 {
		t.Fatalf("expected MOD008, got %v", rep)
	}
}

func TestErrIncompatibleTypedAssignmentCode(t *testing.T) {
	m := New(symbol.Intern("M"), nil, false)
	err := errIncompatibleTypedAssignment(m, symbol.Intern("v"), stringType{})
	rep, ok := errors.AsReport(err)
	if !ok || rep.Code != errors.MOD009 {
		t.Fatalf("expected MOD009, got %v", rep)
	}
	if rep.Data["type"] != "String" {
		t.Fatalf("expected the type's String() in the report data, got %v", rep.Data["type"])
	}
}

func TestErrDeprecatedUseCode(t *testing.T) {
	m := New(symbol.Intern("M"), nil, false)
	err := errDeprecatedUse(m, symbol.Intern("old"), ", use new instead.")
	rep, ok := errors.AsReport(err)
	if !ok || rep.Code != errors.MOD011 {
		t.Fatalf("expected MOD011, got %v", rep)
	}
}
