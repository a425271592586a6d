package module

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Depwarn != DepwarnWarn {
		t.Fatalf("default depwarn should be warn, got %v", opts.Depwarn)
	}
	if opts.Incremental || opts.GeneratingOutput {
		t.Fatalf("default options should not be incremental/generating-output")
	}
}

func TestDepwarnModeUnmarshalYAML(t *testing.T) {
	cases := map[string]DepwarnMode{
		"off":   DepwarnOff,
		"warn":  DepwarnWarn,
		"error": DepwarnError,
	}
	for s, want := range cases {
		var d DepwarnMode
		if err := yaml.Unmarshal([]byte(s), &d); err != nil {
			t.Fatalf("unmarshalling %q: %v", s, err)
		}
		if d != want {
			t.Fatalf("%q: got %v want %v", s, d, want)
		}
	}
}

func TestDepwarnModeUnmarshalYAMLInvalid(t *testing.T) {
	var d DepwarnMode
	if err := yaml.Unmarshal([]byte("bogus"), &d); err == nil {
		t.Fatalf("expected an error for an invalid depwarn mode")
	}
}

func TestLoadOptionsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")
	content := "depwarn: error\nincremental: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	opts, err := LoadOptionsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Depwarn != DepwarnError {
		t.Fatalf("expected depwarn=error, got %v", opts.Depwarn)
	}
	if !opts.Incremental {
		t.Fatalf("expected incremental=true")
	}
}

func TestLoadOptionsFileMissing(t *testing.T) {
	if _, err := LoadOptionsFile("/nonexistent/path/options.yaml"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
