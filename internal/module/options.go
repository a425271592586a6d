package module

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DepwarnMode controls how deprecated-binding use is reported (§6.3).
type DepwarnMode int

const (
	DepwarnOff DepwarnMode = iota
	DepwarnWarn
	DepwarnError
)

// UnmarshalYAML allows depwarn to be written as "off"/"warn"/"error" in a
// config file.
func (d *DepwarnMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "off":
		*d = DepwarnOff
	case "warn":
		*d = DepwarnWarn
	case "error":
		*d = DepwarnError
	default:
		return fmt.Errorf("invalid depwarn mode %q (want off, warn, or error)", s)
	}
	return nil
}

// RuntimeOptions holds the session-wide options consumed by this subsystem
// (§6.3): depwarn, and the incremental/generating_output flags that decide
// whether a restored module's initializer runs immediately or is deferred to
// a global init-order queue (see InitRestoredModules).
type RuntimeOptions struct {
	Depwarn          DepwarnMode `yaml:"depwarn"`
	Incremental      bool        `yaml:"incremental"`
	GeneratingOutput bool        `yaml:"generating_output"`
}

// DefaultOptions matches the REPL's interactive default: warn on deprecated
// use, not incremental, not generating output.
func DefaultOptions() RuntimeOptions {
	return RuntimeOptions{Depwarn: DepwarnWarn}
}

// LoadOptionsFile loads RuntimeOptions from a YAML file, following the same
// yaml.v3 + os.ReadFile idiom internal/eval_harness uses for its config
// files.
func LoadOptionsFile(path string) (RuntimeOptions, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing runtime options %s: %w", path, err)
	}
	return opts, nil
}
